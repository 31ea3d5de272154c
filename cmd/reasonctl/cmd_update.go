package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/reasoner"
)

var changesPath string

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "load facts and rules, materialize, then apply a changes file and re-report the total row count",
	Long: `A changes file has one change per line: a leading "+" or "-" sign,
then a relation name, then its row's N-Triples-like fields, e.g.:

  + T alice rdf:type Person
  - T bob rdf:type Person`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if factsPath == "" || rulesPath == "" || changesPath == "" {
			return fmt.Errorf("--facts, --rules, and --changes are all required")
		}
		kind, err := resolveIndexKind()
		if err != nil {
			return err
		}

		in := intern.NewTable()
		r := reasoner.New(reasoner.WithInterner(in), reasoner.WithIndexKind(kind), reasoner.WithLogger(logger))

		if _, err := loadFacts(r, in, factsPath); err != nil {
			return err
		}
		program, err := loadRules(in, rulesPath)
		if err != nil {
			return err
		}
		if err := r.Materialize(program); err != nil {
			return fmt.Errorf("materialize: %w", err)
		}

		changes, err := loadChanges(in, changesPath)
		if err != nil {
			return err
		}
		if err := r.Update(changes); err != nil {
			return fmt.Errorf("update: %w", err)
		}

		printRelationCounts(r, in, program)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&changesPath, "changes", "", "path to a changes file (see --help)")
}

// loadChanges parses a changes file into a slice of reasoner.Change.
func loadChanges(in intern.Interner, path string) ([]reasoner.Change, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open changes file: %w", err)
	}
	defer f.Close()

	var out []reasoner.Change
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("changes file %s line %d: want \"+/- relation field...\", got %q", path, lineNo, line)
		}

		var sign reasoner.Sign
		switch fields[0] {
		case "+":
			sign = reasoner.Add
		case "-":
			sign = reasoner.Remove
		default:
			return nil, fmt.Errorf("changes file %s line %d: sign must be + or -, got %q", path, lineNo, fields[0])
		}

		rel := in.Intern(fields[1])
		row := termsToRow(in, fields[2:])
		out = append(out, reasoner.Change{Sign: sign, Relation: rel, Row: row})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
