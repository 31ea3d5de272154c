package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kevinawalsh/reasoner/internal/ast"
	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/reasoner"
)

var materializeCmd = &cobra.Command{
	Use:   "materialize",
	Short: "load facts and rules, run the rule program to fixpoint, and report the total row count",
	RunE: func(cmd *cobra.Command, args []string) error {
		if factsPath == "" || rulesPath == "" {
			return fmt.Errorf("--facts and --rules are both required")
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

		printRelationCounts(r, in, program)
		return nil
	},
}

// printRelationCounts prints the store's total row count (TripleCount),
// then the name of every relation named by program's heads plus the fixed
// triple relation, sorted. Per-relation row counts are not printed.
func printRelationCounts(r *reasoner.Reasoner, in intern.Interner, program []ast.Rule) {
	seen := map[string]bool{tripleRelation: true}
	for _, rule := range program {
		if name, ok := in.Resolve(rule.Head.Relation); ok {
			seen[name] = true
		}
	}

	ordered := make([]string, 0, len(seen))
	for n := range seen {
		ordered = append(ordered, n)
	}
	sort.Strings(ordered)

	fmt.Printf("total rows: %d\n", r.TripleCount())
	for _, n := range ordered {
		fmt.Printf("  %s\n", n)
	}
}
