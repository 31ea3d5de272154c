package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/reasoner"
)

var queryCmd = &cobra.Command{
	Use:   "query <relation>",
	Short: "load facts and rules, evaluate (non-installing), and print every derived row of the named relation",
	Args:  cobra.ExactArgs(1),
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

		// evaluate, not materialize: spec §6's non-installing query, so
		// repeated `reasonctl query` invocations never accumulate state.
		derived, err := r.Evaluate(program)
		if err != nil {
			return fmt.Errorf("evaluate: %w", err)
		}

		rel := in.Intern(args[0])
		for _, row := range derived[rel] {
			fmt.Println(formatRow(in, row))
		}
		return nil
	},
}
