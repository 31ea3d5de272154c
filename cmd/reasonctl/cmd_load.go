package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/reasoner"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "load a fact file and report the resulting triple count",
	RunE: func(cmd *cobra.Command, args []string) error {
		if factsPath == "" {
			return fmt.Errorf("--facts is required")
		}
		kind, err := resolveIndexKind()
		if err != nil {
			return err
		}

		in := intern.NewTable()
		r := reasoner.New(reasoner.WithInterner(in), reasoner.WithIndexKind(kind), reasoner.WithLogger(logger))

		n, err := loadFacts(r, in, factsPath)
		if err != nil {
			return err
		}
		fmt.Printf("loaded %d facts (%d total rows in store)\n", n, r.TripleCount())
		return nil
	},
}
