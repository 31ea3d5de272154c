package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kevinawalsh/reasoner/internal/depgraph"
	"github.com/kevinawalsh/reasoner/internal/intern"
	"github.com/kevinawalsh/reasoner/internal/value"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "parse a rule program and print its dependency graph as Graphviz DOT",
	RunE: func(cmd *cobra.Command, args []string) error {
		if rulesPath == "" {
			return fmt.Errorf("--rules is required")
		}

		in := intern.NewTable()
		program, err := loadRules(in, rulesPath)
		if err != nil {
			return err
		}

		g := depgraph.Build(program)
		strat := g.Stratify()
		if !strat.Stratified {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: program is not stratifiable (negation through a recursive cycle)")
		}

		fmt.Print(g.ExportDOT(func(s value.Symbol) string {
			name, ok := in.Resolve(s)
			if !ok {
				return fmt.Sprintf("rel%d", s)
			}
			return name
		}))
		return nil
	},
}
