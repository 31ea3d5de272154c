// Command reasonctl is the command-line driver for the reasoner engine
// (spec §6's "top-level command-line driver" out-of-scope collaborator):
// it owns file I/O for the N-Triples-like fact surface, the rule surface
// parser's host program, predicate-URI normalization, and the process
// exit-code convention. None of that belongs in the core engine.
//
// Grounded on theRebelliousNerd-codenerd's cmd/nerd/main.go (rootCmd +
// persistent flags + per-command files registered from init, cobra.Command
// throughout) and on spec §6/§8's scenario shapes (predicate normalization
// lifted from original_source/src/bin.rs's load3ple-driven main).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kevinawalsh/reasoner/internal/database"
)

var (
	verbose   bool
	factsPath string
	rulesPath string
	indexKind string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "reasonctl",
	Short: "reasonctl drives the reasoner Datalog engine from the command line",
	Long: `reasonctl loads facts and rules from files, runs them through the
reasoner engine (insert/materialize/update/query), and reports results as
N-Triples-like lines or a Graphviz dependency graph.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&factsPath, "facts", "", "path to an N-Triples-like fact file (required by commands that need a fact store)")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "path to a rule-surface program file (required by commands that evaluate rules)")
	rootCmd.PersistentFlags().StringVar(&indexKind, "index", "hash", "column index backing: hash or btree")

	rootCmd.AddCommand(loadCmd, materializeCmd, queryCmd, updateCmd, graphCmd)
}

func resolveIndexKind() (database.IndexKind, error) {
	switch indexKind {
	case "hash":
		return database.IndexKindHash, nil
	case "btree":
		return database.IndexKindTree, nil
	default:
		return 0, fmt.Errorf("unknown --index %q (want hash or btree)", indexKind)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "reasonctl:", err)
		os.Exit(1)
	}
}
