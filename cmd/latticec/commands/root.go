package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	nodeName   string
	factsPath  string
	jsonOutput bool
)

// Execute runs the root command.
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "latticec",
		Short: "lattice - declarative configuration language compiler",
		Long: `latticec drives the lattice evaluation core: it binds a node's facts to
a set of class, defined-type, and node declarations and compiles a
catalog of concrete resources.

This build carries no source-text parser (that is an external
collaborator); the demo programs the subcommands below compile are
built in-process from the AST directly. A real deployment wires a
parser through registry.ParseFunc and hands its output to
pkg/compiler.Compiler.Compile.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	rootCmd.PersistentFlags().StringVar(&nodeName, "node", "default.example.com", "node name to compile for")
	rootCmd.PersistentFlags().StringVar(&factsPath, "facts", "", "path to a JSON file of facts (flat string-keyed object)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit machine-readable JSON output")

	rootCmd.AddCommand(newCompileCommand())
	rootCmd.AddCommand(newValidateTypeCommand())
	rootCmd.AddCommand(newExplainFinalizeCommand())

	return rootCmd
}
