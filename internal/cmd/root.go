package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for tracelint
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracelint",
		Short: "Traceability checker for acceptance identifiers and test pointers",
		Long: `Tracelint verifies that specification documents stay connected to code.

Every acceptance identifier declared in a specification document must be
referenced from at least one file outside the specification, and every
"<file>::<function>" test pointer must resolve to exactly one file that
declares the named function.

Exit code: 0 if every claim holds, 1 otherwise.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text;
		// main prints the returned error once
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("repo", ".", "Repository root to check")
	cmd.PersistentFlags().String("config", "", "Path to config file (default: <repo>/.tracelint.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error (overrides config)")

	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewClaimsCommand())
	cmd.AddCommand(NewResolveCommand())
	cmd.AddCommand(NewWatchCommand())

	return cmd
}
