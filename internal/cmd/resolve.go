package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/tracelint/internal/checker"
	"github.com/harrison/tracelint/internal/display"
	"github.com/harrison/tracelint/internal/models"
	"github.com/harrison/tracelint/internal/report"
)

// NewResolveCommand creates and returns the resolve subcommand
func NewResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <filename>...",
		Short: "Explain how pointer filenames resolve",
		Long: `Resolve one or more pointer filenames exactly as the check command does.
Prefixed names are looked up relative to the repository root; bare names
are searched under every resolution root. Every candidate is listed when a
name is ambiguous.

Exit code: 0 if every name resolves to exactly one file, 1 otherwise.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runResolve,
	}
	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	c, err := checker.New(checker.Options{RepoRoot: s.repo, Config: s.config, Logger: s.logger})
	if err != nil {
		return err
	}

	r, missing, err := c.Resolver()
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		display.WarnMissingRoots("resolution", missing).Display(cmd.ErrOrStderr())
	}

	out := report.New(cmd.OutOrStdout())
	failed := 0
	for _, name := range args {
		res := r.Resolve(name)
		if res.Outcome != models.Resolved {
			failed++
		}
		out.RenderResolution(name, res)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d filename(s) did not resolve", failed, len(args))
	}
	return nil
}
