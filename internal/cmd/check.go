package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/tracelint/internal/checker"
	"github.com/harrison/tracelint/internal/report"
)

// NewCheckCommand creates and returns the check subcommand
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check every specification document in the repository",
		Long: `Locate every specification document, extract its acceptance identifiers
and test pointers, and verify them:
  - Each identifier must occur in an allow-listed file under the search
    roots, excluding specification documents themselves
  - Each pointer file must resolve to exactly one file; bare names are
    searched under the resolution roots and ambiguity is a failure
  - The resolved file must declare the pointer's function

Configuration is loaded from .tracelint.yaml in the repository root if present.
The report is written to stdout; warnings and logs go to stderr.

Exit code: 0 if every claim holds, 1 if anything is unanchored or broken,
or if no specification documents are found.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}

	addCheckFlags(cmd)

	return cmd
}

// addCheckFlags registers the flags shared by check and watch
func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().String("specs", "", "Directory holding specification documents (overrides config)")
	cmd.Flags().String("backend", "", "Anchor search backend: grep or scan (overrides config)")
	cmd.Flags().Int("jobs", 0, "Maximum concurrent searches and documents (overrides config)")
	cmd.Flags().Bool("strict", false, "Require anchors to be whole words (overrides config)")
	cmd.Flags().Bool("progress", false, "Print one progress line per document to stderr")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		color.NoColor = true
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	return checkOnce(cmd, s)
}

// checkOnce runs one full check and prints the report. A fresh Checker is
// built every time so nothing cached survives between runs.
func checkOnce(cmd *cobra.Command, s *settings) error {
	var progress io.Writer
	if p, _ := cmd.Flags().GetBool("progress"); p {
		progress = cmd.ErrOrStderr()
	}

	c, err := checker.New(checker.Options{
		RepoRoot: s.repo,
		Config:   s.config,
		Logger:   s.logger,
		Warnings: cmd.ErrOrStderr(),
		Progress: progress,
	})
	if err != nil {
		return err
	}

	run, err := c.Run(cmd.Context())
	if run == nil {
		return err
	}

	report.New(cmd.OutOrStdout()).Render(run.Results, run.Summary)

	if err != nil {
		return fmt.Errorf("check interrupted: %w", err)
	}
	if run.Summary.Failed() {
		return checker.ErrLintFailed
	}
	return nil
}
