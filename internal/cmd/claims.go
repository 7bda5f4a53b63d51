package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/tracelint/internal/checker"
	"github.com/harrison/tracelint/internal/parser"
	"github.com/harrison/tracelint/internal/report"
)

// NewClaimsCommand creates and returns the claims subcommand
func NewClaimsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claims <spec-document>",
		Short: "Print the identifiers and pointers extracted from one document",
		Long: `Extract and print the acceptance identifiers and test pointers of a single
specification document without checking them. Useful when a claim is not
being picked up by the extraction patterns.

A relative path is taken relative to --repo first, then to the working
directory. With --check the document is also checked on its own and the
command fails when it does not pass.`,
		Args: cobra.ExactArgs(1),
		RunE: runClaims,
	}
	cmd.Flags().Bool("check", false, "Also check this document's identifiers and pointers")
	return cmd
}

func runClaims(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	c, err := checker.New(checker.Options{RepoRoot: s.repo, Config: s.config, Logger: s.logger})
	if err != nil {
		return err
	}

	rel, err := repoRelative(c.RepoRoot(), args[0])
	if err != nil {
		return err
	}
	doc, err := parser.LoadDocument(c.RepoRoot(), rel)
	if err != nil {
		return err
	}

	out := report.New(cmd.OutOrStdout())
	out.RenderClaims(doc, c.Parser().Parse(doc))

	check, _ := cmd.Flags().GetBool("check")
	if !check {
		return nil
	}

	res, err := c.CheckDocument(cmd.Context(), doc)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	out.RenderDocument(res)
	if !res.Passed() {
		return checker.ErrLintFailed
	}
	return nil
}

// repoRelative expresses a path given on the command line relative to the
// repository root. Relative paths that exist under the root win over the
// working directory.
func repoRelative(repoRoot, path string) (string, error) {
	abs := path
	if !filepath.IsAbs(path) {
		abs = filepath.Join(repoRoot, path)
		if _, err := os.Stat(abs); err != nil {
			fromWd, err := filepath.Abs(path)
			if err != nil {
				return "", fmt.Errorf("failed to resolve %s: %w", path, err)
			}
			abs = fromWd
		}
	}
	rel, err := filepath.Rel(repoRoot, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not inside %s", path, repoRoot)
	}
	return rel, nil
}
