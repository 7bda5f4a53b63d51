package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/tracelint/internal/checker"
	"github.com/harrison/tracelint/internal/fileutil"
	"github.com/harrison/tracelint/internal/logger"
	"github.com/harrison/tracelint/internal/source"
	"github.com/harrison/tracelint/internal/watch"
)

// NewWatchCommand creates and returns the watch subcommand
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the check whenever specifications or code change",
		Long: `Run the check once, then watch the specification directory, the search
roots and the resolution roots, re-running the full check after every burst
of changes. Failures are reported but never stop the watch; press Ctrl+C
to exit.`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}

	addCheckFlags(cmd)
	cmd.Flags().Duration("debounce", watch.DefaultDebounceDelay, "Quiet period before re-checking after a change")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		color.NoColor = true
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)

	dirs, extensions, err := watchTargets(s)
	if err != nil {
		return err
	}
	debounce, _ := cmd.Flags().GetDuration("debounce")

	w, err := watch.New(watch.Options{
		Dirs:          dirs,
		Extensions:    extensions,
		ExcludeDirs:   s.config.ExcludeDirs,
		DebounceDelay: debounce,
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	rerun := func() {
		if err := checkOnce(cmd, s); err != nil && !errors.Is(err, checker.ErrLintFailed) {
			s.logger.LogError(err.Error())
		}
	}

	rerun()
	s.logger.Infof("watching %d director(ies) for changes", len(dirs))
	return watchLoop(ctx, w.Changes(), w.Errors(), s.logger, rerun)
}

// watchLoop re-runs the check for every batch until ctx is done
func watchLoop(ctx context.Context, changes <-chan []string, errs <-chan error, log *logger.ConsoleLogger, rerun func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case batch := <-changes:
			log.Infof("%d file(s) changed, re-checking", len(batch))
			for _, p := range batch {
				log.Debugf("changed: %s", p)
			}
			rerun()
		case err := <-errs:
			log.Warnf("watch error: %v", err)
		}
	}
}

// watchTargets returns the absolute directories and file extensions whose
// changes can alter the outcome of a check
func watchTargets(s *settings) ([]string, []string, error) {
	repo, err := filepath.Abs(s.repo)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve repository root: %w", err)
	}

	dirs := []string{filepath.Join(repo, s.config.SpecDir)}
	for _, patterns := range [][]string{s.config.SearchRoots, s.config.ResolutionRoots} {
		roots, err := fileutil.ExpandRoots(repo, patterns)
		if err != nil {
			return nil, nil, err
		}
		dirs = append(dirs, roots.Abs(repo)...)
	}

	seen := make(map[string]bool)
	var extensions []string
	add := func(ext string) {
		if ext != "" && !seen[ext] {
			seen[ext] = true
			extensions = append(extensions, ext)
		}
	}
	add(s.config.SpecExtension)
	for _, ext := range s.config.AnchorExtensions {
		add(ext)
	}
	if lang, ok := source.Lookup(s.config.Language); ok {
		add(lang.Extension)
	}

	return dirs, extensions, nil
}
