package anchor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// GrepSearcher delegates anchor search to an external grep.
// Each invocation is bounded by Timeout; a timeout, a missing grep or any
// other failure yields no hits rather than an error.
type GrepSearcher struct {
	RepoRoot   string        // Working directory for grep
	Roots      []string      // Search roots relative to RepoRoot
	Extensions []string      // File extension allow-list
	Timeout    time.Duration // Per-invocation bound
	WholeWord  bool          // Pass -w so anchors must be whole words
	Binary     string        // grep executable, "grep" when empty
	Runner     CommandRunner
	Logger     Logger
}

// Search returns repository-relative files under the roots containing id.
func (g *GrepSearcher) Search(ctx context.Context, id string) []string {
	if len(g.Roots) == 0 || id == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	runner := g.Runner
	if runner == nil {
		runner = NewExecCommandRunner()
	}

	out, err := runner.Run(ctx, g.RepoRoot, g.binary(), g.args(id)...)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			debugf(g.Logger, "grep for %s timed out after %v, treating as no hits", id, g.Timeout)
			return nil
		case errors.Is(err, exec.ErrNotFound):
			debugf(g.Logger, "grep unavailable (%v), treating %s as no hits", err, id)
			return nil
		}
		// Exit status 1 means no match; 2 may still carry partial matches
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			debugf(g.Logger, "grep for %s failed: %v", id, err)
			return nil
		}
	}

	return parseFileList(out)
}

func (g *GrepSearcher) binary() string {
	if g.Binary == "" {
		return "grep"
	}
	return g.Binary
}

// args builds: grep -r -l -F [-w] --include=*.ext ... -e <id> -- <roots...>
func (g *GrepSearcher) args(id string) []string {
	args := []string{"-r", "-l", "-F"}
	if g.WholeWord {
		args = append(args, "-w")
	}
	for _, ext := range g.Extensions {
		ext = strings.TrimPrefix(ext, ".")
		args = append(args, fmt.Sprintf("--include=*.%s", ext))
	}
	args = append(args, "-e", id, "--")
	args = append(args, g.Roots...)
	return args
}

// parseFileList splits grep -l output into cleaned, sorted, unique paths.
func parseFileList(out string) []string {
	seen := make(map[string]bool)
	var files []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		p := filepath.ToSlash(filepath.Clean(line))
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}
	sort.Strings(files)
	return files
}
