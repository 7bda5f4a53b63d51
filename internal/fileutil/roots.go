package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// RootSet is the outcome of expanding configured root patterns against a repository.
type RootSet struct {
	// Dirs are the existing directories, relative to the repository root, sorted
	Dirs []string
	// Missing are patterns that matched no directory
	Missing []string
}

// ExpandRoots expands root patterns relative to repoRoot.
// Patterns may be plain paths ("kernel/") or doublestar globs ("tests/*/src", "crates/**/src").
// Patterns that match nothing are reported in Missing instead of failing.
func ExpandRoots(repoRoot string, patterns []string) (*RootSet, error) {
	fsys := os.DirFS(repoRoot)
	set := &RootSet{}
	seen := make(map[string]bool)

	for _, raw := range patterns {
		pattern := normalizePattern(raw)
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid root pattern %q", raw)
		}

		var dirs []string
		if containsGlob(pattern) {
			matches, err := doublestar.Glob(fsys, pattern)
			if err != nil {
				return nil, fmt.Errorf("glob %q: %w", raw, err)
			}
			for _, m := range matches {
				if isDir(fsys, m) {
					dirs = append(dirs, m)
				}
			}
		} else if isDir(fsys, pattern) {
			dirs = append(dirs, pattern)
		}

		if len(dirs) == 0 {
			set.Missing = append(set.Missing, raw)
			continue
		}
		for _, d := range dirs {
			d = filepath.FromSlash(d)
			if !seen[d] {
				seen[d] = true
				set.Dirs = append(set.Dirs, d)
			}
		}
	}

	sort.Strings(set.Dirs)
	return set, nil
}

// Abs joins every directory in the set onto repoRoot.
func (s *RootSet) Abs(repoRoot string) []string {
	out := make([]string, len(s.Dirs))
	for i, d := range s.Dirs {
		out[i] = filepath.Join(repoRoot, d)
	}
	return out
}

// normalizePattern converts a configured root into an io/fs compatible pattern.
func normalizePattern(p string) string {
	p = filepath.ToSlash(strings.TrimSpace(p))
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return "."
	}
	return path.Clean(p)
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func isDir(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && info.IsDir()
}
