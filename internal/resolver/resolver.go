// Package resolver maps pointer filenames to concrete files in a repository.
//
// A prefixed filename ("kernel/src/compile.rs") is authoritative: if it exists
// relative to the repository root it resolves immediately and no root search
// happens. A prefix that climbs out of the repository is never followed. Anything else is reduced to its base name and searched for under
// every resolution root. Exactly one match resolves; zero is not-found; two or
// more is ambiguous and is never narrowed to a single guess.
package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/tracelint/internal/fileutil"
	"github.com/harrison/tracelint/internal/models"
)

// Resolver resolves pointer filenames against an explicit repository root.
type Resolver struct {
	repoRoot    string   // Absolute repository root
	roots       []string // Absolute resolution roots
	excludeDirs []string
}

// New creates a Resolver. roots are directories relative to repoRoot,
// typically the output of fileutil.ExpandRoots.
func New(repoRoot string, roots []string, excludeDirs []string) (*Resolver, error) {
	abs, err := filepath.Abs(repoRoot)
	if err != nil {
		return nil, err
	}

	absRoots := make([]string, len(roots))
	for i, r := range roots {
		absRoots[i] = filepath.Join(abs, r)
	}

	return &Resolver{
		repoRoot:    abs,
		roots:       absRoots,
		excludeDirs: excludeDirs,
	}, nil
}

// Resolve maps name to a Resolution. Resolved paths and ambiguity candidates
// are repository-relative, slash-separated and sorted.
func (r *Resolver) Resolve(name string) models.Resolution {
	if name == "" {
		return models.Unresolved()
	}

	direct := filepath.Join(r.repoRoot, filepath.FromSlash(name))
	if r.contains(direct) {
		if info, err := os.Stat(direct); err == nil && !info.IsDir() {
			return models.ResolvedTo(r.relative(direct))
		}
	}

	base := filepath.Base(filepath.FromSlash(name))
	matches := fileutil.FindByName(r.roots, base, r.excludeDirs)

	switch len(matches) {
	case 0:
		return models.Unresolved()
	case 1:
		return models.ResolvedTo(r.relative(matches[0]))
	default:
		candidates := make([]string, len(matches))
		for i, m := range matches {
			candidates[i] = r.relative(m)
		}
		return models.AmbiguousAmong(candidates)
	}
}

// Abs returns the absolute location of a repository-relative path.
func (r *Resolver) Abs(rel string) string {
	return filepath.Join(r.repoRoot, filepath.FromSlash(rel))
}

// contains reports whether abs lies inside the repository root.
func (r *Resolver) contains(abs string) bool {
	rel, err := filepath.Rel(r.repoRoot, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (r *Resolver) relative(abs string) string {
	rel, err := filepath.Rel(r.repoRoot, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}
