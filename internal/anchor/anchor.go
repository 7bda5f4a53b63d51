// Package anchor decides whether acceptance identifiers are referenced
// outside the specification documents that declare them.
//
// An identifier is anchored when its literal string occurs in at least one
// allow-listed file under the search roots, not counting specification
// documents themselves. Searches never fail a run: a search that times out
// or cannot run reports no hits and the identifier is reported unanchored.
package anchor

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Searcher finds files containing an identifier.
type Searcher interface {
	// Search returns sorted repository-relative paths of files containing id.
	Search(ctx context.Context, id string) []string
}

// Logger receives diagnostic detail about degraded searches.
type Logger interface {
	LogDebug(message string)
}

// Result is the anchor outcome for one identifier.
type Result struct {
	ID   string
	Hits []string // Files that anchor ID, specification documents excluded
}

// Anchored reports whether at least one hit remains.
func (r Result) Anchored() bool {
	return len(r.Hits) > 0
}

// Checker runs anchor searches for many identifiers with bounded parallelism.
type Checker struct {
	searcher Searcher
	exclude  map[string]bool
	jobs     int
}

// NewChecker creates a Checker. exclude lists repository-relative paths
// (normally every specification document) whose hits never count.
func NewChecker(searcher Searcher, exclude []string, jobs int) *Checker {
	ex := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		ex[normalize(p)] = true
	}
	if jobs < 1 {
		jobs = 1
	}
	return &Checker{searcher: searcher, exclude: ex, jobs: jobs}
}

// Check searches every identifier and returns results in the same order as ids.
// Every identifier is searched; there is no early exit.
func (c *Checker) Check(ctx context.Context, ids []string) []Result {
	results := make([]Result, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.jobs)

	for i, id := range ids {
		g.Go(func() error {
			results[i] = Result{ID: id, Hits: c.filter(c.searcher.Search(gctx, id))}
			return nil
		})
	}
	// Workers never return errors
	_ = g.Wait()

	return results
}

func (c *Checker) filter(hits []string) []string {
	kept := make([]string, 0, len(hits))
	for _, h := range hits {
		if !c.exclude[normalize(h)] {
			kept = append(kept, h)
		}
	}
	return kept
}

func normalize(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

func debugf(l Logger, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.LogDebug(fmt.Sprintf(format, args...))
}
