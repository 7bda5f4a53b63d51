package anchor

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// limitedSearcher caps concurrent searches across every Checker sharing it.
type limitedSearcher struct {
	inner Searcher
	sem   *semaphore.Weighted
}

// Limit wraps s so that at most n searches run at once, no matter how many
// documents are checked in parallel. n < 1 is treated as 1.
func Limit(s Searcher, n int) Searcher {
	if n < 1 {
		n = 1
	}
	return &limitedSearcher{inner: s, sem: semaphore.NewWeighted(int64(n))}
}

// Search waits for a slot; a cancelled wait reports no hits.
func (l *limitedSearcher) Search(ctx context.Context, id string) []string {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil
	}
	defer l.sem.Release(1)
	return l.inner.Search(ctx, id)
}
