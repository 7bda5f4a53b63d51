package anchor

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/harrison/tracelint/internal/fileutil"
)

// ScanSearcher searches the roots in-process. The allow-listed corpus is read
// once on first use and every identifier is answered from memory, so the
// cost is one walk per run instead of one per identifier.
type ScanSearcher struct {
	RepoRoot   string
	Roots      []string // Relative to RepoRoot
	Extensions []string
	WholeWord  bool
	Logger     Logger

	once   sync.Once
	corpus []corpusFile
}

type corpusFile struct {
	path string // Repository-relative, slash-separated
	text string
}

// Search returns repository-relative files under the roots containing id.
func (s *ScanSearcher) Search(ctx context.Context, id string) []string {
	if id == "" {
		return nil
	}
	s.once.Do(s.load)

	var match func(string) bool
	if s.WholeWord {
		re := wholeWordPattern(id)
		match = re.MatchString
	} else {
		match = func(text string) bool { return strings.Contains(text, id) }
	}

	var hits []string
	for _, f := range s.corpus {
		if ctx.Err() != nil {
			return nil
		}
		if match(f.text) {
			hits = append(hits, f.path)
		}
	}
	sort.Strings(hits)
	return hits
}

// load reads every allow-listed file under the roots. Unreadable files and
// roots are skipped.
func (s *ScanSearcher) load() {
	seen := make(map[string]bool)
	root, err := filepath.Abs(s.RepoRoot)
	if err != nil {
		debugf(s.Logger, "cannot resolve repository root %s: %v", s.RepoRoot, err)
		return
	}

	for _, r := range s.Roots {
		result, err := fileutil.ScanDirectory(filepath.Join(root, r), fileutil.ScanOptions{
			Extensions: s.Extensions,
			Recursive:  true,
		})
		if err != nil {
			debugf(s.Logger, "skipping search root %s: %v", r, err)
			continue
		}
		for _, e := range result.Errors {
			debugf(s.Logger, "search root %s: %v", r, e)
		}

		for _, abs := range result.Files {
			rel, err := filepath.Rel(root, abs)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if seen[rel] {
				continue
			}
			seen[rel] = true

			data, err := os.ReadFile(abs)
			if err != nil {
				debugf(s.Logger, "skipping unreadable %s: %v", rel, err)
				continue
			}
			s.corpus = append(s.corpus, corpusFile{path: rel, text: string(data)})
		}
	}
	debugf(s.Logger, "loaded %d searchable files", len(s.corpus))
}

// wholeWordPattern mirrors grep -w: the match may not touch a letter, digit or underscore.
func wholeWordPattern(id string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^A-Za-z0-9_])` + regexp.QuoteMeta(id) + `(?:$|[^A-Za-z0-9_])`)
}
