package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/harrison/tracelint/internal/models"
)

// Parser extracts acceptance identifiers and test pointers from document text.
// Extraction is purely textual; the document's own structure is ignored.
type Parser struct {
	idPattern      *regexp.Regexp
	pointerPattern *regexp.Regexp
}

// NewParser builds a Parser for the given identifier namespace prefixes and
// implementation file extension (e.g. ".rs").
func NewParser(prefixes []string, extension string) (*Parser, error) {
	idPattern, err := IdentifierPattern(prefixes)
	if err != nil {
		return nil, err
	}
	pointerPattern, err := PointerPattern(extension)
	if err != nil {
		return nil, err
	}
	return &Parser{idPattern: idPattern, pointerPattern: pointerPattern}, nil
}

// IdentifierPattern compiles the acceptance identifier matcher:
// one of the prefixes, a module number, then one or more dash-separated
// upper-case segments, e.g. S1-M1-DETERMINISM-CROSSPROC.
func IdentifierPattern(prefixes []string) (*regexp.Regexp, error) {
	if len(prefixes) == 0 {
		return nil, fmt.Errorf("at least one identifier prefix is required")
	}

	alts := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p == "" {
			return nil, fmt.Errorf("identifier prefix cannot be empty")
		}
		alts = append(alts, regexp.QuoteMeta(p))
	}
	// Longest first so a prefix never shadows a longer one sharing its start
	sort.SliceStable(alts, func(i, j int) bool { return len(alts[i]) > len(alts[j]) })

	expr := `\b(?:` + strings.Join(alts, "|") + `)\d+(?:-[A-Z0-9]+)+\b`
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid identifier pattern %q: %w", expr, err)
	}
	return re, nil
}

// PointerPattern compiles the matcher for quoted `<path><ext>::<function>` pointers.
// Double quotes, single quotes and backticks are all accepted as delimiters.
func PointerPattern(extension string) (*regexp.Regexp, error) {
	if extension == "" {
		return nil, fmt.Errorf("implementation extension cannot be empty")
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	expr := "[\"'`]([^\"'`\\s]+" + regexp.QuoteMeta(extension) + ")::([A-Za-z_][A-Za-z0-9_]*)[\"'`]"
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pointer pattern %q: %w", expr, err)
	}
	return re, nil
}

// ExtractIDs returns the set of distinct identifiers in text, sorted.
func (p *Parser) ExtractIDs(text string) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, m := range p.idPattern.FindAllString(text, -1) {
		if !seen[m] {
			seen[m] = true
			ids = append(ids, m)
		}
	}
	sort.Strings(ids)
	return ids
}

// ExtractPointers returns every pointer occurrence in document order.
// Repeated pointers on different lines are kept as separate claims.
func (p *Parser) ExtractPointers(text string) []models.Pointer {
	pointers := make([]models.Pointer, 0)
	for i, line := range strings.Split(text, "\n") {
		for _, m := range p.pointerPattern.FindAllStringSubmatch(line, -1) {
			pointers = append(pointers, models.Pointer{
				File:     m[1],
				Function: m[2],
				Line:     i + 1,
			})
		}
	}
	return pointers
}

// Parse runs both extraction passes over one document.
func (p *Parser) Parse(doc models.Document) models.Claims {
	return models.Claims{
		IDs:      p.ExtractIDs(doc.Text),
		Pointers: p.ExtractPointers(doc.Text),
	}
}
