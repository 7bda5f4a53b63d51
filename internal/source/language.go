// Package source verifies that named functions are declared in implementation files.
//
// Verification is textual: a file satisfies a claim when it contains a
// declaration keyword followed by the exact function name and an opening
// parameter delimiter. Nothing is parsed or compiled.
package source

import (
	"fmt"
	"os"
	"regexp"
	"sort"
)

// Language describes how one implementation language declares functions.
type Language struct {
	Name      string // Profile name used in configuration
	Extension string // Implementation file extension, including the dot
	// declaration is a regexp template with one %s verb for the quoted name
	declaration string
}

var languages = map[string]Language{
	"rust": {
		Name:      "rust",
		Extension: ".rs",
		// fn name<T: Into<Vec<u8>>>( with an optional generic list nested up
		// to three levels; -> may appear inside Fn bounds
		declaration: `\bfn\s+%s\b\s*(?:<(?:->|[^<>{;]|<(?:->|[^<>{;]|<(?:->|[^<>{;])*>)*>)*>\s*)?\(`,
	},
	"go": {
		Name:      "go",
		Extension: ".go",
		// func (r *T) Name[T any]( with optional receiver and type parameters
		declaration: `\bfunc\s+(?:\([^)]*\)\s*)?%s\b\s*(?:\[(?:[^\[\]]|\[[^\[\]]*\])*\]\s*)?\(`,
	},
	"python": {
		Name:        "python",
		Extension:   ".py",
		declaration: `\bdef\s+%s\b\s*\(`,
	},
}

// Lookup returns the language profile registered under name.
func Lookup(name string) (Language, bool) {
	l, ok := languages[name]
	return l, ok
}

// Names returns the registered profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(languages))
	for n := range languages {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DeclarationPattern compiles the declaration matcher for one function name.
func (l Language) DeclarationPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(l.declaration, regexp.QuoteMeta(name)))
}

// Declares reports whether text contains a declaration of name.
func (l Language) Declares(text, name string) bool {
	if name == "" {
		return false
	}
	return l.DeclarationPattern(name).MatchString(text)
}

// HasFunction reports whether the file at path declares name.
// Read failures count as "not declared".
func (l Language) HasFunction(path, name string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return l.Declares(string(data), name)
}
