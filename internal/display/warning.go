package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related paths (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning, in yellow on terminals
func (w Warning) Display(out io.Writer) {
	fmt.Fprint(out, w.render(UseColor(out)))
}

func (w Warning) render(colored bool) string {
	var b strings.Builder

	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected path:\n")
		} else {
			b.WriteString("Affected paths:\n")
		}

		for i, file := range w.Files {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	return paint(colored, color.FgYellow, b.String())
}

// WarnMissingRoots creates a warning for configured roots that matched no directory.
// kind names the root list, e.g. "search" or "resolution".
func WarnMissingRoots(kind string, roots []string) Warning {
	return Warning{
		Title:      fmt.Sprintf("%d %s root(s) not found", len(roots), kind),
		Message:    "These roots are skipped; identifiers and pointers relying on them may be reported as failures.",
		Files:      roots,
		Suggestion: fmt.Sprintf("Check %s_roots in .tracelint.yaml", kind),
	}
}

// WarnNoSpecDocuments creates the warning shown when the spec directory holds no documents.
func WarnNoSpecDocuments(dir, extension string) Warning {
	return Warning{
		Title:      "No specification documents found",
		Message:    fmt.Sprintf("Looked for *%s files in %s", extension, dir),
		Suggestion: "Pass --specs or set spec_dir in .tracelint.yaml",
	}
}

// WarnEmptyDocuments creates a warning for documents that declare no identifiers and no pointers.
func WarnEmptyDocuments(paths []string) Warning {
	return Warning{
		Title:   "Specification documents without claims",
		Message: "No acceptance identifiers or implementation pointers were found in these documents.",
		Files:   paths,
	}
}
