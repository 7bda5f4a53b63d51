// Package report renders lint results as console text.
//
// Output is a pure function of its input: documents appear in the order
// given (the checker sorts them by path), identifiers in sorted order and
// pointers in line order, so two runs over the same tree print the same
// bytes regardless of how the checks were scheduled.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/harrison/tracelint/internal/display"
	"github.com/harrison/tracelint/internal/models"
)

// Renderer writes reports to a writer.
type Renderer struct {
	w     io.Writer
	color bool
}

// New creates a Renderer that colors output only when w is a terminal.
func New(w io.Writer) *Renderer {
	return &Renderer{w: w, color: display.UseColor(w)}
}

// NewWithColor creates a Renderer with color forced on or off.
func NewWithColor(w io.Writer, enabled bool) *Renderer {
	return &Renderer{w: w, color: enabled}
}

func (r *Renderer) paint(attr color.Attribute, s string) string {
	if !r.color {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

func (r *Renderer) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.w, format, args...)
}

// Render writes every document section followed by the summary.
func (r *Renderer) Render(results []models.DocumentResult, summary models.Summary) {
	for i, res := range results {
		if i > 0 {
			r.printf("\n")
		}
		r.RenderDocument(res)
	}
	if len(results) > 0 {
		r.printf("\n")
	}
	r.RenderSummary(summary)
}

// RenderDocument writes one document section: counts, then one line per failure.
func (r *Renderer) RenderDocument(res models.DocumentResult) {
	status := r.paint(color.FgGreen, "PASS")
	if !res.Passed() {
		status = r.paint(color.FgRed, "FAIL")
	}
	r.printf("%s %s (%s)\n", status, r.paint(color.Bold, res.Document.Name), res.Document.Path)

	r.printf("  Acceptance IDs: %d\n", len(res.IDs))
	r.printf("    Anchored: %d\n", len(res.IDs)-len(res.Unanchored))
	r.printf("    Unanchored: %d\n", len(res.Unanchored))
	for _, id := range res.Unanchored {
		r.printf("      %s %s\n", r.paint(color.FgRed, "-"), id)
	}

	r.printf("  Test pointers: %d\n", len(res.Pointers))
	r.printf("    Verified: %d\n", len(res.Pointers)-len(res.Broken))
	r.printf("    Broken: %d\n", len(res.Broken))
	for _, b := range res.Broken {
		r.printf("      %s line %d: %q %s\n", r.paint(color.FgRed, "-"), b.Pointer.Line, b.Pointer.String(), b.Describe())
	}

	for _, hint := range hints(res) {
		r.printf("  %s %s\n", r.paint(color.FgYellow, "Fix:"), hint)
	}
}

// hints returns remediation advice for the failure kinds present in res.
func hints(res models.DocumentResult) []string {
	var out []string
	if len(res.Unanchored) > 0 {
		out = append(out, "add a comment like '// ACCEPTANCE: <ID>' above the relevant test cluster.")
	}

	var ambiguous, missing, function bool
	for _, b := range res.Broken {
		switch b.Reason {
		case models.ReasonAmbiguous:
			ambiguous = true
		case models.ReasonFileNotFound:
			missing = true
		case models.ReasonFunctionNotFound:
			function = true
		}
	}
	if ambiguous {
		out = append(out, "use a prefixed path (e.g. \"kernel/src/file.rs::function\") for ambiguous pointers.")
	}
	if missing {
		out = append(out, "check that pointer files exist under a resolution root or use a repository-relative path.")
	}
	if function {
		out = append(out, "rename the pointer or restore the function it names.")
	}
	return out
}

// RenderSummary writes the aggregate totals and the final verdict.
func (r *Renderer) RenderSummary(s models.Summary) {
	r.printf("Summary: %d document(s), %d acceptance ID(s) (%d unanchored), %d test pointer(s) (%d broken)\n",
		s.Documents, s.IDs, s.Unanchored, s.Pointers, s.Broken)
	if s.Failed() {
		r.printf("%s\n", r.paint(color.FgRed, "FAIL"))
		return
	}
	r.printf("%s\n", r.paint(color.FgGreen, "PASS"))
}

// RenderClaims writes the identifiers and pointers extracted from one document.
func (r *Renderer) RenderClaims(doc models.Document, claims models.Claims) {
	r.printf("%s (%s)\n", r.paint(color.Bold, doc.Name), doc.Path)
	r.printf("Acceptance IDs (%d):\n", len(claims.IDs))
	for _, id := range claims.IDs {
		r.printf("  %s\n", id)
	}
	r.printf("Test pointers (%d):\n", len(claims.Pointers))
	for _, p := range claims.Pointers {
		kind := "prefixed"
		if p.IsBare() {
			kind = "bare"
		}
		r.printf("  line %d: %s (%s)\n", p.Line, p.String(), kind)
	}
}

// RenderResolution writes how a pointer filename resolved.
func (r *Renderer) RenderResolution(name string, res models.Resolution) {
	switch res.Outcome {
	case models.Resolved:
		r.printf("%s %s -> %s\n", r.paint(color.FgGreen, "✓"), name, res.Path)
	case models.NotFound:
		r.printf("%s %s: not found\n", r.paint(color.FgRed, "✗"), name)
	case models.Ambiguous:
		r.printf("%s %s: ambiguous, %d candidates\n", r.paint(color.FgYellow, "✗"), name, len(res.Candidates))
		for _, c := range res.Candidates {
			r.printf("  %s\n", c)
		}
	}
}
