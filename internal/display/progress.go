package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// ProgressIndicator prints one line per checked document.
// Step is safe for concurrent use; documents finish in any order.
type ProgressIndicator struct {
	writer  io.Writer
	total   int
	current int
	color   bool
	mu      sync.Mutex
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{
		writer: w,
		total:  total,
		color:  UseColor(w),
	}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "Checking %d specification document(s):\n", p.total)
}

// Step displays progress for one finished document: [N/Total] name (PASS|FAIL)
func (p *ProgressIndicator) Step(name string, passed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current++
	status := paint(p.color, color.FgGreen, "ok")
	if !passed {
		status = paint(p.color, color.FgRed, "failed")
	}
	line := paint(p.color, color.FgCyan, fmt.Sprintf("  [%d/%d] %s", p.current, p.total, name))
	fmt.Fprintf(p.writer, "%s %s\n", line, status)
}

// Complete displays the closing line
func (p *ProgressIndicator) Complete() {
	fmt.Fprintf(p.writer, "%s Checked %d specification document(s)\n",
		paint(p.color, color.FgGreen, "✓"), p.total)
}
