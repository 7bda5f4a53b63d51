package models

import (
	"fmt"
	"strings"
)

// BrokenReason explains why a pointer failed verification
type BrokenReason string

// Broken pointer reasons
const (
	ReasonFileNotFound     BrokenReason = "file-not-found"
	ReasonAmbiguous        BrokenReason = "ambiguous"
	ReasonFunctionNotFound BrokenReason = "function-not-found"
)

// BrokenPointer is a pointer that failed, with the reason and context needed to fix it.
type BrokenPointer struct {
	Pointer    Pointer
	Reason     BrokenReason
	Path       string   // Resolved file, set for ReasonFunctionNotFound
	Candidates []string // Set for ReasonAmbiguous
}

// Describe returns the human-readable failure explanation.
func (b BrokenPointer) Describe() string {
	switch b.Reason {
	case ReasonFileNotFound:
		return fmt.Sprintf("file not found: %s", b.Pointer.File)
	case ReasonAmbiguous:
		return fmt.Sprintf("ambiguous: %d candidates (%s)", len(b.Candidates), strings.Join(b.Candidates, ", "))
	case ReasonFunctionNotFound:
		return fmt.Sprintf("function %q not found in %s", b.Pointer.Function, b.Path)
	default:
		return string(b.Reason)
	}
}

// DocumentResult holds the lint tallies and failures for one specification document.
type DocumentResult struct {
	Document   Document
	IDs        []string        // All distinct identifiers, sorted
	Unanchored []string        // Identifiers with no anchor, sorted
	Pointers   []Pointer       // All pointers in line order
	Broken     []BrokenPointer // Failed pointers in line order
}

// Passed reports whether the document has no unanchored IDs and no broken pointers.
func (r DocumentResult) Passed() bool {
	return len(r.Unanchored) == 0 && len(r.Broken) == 0
}

// HasClaims reports whether anything was extracted from the document.
func (r DocumentResult) HasClaims() bool {
	return len(r.IDs) > 0 || len(r.Pointers) > 0
}

// Summary aggregates results across every document of a run.
type Summary struct {
	Documents  int
	IDs        int
	Unanchored int
	Pointers   int
	Broken     int
}

// Add folds one document result into the summary.
func (s *Summary) Add(r DocumentResult) {
	s.Documents++
	s.IDs += len(r.IDs)
	s.Unanchored += len(r.Unanchored)
	s.Pointers += len(r.Pointers)
	s.Broken += len(r.Broken)
}

// Failed reports the binary process-level decision.
func (s Summary) Failed() bool {
	return s.Unanchored+s.Broken > 0
}
