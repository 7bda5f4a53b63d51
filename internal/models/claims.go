package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Document is a specification document located on disk.
// Its text is read once per run and never modified.
type Document struct {
	Path string // Path relative to the repository root
	Name string // File stem, e.g. "SPINE-001"
	Text string // Full document text
}

// NewDocument builds a Document from a repository-relative path and its text.
func NewDocument(path, text string) Document {
	base := filepath.Base(path)
	return Document{
		Path: path,
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
		Text: text,
	}
}

// Pointer is a `<file>::<function>` claim found on one line of a document.
// Identical file/function pairs on different lines are distinct pointers.
type Pointer struct {
	File     string // Filename as written, bare or prefixed
	Function string // Function name claimed to exist in File
	Line     int    // 1-based line number in the document
}

// String renders the pointer the way it appears in the document.
func (p Pointer) String() string {
	return fmt.Sprintf("%s::%s", p.File, p.Function)
}

// IsBare reports whether the pointer filename carries no directory component.
func (p Pointer) IsBare() bool {
	return !strings.ContainsAny(p.File, `/\`)
}

// Claims holds everything extracted from a single document.
type Claims struct {
	IDs      []string  // Distinct acceptance identifiers, sorted
	Pointers []Pointer // Test pointers in document order
}
