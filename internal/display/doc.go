// Package display provides terminal UI utilities for progress lines and warnings.
//
// Everything here writes to stderr-bound writers; the lint report on stdout
// is rendered by the report package. Colors are emitted only when the writer
// is a terminal (see UseColor), so redirected output stays plain.
//
// # Progress Indicators
//
//	progress := display.NewProgressIndicator(os.Stderr, len(docs))
//	progress.Start()
//	for _, doc := range docs {
//	    progress.Step(doc)
//	}
//	progress.Complete()
//
// # Warning Messages
//
//	display.WarnMissingRoots("search", missing).Display(os.Stderr)
package display
