// Package fileutil provides the file system scanning used by every tracelint component.
//
// # Purpose
//
// The fileutil package is designed for:
//   - Locating specification documents by extension
//   - Finding every file with a given base name under a set of roots
//   - Expanding configured roots, which may be doublestar globs, into directories
//   - Error-tolerant scanning that collects non-fatal errors
//
// # Main Components
//
// ScanOptions - Configuration struct for directory scanning:
//   - Name: exact base name filter
//   - Extensions: case-insensitive extension allow-list (".rs", "yaml")
//   - Recursive: enable subdirectory traversal
//   - ExcludeDirs: directory names to skip (e.g., "target")
//
// ScanResult - sorted absolute paths plus non-fatal errors.
//
// RootSet - directories a set of root patterns expanded to, plus the
// patterns that matched nothing.
//
// # Usage Examples
//
// Bare filename lookup across resolution roots:
//
//	roots, _ := fileutil.ExpandRoots(repo, []string{"*/src", "tests/*/tests"})
//	matches := fileutil.FindByName(roots.Abs(repo), "compile.rs", []string{"target"})
//	switch len(matches) {
//	case 0:
//	    // not found
//	case 1:
//	    // resolved
//	default:
//	    // ambiguous
//	}
//
// # Determinism
//
// All results are sorted. Hidden directories are walked like any other, so
// the in-process backend visits exactly the files grep -r does. Only
// ExcludeDirs prunes the walk.
package fileutil
