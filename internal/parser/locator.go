package parser

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/tracelint/internal/fileutil"
	"github.com/harrison/tracelint/internal/models"
)

// LocateSpecs returns the sorted, repository-relative paths of every
// specification document directly inside specDir.
// A missing directory is reported as an error with an empty result;
// callers decide whether zero documents is fatal.
func LocateSpecs(repoRoot, specDir, extension string) ([]string, error) {
	root, err := filepath.Abs(repoRoot)
	if err != nil {
		return []string{}, fmt.Errorf("failed to resolve repository root: %w", err)
	}
	dir := filepath.Join(root, specDir)

	result, err := fileutil.ScanDirectory(dir, fileutil.ScanOptions{
		Extensions: []string{extension},
		Recursive:  false,
	})
	if err != nil {
		return []string{}, fmt.Errorf("failed to locate specification documents in %s: %w", specDir, err)
	}

	paths := make([]string, 0, len(result.Files))
	for _, abs := range result.Files {
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			rel = abs
		}
		paths = append(paths, rel)
	}
	return paths, nil
}

// LoadDocument reads one specification document relative to repoRoot.
func LoadDocument(repoRoot, path string) (models.Document, error) {
	data, err := os.ReadFile(filepath.Join(repoRoot, path))
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to read specification %s: %w", path, err)
	}
	return models.NewDocument(path, string(data)), nil
}
