package checker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/tracelint/internal/config"
	"github.com/harrison/tracelint/internal/logger"
	"github.com/harrison/tracelint/internal/models"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// cleanCorpus has every identifier anchored and every pointer verified.
func cleanCorpus(t *testing.T) string {
	repo := t.TempDir()
	writeTree(t, repo, map[string]string{
		".caws/specs/SPINE-001.yaml": `id: SPINE-001
acceptance:
  - id: S1-M1-DETERMINISM
    test: "kernel/src/compile.rs::run"
  - id: S1-M1-LOCK
    test: "lock.rs::acquire"
`,
		"kernel/src/compile.rs":   "// ACCEPTANCE: S1-M1-DETERMINISM\npub fn run() {}\n",
		"tests/lock/tests/lock.rs": "// ACCEPTANCE: S1-M1-LOCK\nfn acquire() {}\n",
	})
	return repo
}

// brokenCorpus has one unanchored identifier and one broken pointer per reason.
func brokenCorpus(t *testing.T) string {
	repo := t.TempDir()
	writeTree(t, repo, map[string]string{
		".caws/specs/SPINE-002.yaml": `id: SPINE-002
acceptance:
  - id: S1-M2-ANCHORED
    test: "compile.rs::run"
  - id: S1-M2-ORPHAN
    test: "missing.rs::gone"
  - id: S1-M2-FUNC
    test: "kernel/src/lib.rs::run"
`,
		".caws/specs/SPINE-001.yaml": `id: SPINE-001
acceptance:
  - id: S1-M1-OK
    test: "kernel/src/compile.rs::run"
`,
		".caws/specs/EMPTY.yaml":  "id: EMPTY\n",
		"kernel/src/compile.rs":   "// ACCEPTANCE: S1-M1-OK\npub fn run() {}\n",
		"harness/src/compile.rs":  "fn run() {}\n",
		"kernel/src/lib.rs":       "// S1-M2-ANCHORED S1-M2-FUNC\npub fn run_all() {}\n",
	})
	return repo
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.SearchBackend = config.BackendScan
	cfg.SearchRoots = []string{"kernel", "tests"}
	cfg.ResolutionRoots = []string{"*/src", "tests/*/tests"}
	return cfg
}

func newChecker(t *testing.T, repo string, cfg *config.Config, warnings io.Writer) *Checker {
	t.Helper()
	c, err := New(Options{
		RepoRoot: repo,
		Config:   cfg,
		Logger:   logger.NewConsoleLogger(nil, "debug"),
		Warnings: warnings,
	})
	require.NoError(t, err)
	return c
}

func TestRun_CleanCorpusPasses(t *testing.T) {
	var warnings bytes.Buffer
	run, err := newChecker(t, cleanCorpus(t), testConfig(), &warnings).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, run.Results, 1)
	res := run.Results[0]
	assert.Equal(t, "SPINE-001", res.Document.Name)
	assert.Equal(t, []string{"S1-M1-DETERMINISM", "S1-M1-LOCK"}, res.IDs)
	assert.Empty(t, res.Unanchored)
	assert.Len(t, res.Pointers, 2)
	assert.Empty(t, res.Broken)

	assert.Equal(t, models.Summary{Documents: 1, IDs: 2, Pointers: 2}, run.Summary)
	assert.False(t, run.Summary.Failed())
	assert.Empty(t, warnings.String())
}

func TestRun_BrokenCorpusFails(t *testing.T) {
	var warnings bytes.Buffer
	cfg := testConfig()
	// Specification documents mention every identifier; those hits must not count
	cfg.SearchRoots = []string{"kernel", "tests", ".caws"}

	run, err := newChecker(t, brokenCorpus(t), cfg, &warnings).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, run.Results, 3)
	assert.Equal(t, ".caws/specs/EMPTY.yaml", filepath.ToSlash(run.Results[0].Document.Path))
	assert.Equal(t, ".caws/specs/SPINE-001.yaml", filepath.ToSlash(run.Results[1].Document.Path))
	assert.Equal(t, ".caws/specs/SPINE-002.yaml", filepath.ToSlash(run.Results[2].Document.Path))

	assert.False(t, run.Results[0].HasClaims())
	assert.True(t, run.Results[1].Passed())

	res := run.Results[2]
	assert.Equal(t, []string{"S1-M2-ANCHORED", "S1-M2-FUNC", "S1-M2-ORPHAN"}, res.IDs)
	assert.Equal(t, []string{"S1-M2-ORPHAN"}, res.Unanchored)

	require.Len(t, res.Broken, 3)
	assert.Equal(t, models.BrokenPointer{
		Pointer:    models.Pointer{File: "compile.rs", Function: "run", Line: 4},
		Reason:     models.ReasonAmbiguous,
		Candidates: []string{"harness/src/compile.rs", "kernel/src/compile.rs"},
	}, res.Broken[0])
	assert.Equal(t, models.BrokenPointer{
		Pointer: models.Pointer{File: "missing.rs", Function: "gone", Line: 6},
		Reason:  models.ReasonFileNotFound,
	}, res.Broken[1])
	assert.Equal(t, models.BrokenPointer{
		Pointer: models.Pointer{File: "kernel/src/lib.rs", Function: "run", Line: 8},
		Reason:  models.ReasonFunctionNotFound,
		Path:    "kernel/src/lib.rs",
	}, res.Broken[2])

	assert.Equal(t, models.Summary{Documents: 3, IDs: 4, Unanchored: 1, Pointers: 4, Broken: 3}, run.Summary)
	assert.True(t, run.Summary.Failed())

	assert.Contains(t, warnings.String(), "Specification documents without claims")
	assert.Contains(t, warnings.String(), "EMPTY.yaml")
}

func TestRun_PrefixedPathBypassesAmbiguity(t *testing.T) {
	repo := brokenCorpus(t)
	c := newChecker(t, repo, testConfig(), nil)

	doc := models.NewDocument(".caws/specs/X.yaml", `test: "kernel/src/compile.rs::run"`)
	res, err := c.CheckDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.Empty(t, res.Broken)
}

func TestRun_Deterministic(t *testing.T) {
	repo := brokenCorpus(t)

	serial := testConfig()
	serial.Jobs = 1
	parallel := testConfig()
	parallel.Jobs = 8

	first, err := newChecker(t, repo, serial, nil).Run(context.Background())
	require.NoError(t, err)
	second, err := newChecker(t, repo, parallel, nil).Run(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(first.Results, second.Results); diff != "" {
		t.Errorf("results depend on scheduling (-jobs=1 +jobs=8):\n%s", diff)
	}
	assert.Equal(t, first.Summary, second.Summary)
}

func TestRun_NoSpecDocuments(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{name: "missing directory", files: map[string]string{"kernel/src/lib.rs": "fn run() {}\n"}},
		{name: "empty directory", files: map[string]string{".caws/specs/README.md": "no yaml here\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := t.TempDir()
			writeTree(t, repo, tt.files)

			var warnings bytes.Buffer
			run, err := newChecker(t, repo, testConfig(), &warnings).Run(context.Background())

			assert.Nil(t, run)
			assert.True(t, errors.Is(err, ErrNoSpecDocuments))
			assert.Contains(t, warnings.String(), "No specification documents found")
		})
	}
}

func TestRun_MissingRootsWarn(t *testing.T) {
	cfg := testConfig()
	cfg.SearchRoots = []string{"kernel/", "harness/", "tests/"}
	cfg.ResolutionRoots = []string{"*/src", "tests/*/src", "tests/*/tests"}

	var warnings bytes.Buffer
	run, err := newChecker(t, cleanCorpus(t), cfg, &warnings).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"harness/"}, run.MissingSearchRoots)
	assert.Equal(t, []string{"tests/*/src"}, run.MissingResolutionRoots)
	assert.Contains(t, warnings.String(), "1 search root(s) not found")
	assert.Contains(t, warnings.String(), "1 resolution root(s) not found")
	assert.False(t, run.Summary.Failed(), "missing roots are not fatal")
}

// failingRunner behaves like a machine without grep installed.
type failingRunner struct{}

func (failingRunner) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

func TestRun_GrepUnavailableDegrades(t *testing.T) {
	cfg := testConfig()
	cfg.SearchBackend = config.BackendGrep

	c, err := New(Options{
		RepoRoot: cleanCorpus(t),
		Config:   cfg,
		Runner:   failingRunner{},
	})
	require.NoError(t, err)

	run, err := c.Run(context.Background())
	require.NoError(t, err)

	res := run.Results[0]
	assert.Equal(t, res.IDs, res.Unanchored, "every identifier degrades to unanchored")
	assert.Empty(t, res.Broken, "pointers are still verified")
}

func TestRun_RealGrep(t *testing.T) {
	if _, err := exec.LookPath("grep"); err != nil {
		t.Skip("grep not available")
	}

	cfg := testConfig()
	cfg.SearchBackend = config.BackendGrep

	run, err := newChecker(t, cleanCorpus(t), cfg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, run.Summary.Failed())
}

func TestRun_Progress(t *testing.T) {
	var progress bytes.Buffer
	c, err := New(Options{
		RepoRoot: brokenCorpus(t),
		Config:   testConfig(),
		Progress: &progress,
	})
	require.NoError(t, err)

	_, err = c.Run(context.Background())
	require.NoError(t, err)

	out := progress.String()
	assert.Contains(t, out, "Checking 3 specification document(s):")
	assert.Contains(t, out, "SPINE-002 failed")
	assert.Contains(t, out, "Checked 3 specification document(s)")
}

func TestRun_LogsDocumentResults(t *testing.T) {
	var logs bytes.Buffer
	c, err := New(Options{
		RepoRoot: cleanCorpus(t),
		Config:   testConfig(),
		Logger:   logger.NewConsoleLogger(&logs, "info"),
	})
	require.NoError(t, err)

	_, err = c.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "SPINE-001: 2 ids (0 unanchored), 2 pointers (0 broken)")
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Language = "cobol"

	_, err := New(Options{RepoRoot: t.TempDir(), Config: cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown language")

	_, err = New(Options{RepoRoot: t.TempDir()})
	assert.Error(t, err)
}

func TestResolverHelper(t *testing.T) {
	cfg := testConfig()
	cfg.ResolutionRoots = []string{"*/src", "nowhere/"}
	c := newChecker(t, brokenCorpus(t), cfg, nil)

	r, missing, err := c.Resolver()
	require.NoError(t, err)
	assert.Equal(t, []string{"nowhere/"}, missing)
	assert.Equal(t, models.Ambiguous, r.Resolve("compile.rs").Outcome)
	assert.Equal(t, "kernel/src/lib.rs", r.Resolve("lib.rs").Path)
}
