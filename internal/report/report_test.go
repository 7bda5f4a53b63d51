package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harrison/tracelint/internal/models"
)

func cleanResult() models.DocumentResult {
	return models.DocumentResult{
		Document: models.NewDocument(".caws/specs/SPINE-001.yaml", ""),
		IDs:      []string{"S1-M1-A", "S1-M1-B"},
		Pointers: []models.Pointer{{File: "kernel/src/lib.rs", Function: "run", Line: 4}},
	}
}

func brokenResult() models.DocumentResult {
	ptrs := []models.Pointer{
		{File: "compile.rs", Function: "run", Line: 3},
		{File: "gone.rs", Function: "x", Line: 5},
		{File: "lib.rs", Function: "missing", Line: 9},
	}
	return models.DocumentResult{
		Document:   models.NewDocument(".caws/specs/SPINE-002.yaml", ""),
		IDs:        []string{"S1-M2-A", "S1-M2-B"},
		Unanchored: []string{"S1-M2-B"},
		Pointers:   ptrs,
		Broken: []models.BrokenPointer{
			{Pointer: ptrs[0], Reason: models.ReasonAmbiguous, Candidates: []string{"harness/src/compile.rs", "kernel/src/compile.rs"}},
			{Pointer: ptrs[1], Reason: models.ReasonFileNotFound},
			{Pointer: ptrs[2], Reason: models.ReasonFunctionNotFound, Path: "kernel/src/lib.rs"},
		},
	}
}

func TestRender_Clean(t *testing.T) {
	var buf bytes.Buffer
	results := []models.DocumentResult{cleanResult()}
	var summary models.Summary
	summary.Add(results[0])

	NewWithColor(&buf, false).Render(results, summary)

	want := `PASS SPINE-001 (.caws/specs/SPINE-001.yaml)
  Acceptance IDs: 2
    Anchored: 2
    Unanchored: 0
  Test pointers: 1
    Verified: 1
    Broken: 0

Summary: 1 document(s), 2 acceptance ID(s) (0 unanchored), 1 test pointer(s) (0 broken)
PASS
`
	assert.Equal(t, want, buf.String())
}

func TestRender_Broken(t *testing.T) {
	var buf bytes.Buffer
	results := []models.DocumentResult{cleanResult(), brokenResult()}
	var summary models.Summary
	for _, r := range results {
		summary.Add(r)
	}

	NewWithColor(&buf, false).Render(results, summary)

	want := `PASS SPINE-001 (.caws/specs/SPINE-001.yaml)
  Acceptance IDs: 2
    Anchored: 2
    Unanchored: 0
  Test pointers: 1
    Verified: 1
    Broken: 0

FAIL SPINE-002 (.caws/specs/SPINE-002.yaml)
  Acceptance IDs: 2
    Anchored: 1
    Unanchored: 1
      - S1-M2-B
  Test pointers: 3
    Verified: 0
    Broken: 3
      - line 3: "compile.rs::run" ambiguous: 2 candidates (harness/src/compile.rs, kernel/src/compile.rs)
      - line 5: "gone.rs::x" file not found: gone.rs
      - line 9: "lib.rs::missing" function "missing" not found in kernel/src/lib.rs
  Fix: add a comment like '// ACCEPTANCE: <ID>' above the relevant test cluster.
  Fix: use a prefixed path (e.g. "kernel/src/file.rs::function") for ambiguous pointers.
  Fix: check that pointer files exist under a resolution root or use a repository-relative path.
  Fix: rename the pointer or restore the function it names.

Summary: 2 document(s), 4 acceptance ID(s) (1 unanchored), 4 test pointer(s) (3 broken)
FAIL
`
	assert.Equal(t, want, buf.String())
}

func TestRender_NoResults(t *testing.T) {
	var buf bytes.Buffer
	NewWithColor(&buf, false).Render(nil, models.Summary{})
	assert.Equal(t, "Summary: 0 document(s), 0 acceptance ID(s) (0 unanchored), 0 test pointer(s) (0 broken)\nPASS\n", buf.String())
}

func TestRender_Deterministic(t *testing.T) {
	results := []models.DocumentResult{cleanResult(), brokenResult()}
	var summary models.Summary
	for _, r := range results {
		summary.Add(r)
	}

	var first, second bytes.Buffer
	NewWithColor(&first, false).Render(results, summary)
	NewWithColor(&second, false).Render(results, summary)
	assert.Equal(t, first.String(), second.String())
}

func TestRender_Color(t *testing.T) {
	var buf bytes.Buffer
	NewWithColor(&buf, true).RenderSummary(models.Summary{Documents: 1, Unanchored: 1})
	assert.Contains(t, buf.String(), "\x1b[31mFAIL\x1b[0m")

	buf.Reset()
	New(&buf).RenderSummary(models.Summary{Documents: 1})
	assert.NotContains(t, buf.String(), "\x1b[", "buffers are never colored")
}

func TestRenderClaims(t *testing.T) {
	var buf bytes.Buffer
	doc := models.NewDocument(".caws/specs/SPINE-001.yaml", "")
	claims := models.Claims{
		IDs: []string{"S1-M1-A"},
		Pointers: []models.Pointer{
			{File: "compile.rs", Function: "run", Line: 2},
			{File: "kernel/src/lib.rs", Function: "init", Line: 6},
		},
	}

	NewWithColor(&buf, false).RenderClaims(doc, claims)

	want := `SPINE-001 (.caws/specs/SPINE-001.yaml)
Acceptance IDs (1):
  S1-M1-A
Test pointers (2):
  line 2: compile.rs::run (bare)
  line 6: kernel/src/lib.rs::init (prefixed)
`
	assert.Equal(t, want, buf.String())
}

func TestRenderResolution(t *testing.T) {
	tests := []struct {
		name string
		res  models.Resolution
		want string
	}{
		{
			name: "resolved",
			res:  models.ResolvedTo("kernel/src/lib.rs"),
			want: "✓ lib.rs -> kernel/src/lib.rs\n",
		},
		{
			name: "not found",
			res:  models.Unresolved(),
			want: "✗ lib.rs: not found\n",
		},
		{
			name: "ambiguous",
			res:  models.AmbiguousAmong([]string{"a/lib.rs", "b/lib.rs"}),
			want: "✗ lib.rs: ambiguous, 2 candidates\n  a/lib.rs\n  b/lib.rs\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewWithColor(&buf, false).RenderResolution("lib.rs", tt.res)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestHints_None(t *testing.T) {
	assert.Empty(t, hints(cleanResult()))
}
