package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	rust, ok := Lookup("rust")
	require.True(t, ok)
	assert.Equal(t, ".rs", rust.Extension)

	_, ok = Lookup("cobol")
	assert.False(t, ok)

	assert.Equal(t, []string{"go", "python", "rust"}, Names())
}

func TestRustDeclares(t *testing.T) {
	rust, _ := Lookup("rust")

	tests := []struct {
		name string
		text string
		fn   string
		want bool
	}{
		{"plain", "fn run() {}", "run", true},
		{"pub", "pub fn run(x: u8) {}", "run", true},
		{"extra whitespace", "pub   fn   run   (\n) {}", "run", true},
		{"tab separated", "fn\trun\t() {}", "run", true},
		{"generic", "pub fn run<T: Clone>(t: T) {}", "run", true},
		{"lifetime", "fn run<'a>(s: &'a str) {}", "run", true},
		{"nested generic bound", "pub fn run<T: Into<String>>(x: T) {}", "run", true},
		{"doubly nested generic bound", "fn run<T: Into<Vec<u8>>>(x: T) {}", "run", true},
		{"closure bound", "fn run<F: Fn(u8) -> u8>(f: F) {}", "run", true},
		{"generic body is not a declaration", "fn run<T> { }", "run", false},
		{"async", "async fn run() {}", "run", true},
		{"longer name", "fn run_all() {}", "run", false},
		{"prefixed name", "fn prerun() {}", "run", false},
		{"call only", "let x = run();", "run", false},
		{"keyword suffix", "defn run() {}", "run", false},
		{"test attribute", "#[test]\nfn ambiguous_pointer_rejected() {\n}", "ambiguous_pointer_rejected", true},
		{"empty name", "fn run() {}", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rust.Declares(tt.text, tt.fn))
		})
	}
}

func TestGoDeclares(t *testing.T) {
	golang, _ := Lookup("go")

	assert.True(t, golang.Declares("func Run() {}", "Run"))
	assert.True(t, golang.Declares("func (s *Server) Run(ctx context.Context) error {", "Run"))
	assert.True(t, golang.Declares("func Map[T any](xs []T) {}", "Map"))
	assert.True(t, golang.Declares("func Keys[M ~map[K]V, K comparable, V any](m M) []K {", "Keys"))
	assert.False(t, golang.Declares("func RunAll() {}", "Run"))
}

func TestPythonDeclares(t *testing.T) {
	py, _ := Lookup("python")

	assert.True(t, py.Declares("def test_run(self):", "test_run"))
	assert.True(t, py.Declares("async def test_run():", "test_run"))
	assert.False(t, py.Declares("def test_run_all():", "test_run"))
}

func TestHasFunction(t *testing.T) {
	rust, _ := Lookup("rust")
	dir := t.TempDir()
	path := filepath.Join(dir, "compile.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn run_all() {}\nfn run() {}\n"), 0644))

	assert.True(t, rust.HasFunction(path, "run"))
	assert.True(t, rust.HasFunction(path, "run_all"))
	assert.False(t, rust.HasFunction(path, "compile"))

	// Unreadable paths degrade to "not declared"
	assert.False(t, rust.HasFunction(filepath.Join(dir, "missing.rs"), "run"))
	assert.False(t, rust.HasFunction(dir, "run"))
}
