package anchor

import (
	"bytes"
	"context"
	"os/exec"
)

// CommandRunner abstracts external command execution for testability.
type CommandRunner interface {
	// Run executes name with args in dir and returns its standard output.
	// Output is returned even when the command exits non-zero.
	Run(ctx context.Context, dir string, name string, args ...string) (stdout string, err error)
}

// ExecCommandRunner executes real processes without a shell.
type ExecCommandRunner struct{}

// NewExecCommandRunner creates a CommandRunner that executes real commands.
func NewExecCommandRunner() *ExecCommandRunner {
	return &ExecCommandRunner{}
}

// Run executes the command and captures stdout. Stderr is discarded.
func (r *ExecCommandRunner) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	return stdout.String(), err
}
