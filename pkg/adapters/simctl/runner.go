package simctl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Run waits for output pipes after the process is
// killed, in case a grandchild still holds them open.
const waitDelay = 2 * time.Second

// Executor runs a program and returns what it wrote to stdout.
type Executor interface {
	Run(ctx context.Context, program string, args ...string) ([]byte, error)
}

// ExitError is returned when the program exits with a non-zero status.
type ExitError struct {
	Program string
	Args    []string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s %s exited with status %d", e.Program, strings.Join(e.Args, " "), e.Code)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// ProcessRunner implements Executor with local processes.
type ProcessRunner struct {
	baseDir string
	env     []string
}

// RunnerOption configures the runner.
type RunnerOption func(*ProcessRunner)

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *ProcessRunner) {
		r.baseDir = dir
	}
}

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(env ...string) RunnerOption {
	return func(r *ProcessRunner) {
		r.env = append(r.env, env...)
	}
}

// NewProcessRunner creates a new ProcessRunner.
func NewProcessRunner(opts ...RunnerOption) *ProcessRunner {
	r := &ProcessRunner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes program and captures its output. Cancelling ctx kills the process.
func (r *ProcessRunner) Run(ctx context.Context, program string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = r.baseDir
	cmd.WaitDelay = waitDelay
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", program, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{
				Program: program,
				Args:    args,
				Code:    exitErr.ExitCode(),
				Stderr:  stderr.String(),
			}
		}
		return nil, fmt.Errorf("execution of %s failed: %w", program, err)
	}

	return stdout.Bytes(), nil
}
