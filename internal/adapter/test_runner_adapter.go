package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrLaunch reports that the test runner process could not be started at
// all (missing binary, permission denied). It is an engine failure, never a
// mutant outcome.
var ErrLaunch = errors.New("failed to launch test runner")

// waitDelay bounds how long Wait blocks on inherited pipes after the runner
// is killed; `go test` leaves test binaries holding stdout.
const waitDelay = 5 * time.Second

// RunResult is the raw outcome of one test runner process.
type RunResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	Duration time.Duration
}

// TestRunnerAdapter abstracts test execution for mutation testing.
type TestRunnerAdapter interface {
	// Run executes command with workDir as working directory and waits for
	// it. A zero timeout waits indefinitely. A non-zero exit status is
	// reported in RunResult, not as an error.
	Run(ctx context.Context, workDir string, command []string, timeout time.Duration) (RunResult, error)
}

// LocalTestRunnerAdapter provides a concrete implementation using os/exec.
type LocalTestRunnerAdapter struct{}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{}
}

// Run runs the test command in workDir capturing stdout and stderr separately.
func (a *LocalTestRunnerAdapter) Run(ctx context.Context, workDir string, command []string, timeout time.Duration) (RunResult, error) {
	if len(command) == 0 {
		return RunResult{}, fmt.Errorf("%w: empty command", ErrLaunch)
	}

	runCtx := ctx

	if timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// #nosec G204 - the command comes from the campaign configuration
	cmd := exec.CommandContext(runCtx, command[0], command[1:]...)
	cmd.Dir = workDir
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := RunResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}

	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		result.ExitCode = -1

		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	return result, fmt.Errorf("%w: %s: %w", ErrLaunch, command[0], err)
}
