// runner.go implements privileged utility execution with merged output
// capture and process group management. The child and anything it forks are
// killed together on cancellation, preventing orphan processes from
// accumulating on remediated hosts.
package executor

import (
	"context"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// Runner is the capability to run a privileged utility. Implementations
// return a non-nil error only when the child could not be spawned; once the
// child ran, the outcome lives in the Result regardless of its exit code.
type Runner interface {
	Run(ctx context.Context, path string, args ...string) (*Result, error)
}

// ProcessRunner runs utilities as direct child processes. No shell is
// involved: path is executed as-is with the given argument vector.
type ProcessRunner struct {
	// Timeout bounds each child's runtime. Zero disables the bound; the
	// spawning daemon enforces a wall-clock limit on the whole invocation
	// either way.
	Timeout time.Duration
}

// New creates a ProcessRunner with the given execution bound.
func New(timeout time.Duration) *ProcessRunner {
	return &ProcessRunner{Timeout: timeout}
}

// Run spawns path with args, captures merged stdout and stderr, and waits
// for the child to finish.
func (r *ProcessRunner) Run(ctx context.Context, path string, args ...string) (*Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path, args...)

	// Create a new process group so cancellation kills all children
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// One buffer for both streams keeps the interleaving the operator
	// would see on a terminal. os/exec serializes writes when both
	// streams share a writer.
	out := newBoundedBuffer(MaxCapturedOutput)
	cmd.Stdout = out
	cmd.Stderr = out

	// Kill the entire process group (negative PID) on cancellation
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	// WaitDelay ensures inherited pipes held by orphans don't block Wait()
	cmd.WaitDelay = 5 * time.Second

	result := &Result{
		StartedAt: time.Now(),
	}

	err := cmd.Run()
	result.Duration = time.Since(result.StartedAt)
	result.Output = out.String()
	result.Truncated = out.Truncated()

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			result.ExitCode = -1
			result.TimedOut = true
			return result, nil
		}

		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}

		// The child never ran: missing binary, permission, fork failure
		return nil, fmt.Errorf("spawning '%s': %w", path, err)
	}

	result.ExitCode = 0
	return result, nil
}
