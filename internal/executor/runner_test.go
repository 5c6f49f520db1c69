// runner_test.go tests direct utility execution, merged capture, spawn
// failure classification, and the output cap.
package executor

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// shPath locates a POSIX shell for test children.
func shPath(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("sh")
	if err != nil {
		t.Skipf("sh not available: %v", err)
	}
	return path
}

func TestRun_MergedOutput(t *testing.T) {
	r := New(0)
	result, err := r.Run(context.Background(), shPath(t), "-c", "echo visible; echo hidden 1>&2")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", result.ExitCode)
	}
	if !strings.Contains(result.Output, "visible") {
		t.Errorf("stdout missing from merged output: %q", result.Output)
	}
	if !strings.Contains(result.Output, "hidden") {
		t.Errorf("stderr missing from merged output: %q", result.Output)
	}
	if result.Truncated {
		t.Error("small output reported as truncated")
	}
}

func TestRun_NonZeroExitIsNotAnError(t *testing.T) {
	r := New(0)
	result, err := r.Run(context.Background(), shPath(t), "-c", "exit 3")
	if err != nil {
		t.Fatalf("Run returned error for a child that ran: %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", result.ExitCode)
	}
}

func TestRun_SpawnFailure(t *testing.T) {
	r := New(0)
	result, err := r.Run(context.Background(), "/nonexistent/utility", "-l", "alice")
	if err == nil {
		t.Fatalf("expected spawn error, got result %+v", result)
	}
	if result != nil {
		t.Errorf("result must be nil on spawn failure, got %+v", result)
	}
	if !strings.Contains(err.Error(), "/nonexistent/utility") {
		t.Errorf("error does not name the binary: %v", err)
	}
}

func TestRun_Timeout(t *testing.T) {
	r := New(100 * time.Millisecond)
	start := time.Now()
	result, err := r.Run(context.Background(), shPath(t), "-c", "sleep 10")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.TimedOut {
		t.Error("expected TimedOut")
	}
	if result.ExitCode != -1 {
		t.Errorf("exit code = %d, want -1", result.ExitCode)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout did not kill the child promptly: %v", elapsed)
	}
}

func TestRun_NoShellInterpretation(t *testing.T) {
	// Arguments are passed as a vector, never through a shell.
	r := New(0)
	result, err := r.Run(context.Background(), shPath(t), "-c", `printf '%s\n' "$1"`, "sh", "a;b|c")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(result.Output, "a;b|c") {
		t.Errorf("argument was not passed verbatim: %q", result.Output)
	}
}

func TestBoundedBuffer_Cap(t *testing.T) {
	b := newBoundedBuffer(8)

	n, err := b.Write([]byte("12345"))
	if err != nil || n != 5 {
		t.Fatalf("Write = (%d, %v), want (5, nil)", n, err)
	}
	n, err = b.Write([]byte("67890"))
	if err != nil || n != 5 {
		t.Fatalf("Write past cap = (%d, %v), want (5, nil)", n, err)
	}
	n, err = b.Write([]byte("abc"))
	if err != nil || n != 3 {
		t.Fatalf("Write after cap = (%d, %v), want (3, nil)", n, err)
	}

	if got := b.String(); got != "12345678" {
		t.Errorf("retained = %q, want first 8 bytes", got)
	}
	if !b.Truncated() {
		t.Error("expected truncation to be reported")
	}
}

func TestBoundedBuffer_UnderCap(t *testing.T) {
	b := newBoundedBuffer(64)
	if _, err := b.Write([]byte("short")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if b.Truncated() {
		t.Error("under-cap write reported as truncated")
	}
	if b.String() != "short" {
		t.Errorf("retained = %q", b.String())
	}
}
