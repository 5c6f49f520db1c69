// result.go defines the utility execution result structure.
// It captures the merged output, exit code, duration, and timeout status of
// one privileged utility run for the invocation's diagnostic line.
package executor

import (
	"bytes"
	"time"
)

// MaxCapturedOutput bounds the merged child output retained for diagnostics.
// Account utilities print at most a line or two; anything beyond the cap is
// counted and dropped, never buffered.
const MaxCapturedOutput = 64 * 1024

// Result holds the outcome of one utility run.
type Result struct {
	// ExitCode is the child's exit code. -1 indicates signal death or
	// timeout. The engine records but does not interpret it: account
	// utilities exit nonzero for already-locked accounts, which is a
	// success for an idempotent containment.
	ExitCode int

	// Output is the merged stdout and stderr of the child, capped at
	// MaxCapturedOutput bytes.
	Output string

	// Truncated is true when Output was capped.
	Truncated bool

	// Duration is how long the child ran.
	Duration time.Duration

	// TimedOut is true when the configured execution bound killed the
	// child.
	TimedOut bool

	// StartedAt is when the child was spawned.
	StartedAt time.Time
}

// boundedBuffer retains the first limit bytes written and counts the rest.
// Writes never fail: the child must not observe a broken pipe because its
// chatter exceeded the diagnostic cap.
type boundedBuffer struct {
	limit   int
	buf     bytes.Buffer
	dropped int64
}

func newBoundedBuffer(limit int) *boundedBuffer {
	return &boundedBuffer{limit: limit}
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			p = p[:room]
		}
		b.buf.Write(p)
		b.dropped += int64(n - len(p))
	} else {
		b.dropped += int64(n)
	}
	return n, nil
}

func (b *boundedBuffer) String() string {
	return b.buf.String()
}

func (b *boundedBuffer) Truncated() bool {
	return b.dropped > 0
}
