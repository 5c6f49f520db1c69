// disposition.go defines how an invocation terminates and what execd sees.
package response

// Disposition classifies the terminal state of one responder invocation.
type Disposition int

const (
	// Success: the utility ran, or the host had no way to run it. A
	// missing capability is deliberately not an error; fleets mix
	// platforms and execd fans every remediation out to all of them.
	Success Disposition = iota

	// Aborted: execd declined the confirmation. Nothing was dispatched.
	Aborted

	// InvalidInput: the command message or handshake reply violated the
	// protocol, or the host could not even be identified.
	InvalidInput

	// UnsupportedHost: recognized invocation, but this host cannot
	// realize the action (unknown family or missing utility). Folded
	// into the success exit code; the log line carries the reason.
	UnsupportedHost

	// ExecutionFailed: the utility could not be spawned.
	ExecutionFailed
)

// String returns the disposition name for log attributes.
func (d Disposition) String() string {
	switch d {
	case Success:
		return "success"
	case Aborted:
		return "aborted"
	case InvalidInput:
		return "invalid_input"
	case UnsupportedHost:
		return "unsupported_host"
	case ExecutionFailed:
		return "execution_failed"
	default:
		return "unknown"
	}
}

// Process exit codes. execd distinguishes only success from failure, so all
// failure dispositions share one code.
const (
	ExitOK      = 0
	ExitInvalid = 1
)

// ExitCode maps the disposition onto the process exit code handed back to
// execd. Aborted and UnsupportedHost terminate successfully: the decline
// and the capability gap are both ordinary outcomes, not faults.
func (d Disposition) ExitCode() int {
	switch d {
	case InvalidInput, ExecutionFailed:
		return ExitInvalid
	default:
		return ExitOK
	}
}
