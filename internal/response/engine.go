// engine.go drives one responder invocation from command intake to exit.
//
// The cycle is strictly sequential: receive and validate the command,
// confirm containments with execd, resolve the host's capability, dispatch
// the utility, report. The engine is action-agnostic; everything specific
// to a remediation comes from the action descriptor it is handed.
package response

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bastille-sec/responder/internal/action"
	"github.com/bastille-sec/responder/internal/debuglog"
	"github.com/bastille-sec/responder/internal/executor"
	"github.com/bastille-sec/responder/internal/handshake"
	"github.com/bastille-sec/responder/internal/platform"
	"github.com/bastille-sec/responder/internal/protocol"
)

// Engine runs one invocation of an action.
type Engine struct {
	act     action.Action
	program string
	in      *protocol.LineReader
	out     io.Writer
	rep     reporter
	runner  executor.Runner
	sysName func(context.Context) (string, error)
	probe   func(string) error
}

// Options wires an engine to its process environment. In and Out are the
// invocation's stdin and stdout; the handshake reply arrives on the same
// stream as the command, so the engine owns the only reader of In.
type Options struct {
	// Program is the identity stamped on handshake messages and the
	// outcome line. Defaults to the action name.
	Program string

	// In carries the command message and any handshake reply.
	In io.Reader

	// Out carries handshake emissions. Must be unbuffered.
	Out io.Writer

	// Log receives the invocation's outcome line. Defaults to a silent
	// writer.
	Log *debuglog.Writer

	// Runner dispatches the resolved utility. Defaults to a
	// ProcessRunner without an execution bound.
	Runner executor.Runner

	// SystemName resolves the host's OS name. Defaults to gopsutil via
	// platform.SystemName.
	SystemName func(context.Context) (string, error)

	// Probe checks a utility path for presence. Defaults to
	// platform.Probe.
	Probe func(string) error
}

// New builds an engine for one invocation of act.
func New(act action.Action, opts Options) *Engine {
	e := &Engine{
		act:     act,
		program: opts.Program,
		in:      protocol.NewLineReader(opts.In),
		out:     opts.Out,
		rep:     reporter{log: opts.Log},
		runner:  opts.Runner,
		sysName: opts.SystemName,
		probe:   opts.Probe,
	}
	if e.program == "" {
		e.program = act.Name
	}
	if e.rep.log == nil {
		e.rep.log = debuglog.Discard()
	}
	if e.runner == nil {
		e.runner = executor.New(0)
	}
	if e.sysName == nil {
		e.sysName = platform.SystemName
	}
	if e.probe == nil {
		e.probe = platform.Probe
	}
	return e
}

// Run executes the invocation and returns its disposition. Exactly one
// outcome line is written on every path.
func (e *Engine) Run(ctx context.Context) Disposition {
	msg, err := e.receive()
	if err != nil {
		return e.fail(InvalidInput, err)
	}

	user := msg.TargetUser()
	attrs := []slog.Attr{
		slog.String("action", string(msg.Command)),
		slog.String("user", user),
	}

	// Containments confirm with execd before touching the host.
	// Rollbacks are pre-approved and go straight through.
	if msg.Command == protocol.CommandAdd && e.act.ConfirmAdd {
		outcome, err := handshake.New(e.program, e.in, e.out).Confirm(user)
		switch outcome {
		case handshake.OutcomeContinue:
			// proceed
		case handshake.OutcomeAbort:
			e.rep.report(Aborted, "Aborted", attrs...)
			return Aborted
		default:
			return e.fail(InvalidInput, err, attrs...)
		}
	}

	sysname, err := e.sysName(ctx)
	if err != nil {
		return e.fail(InvalidInput, err, attrs...)
	}
	family := platform.FamilyForSystem(sysname)
	attrs = append(attrs, slog.String("system", sysname))

	capa, ok := e.act.Capability(family)
	if !ok {
		e.rep.report(UnsupportedHost, "Invalid system", attrs...)
		return UnsupportedHost
	}
	attrs = append(attrs, slog.String("utility", capa.Path))

	if err := e.probe(capa.Path); err != nil {
		reason := fmt.Sprintf("The %s binary '%s' is not accessible: %v", capa.Utility, capa.Path, err)
		e.rep.report(UnsupportedHost, reason, attrs...)
		return UnsupportedHost
	}

	args := append(capa.Args(msg.Command), user)
	result, err := e.runner.Run(ctx, capa.Path, args...)
	if err != nil {
		e.rep.report(ExecutionFailed, fmt.Sprintf("Error executing '%s': %v", capa.Path, err), attrs...)
		return ExecutionFailed
	}

	// The child's own exit status is recorded, not interpreted: locking
	// an already locked account exits nonzero on several platforms and
	// the containment is still in place afterwards.
	attrs = append(attrs,
		slog.Int("child_exit_code", result.ExitCode),
		slog.Int64("duration_ms", result.Duration.Milliseconds()),
	)
	if result.TimedOut {
		attrs = append(attrs, slog.Bool("timed_out", true))
	}
	if result.Truncated {
		attrs = append(attrs, slog.Bool("output_truncated", true))
	}
	e.rep.report(Success, "Ended", attrs...)
	return Success
}

// receive reads, decodes, and validates the command message.
func (e *Engine) receive() (*protocol.Message, error) {
	line, err := e.in.ReadLine()
	if err != nil {
		if errors.Is(err, protocol.ErrBadPayload) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", protocol.ErrNoInput, err)
	}

	msg, err := protocol.Decode(line)
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return msg, nil
}

// fail reports a failure disposition with the error text as the outcome
// phrase.
func (e *Engine) fail(d Disposition, err error, attrs ...slog.Attr) Disposition {
	e.rep.report(d, err.Error(), attrs...)
	return d
}
