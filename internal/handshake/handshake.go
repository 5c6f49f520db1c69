// Package handshake implements the confirmation round-trip a responder runs
// before applying a containment. The responder emits a check_keys message on
// its stdout and blocks for execd's verdict on stdin. execd answers continue
// when the containment should proceed and abort when a timeout entry or
// operator override suppresses it.
//
// Rollbacks never confirm: execd only sends delete for containments it
// already approved, so the engine skips the round-trip for them.
package handshake

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/bastille-sec/responder/internal/protocol"
)

// Outcome classifies execd's verdict on a check_keys request.
type Outcome int

const (
	// OutcomeInvalid covers every transport or protocol failure: the reply
	// was unreadable, unparseable, or carried an unknown command.
	OutcomeInvalid Outcome = iota

	// OutcomeContinue is execd's go-ahead.
	OutcomeContinue

	// OutcomeAbort is execd's decline. The responder terminates
	// successfully without acting.
	OutcomeAbort
)

// String returns the outcome name for log attributes.
func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeAbort:
		return "abort"
	default:
		return "invalid"
	}
}

// Diagnostic errors for failed round-trips. Text is written verbatim to the
// active-response log.
var (
	// ErrNoReply reports an unreadable or closed reply stream.
	ErrNoReply = errors.New("Cannot read answer from stdin")

	// ErrSendFailed reports a failed check_keys write.
	ErrSendFailed = errors.New("Cannot send check keys message")
)

// Client performs the check_keys round-trip with the spawning daemon.
type Client struct {
	program string
	in      *protocol.LineReader
	out     io.Writer
}

// New returns a client identified as program on the wire. in must be the
// same LineReader the command message was read from; the reply arrives on
// the same pipe and may already sit in its buffer. out must be unbuffered.
func New(program string, in *protocol.LineReader, out io.Writer) *Client {
	return &Client{program: program, in: in, out: out}
}

// Confirm asks execd whether the containment keyed by keys should proceed.
// It returns OutcomeContinue or OutcomeAbort with a nil error, or
// OutcomeInvalid with the failure.
func (c *Client) Confirm(keys ...string) (Outcome, error) {
	if err := json.NewEncoder(c.out).Encode(protocol.NewCheckKeys(c.program, keys...)); err != nil {
		return OutcomeInvalid, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	line, err := c.in.ReadLine()
	if err != nil {
		return OutcomeInvalid, fmt.Errorf("%w: %v", ErrNoReply, err)
	}

	var reply protocol.Reply
	if err := json.Unmarshal(line, &reply); err != nil {
		return OutcomeInvalid, fmt.Errorf("%w: %v", protocol.ErrBadPayload, err)
	}

	switch reply.Command {
	case protocol.CommandContinue:
		return OutcomeContinue, nil
	case protocol.CommandAbort:
		return OutcomeAbort, nil
	default:
		return OutcomeInvalid, protocol.ErrBadCommand
	}
}
