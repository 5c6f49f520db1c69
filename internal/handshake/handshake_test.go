// handshake_test.go tests the confirmation round-trip against scripted
// daemon replies.
package handshake

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/bastille-sec/responder/internal/protocol"
)

func newClient(reply string) (*Client, *bytes.Buffer) {
	var out bytes.Buffer
	in := protocol.NewLineReader(strings.NewReader(reply))
	return New("disable-account", in, &out), &out
}

func TestConfirm_Continue(t *testing.T) {
	c, out := newClient(`{"command":"continue"}` + "\n")

	outcome, err := c.Confirm("alice")
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if outcome != OutcomeContinue {
		t.Errorf("outcome = %v, want continue", outcome)
	}

	// Exactly one check_keys line must have been emitted.
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("emitted %d lines, want 1: %q", len(lines), out.String())
	}
	var req protocol.CheckKeysMessage
	if err := json.Unmarshal([]byte(lines[0]), &req); err != nil {
		t.Fatalf("emitted line is not a check_keys message: %v", err)
	}
	if req.Command != protocol.CommandCheckKeys {
		t.Errorf("command = %q, want check_keys", req.Command)
	}
	if req.Origin.Name != "disable-account" {
		t.Errorf("origin.name = %q, want disable-account", req.Origin.Name)
	}
	if len(req.Parameters.Keys) != 1 || req.Parameters.Keys[0] != "alice" {
		t.Errorf("keys = %v, want [alice]", req.Parameters.Keys)
	}
}

func TestConfirm_Abort(t *testing.T) {
	c, _ := newClient(`{"command":"abort"}` + "\n")

	outcome, err := c.Confirm("alice")
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if outcome != OutcomeAbort {
		t.Errorf("outcome = %v, want abort", outcome)
	}
}

func TestConfirm_InvalidReplies(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  error
	}{
		{"no reply at all", "", ErrNoReply},
		{"garbage reply", "yes please\n", protocol.ErrBadPayload},
		{"unknown command", `{"command":"retry"}` + "\n", protocol.ErrBadCommand},
		{"empty command", `{}` + "\n", protocol.ErrBadCommand},
		{"case sensitive", `{"command":"CONTINUE"}` + "\n", protocol.ErrBadCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newClient(tt.reply)
			outcome, err := c.Confirm("alice")
			if outcome != OutcomeInvalid {
				t.Errorf("outcome = %v, want invalid", outcome)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestConfirm_WriteFailure(t *testing.T) {
	in := protocol.NewLineReader(strings.NewReader(`{"command":"continue"}` + "\n"))
	c := New("disable-account", in, failingWriter{})

	outcome, err := c.Confirm("alice")
	if outcome != OutcomeInvalid {
		t.Errorf("outcome = %v, want invalid", outcome)
	}
	if !errors.Is(err, ErrSendFailed) {
		t.Errorf("error = %v, want ErrSendFailed", err)
	}
}

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomeContinue, "continue"},
		{OutcomeAbort, "abort"},
		{OutcomeInvalid, "invalid"},
		{Outcome(42), "invalid"},
	}

	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", tt.outcome, got, tt.want)
		}
	}
}
