// Package debuglog writes responder diagnostics to the shared
// active-response log.
//
// Every responder invocation produces exactly one outcome line, tagged with
// the program that wrote it. The log is the fleet operator's only window
// into remediation activity on a host, but it is strictly best-effort: a
// responder whose log write fails still performed (or refused) its action,
// and the exit code already tells execd what happened. Write failures are
// therefore swallowed, never surfaced.
//
// Two destinations are supported. The default is an append-only text file
// shared by the whole responder family; hosts that prefer journald can
// route the line there instead via the log_destination config key.
package debuglog

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
)

// Destination selects where outcome lines are written.
type Destination string

const (
	// DestinationFile appends to the shared active-response log file.
	DestinationFile Destination = "file"

	// DestinationJournal sends to the systemd journal.
	DestinationJournal Destination = "journal"
)

// Writer emits outcome lines for one responder invocation.
type Writer struct {
	program string
	dest    Destination
	logger  *slog.Logger
	file    *os.File
}

// Open prepares a writer tagged with the given program identity. Open never
// fails: an unopenable file or an absent journal degrades to a silent
// writer, keeping the log best-effort.
func Open(program string, dest Destination, path string) *Writer {
	w := &Writer{program: program, dest: dest}

	if dest == DestinationJournal {
		return w
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return w
	}
	w.file = f
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})
	w.logger = slog.New(handler).With(slog.String("program", program))
	return w
}

// Discard returns a writer that swallows everything. Used by tests and by
// callers that run with logging disabled.
func Discard() *Writer {
	return &Writer{}
}

// Write emits one outcome line. Failures are swallowed.
func (w *Writer) Write(msg string, attrs ...slog.Attr) {
	switch w.dest {
	case DestinationJournal:
		if !journal.Enabled() {
			return
		}
		vars := map[string]string{"RESPONDER_PROGRAM": w.program}
		for _, a := range attrs {
			vars[fieldName(a.Key)] = a.Value.String()
		}
		// Send errors are swallowed like file write errors.
		_ = journal.Send(msg, journal.PriInfo, vars)
	default:
		if w.logger == nil {
			return
		}
		w.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
	}
}

// Close releases the underlying file, if any.
func (w *Writer) Close() {
	if w.file != nil {
		w.file.Close()
	}
}

// fieldName maps an attribute key onto a valid journal field name:
// uppercase, underscore-separated, RESPONDER_ prefixed.
func fieldName(key string) string {
	var b strings.Builder
	b.WriteString("RESPONDER_")
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 32)
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
