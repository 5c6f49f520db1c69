// reporter.go funnels every invocation outcome into one diagnostic line.
// All terminal paths in the engine land here and nowhere else, which is
// what keeps the one-line-per-invocation contract honest.
package response

import (
	"log/slog"

	"github.com/bastille-sec/responder/internal/debuglog"
)

// reporter writes the single outcome line for an invocation.
type reporter struct {
	log *debuglog.Writer
}

// report emits the outcome line. msg is the operator-facing phrase; attrs
// carry the structured context gathered along the way.
func (r reporter) report(d Disposition, msg string, attrs ...slog.Attr) {
	line := make([]slog.Attr, 0, len(attrs)+1)
	line = append(line, slog.String("disposition", d.String()))
	line = append(line, attrs...)
	r.log.Write(msg, line...)
}
