// reader.go reads newline-delimited protocol messages from a stream.
// The initial command and any handshake reply arrive on the same pipe, so a
// single LineReader instance must be shared across both reads to keep
// buffered bytes from being lost.
package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// MaxLineBytes bounds a single protocol line. execd writes compact JSON far
// below this; anything larger is a malformed or hostile writer.
const MaxLineBytes = 64 * 1024

// LineReader yields one protocol line per call from an underlying stream.
type LineReader struct {
	scanner *bufio.Scanner
}

// NewLineReader wraps r with line framing and the protocol size bound.
func NewLineReader(r io.Reader) *LineReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), MaxLineBytes)
	return &LineReader{scanner: s}
}

// ReadLine returns the next line without its terminator. A final line at EOF
// without a trailing newline is still returned. io.EOF reports an exhausted
// stream; an oversized line reports ErrBadPayload.
func (r *LineReader) ReadLine() ([]byte, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				return nil, fmt.Errorf("%w: line exceeds %d bytes", ErrBadPayload, MaxLineBytes)
			}
			return nil, err
		}
		return nil, io.EOF
	}
	return r.scanner.Bytes(), nil
}
