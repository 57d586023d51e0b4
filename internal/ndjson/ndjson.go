// Package ndjson frames newline-delimited JSON over byte streams.
package ndjson

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// Reader reads one JSON document per line. Lines have no length limit;
// the CLI emits whole tool results on a single line.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 64*1024)}
}

// ReadLine returns the next non-blank line without its terminator.
// A final line without a trailing newline is returned before io.EOF.
func (r *Reader) ReadLine() ([]byte, error) {
	for {
		line, err := r.r.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			return line, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, err
		}
	}
}
