package multipart

import (
	"bufio"
	"bytes"
	"io"
)

const fileStreamChunkSize = 32 * 1024

// FileStream is a lazy, pull-based sequence of the file field's payload
// bytes, bounded by the form's terminating sentinel
// ("\r\n--{boundary}"). It implements io.Reader: each Read call returns
// bytes already known not to be a sentinel prefix, holding back at most
// len(sentinel)-1 bytes so a sentinel split across two upstream reads is
// never missed (spec.md §4.3 states 1..3, expressed here as a rolling
// carry buffer rather than an explicit state field, since the carry
// buffer already captures "how much of a partial sentinel we've seen").
type FileStream struct {
	src      *bufio.Reader
	sentinel []byte
	carry    []byte
	done     bool
	err      error
}

func newFileStream(src *bufio.Reader, sentinel string) *FileStream {
	return &FileStream{src: src, sentinel: []byte(sentinel)}
}

// Read implements io.Reader, terminating with io.EOF exactly once the
// sentinel has been found and its preceding bytes fully drained.
func (f *FileStream) Read(p []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	for {
		if idx := bytes.Index(f.carry, f.sentinel); idx >= 0 {
			if idx > 0 {
				n := copy(p, f.carry[:idx])
				f.carry = f.carry[n:]
				return n, nil
			}
			f.done = true
			f.err = io.EOF
			return 0, io.EOF
		}

		// Emit everything except the last len(sentinel)-1 bytes, which
		// might be the prefix of a sentinel split across reads.
		if safe := len(f.carry) - (len(f.sentinel) - 1); safe > 0 {
			n := copy(p, f.carry[:safe])
			f.carry = f.carry[n:]
			return n, nil
		}

		if f.done {
			f.err = &ParseError{Kind: ErrIncomplete}
			return 0, f.err
		}

		chunk := make([]byte, fileStreamChunkSize)
		n, readErr := f.src.Read(chunk)
		if n > 0 {
			f.carry = append(f.carry, chunk[:n]...)
		}
		if readErr != nil {
			if readErr == io.EOF {
				f.done = true
				continue
			}
			f.err = &ParseError{Kind: ErrIO, Err: readErr}
			return 0, f.err
		}
	}
}
