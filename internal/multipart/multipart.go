// Package multipart implements a streaming multipart/form-data parser
// for browser-based S3 POST-policy uploads: every non-file field is
// read fully into memory, and the file field's body is exposed as a
// lazy FileStream bounded by the form's terminating boundary.
package multipart

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/textproto"
	"strings"
)

// Field is one non-file form field, order-preserved.
type Field struct {
	Name  string
	Value string
}

// Multipart is the parsed form: every ordinary field plus the one
// supported file field and its lazy body stream.
type Multipart struct {
	Fields       []Field
	FileName     string
	ContentType  string
	File         *FileStream
}

// Get returns the value of the last field named name (case-insensitive),
// matching spec.md §3's "latest wins on case-insensitive lookup" rule.
func (m *Multipart) Get(name string) (string, bool) {
	var val string
	var found bool
	lname := strings.ToLower(name)
	for _, f := range m.Fields {
		if strings.ToLower(f.Name) == lname {
			val = f.Value
			found = true
		}
	}
	return val, found
}

// ErrKind classifies a parse failure.
type ErrKind int

const (
	ErrIncomplete ErrKind = iota
	ErrMalformed
	ErrIO
)

// ParseError is returned by Parse and by FileStream.Read.
type ParseError struct {
	Kind ErrKind
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("multipart: %v", e.Err)
	}
	return "multipart: malformed form body"
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads form fields from r up to (and including) the file field's
// headers, then returns a Multipart whose File is positioned at the
// start of the file's payload. boundary is the MIME boundary parameter
// without the leading "--".
func Parse(r io.Reader, boundary string) (*Multipart, error) {
	br := bufio.NewReader(r)
	sentinel := "\r\n--" + boundary

	if err := skipToFirstBoundary(br, boundary); err != nil {
		return nil, err
	}

	m := &Multipart{}
	for {
		headers, err := readPartHeaders(br)
		if err != nil {
			return nil, err
		}
		disposition := headers.Get("Content-Disposition")
		_, params, err := mime.ParseMediaType(disposition)
		if err != nil {
			return nil, &ParseError{Kind: ErrMalformed, Err: fmt.Errorf("content-disposition: %w", err)}
		}
		name := params["name"]
		filename, hasFile := params["filename"]

		if !hasFile {
			value, err := readFieldValue(br, sentinel)
			if err != nil {
				return nil, err
			}
			m.Fields = append(m.Fields, Field{Name: name, Value: value})
			continue
		}

		m.FileName = filename
		m.ContentType = headers.Get("Content-Type")
		m.File = newFileStream(br, sentinel)
		return m, nil
	}
}

// skipToFirstBoundary consumes bytes up to and including the first
// "--{boundary}\r\n" line, tolerating an optional leading CRLF before it
// per spec.md §4.3.
func skipToFirstBoundary(br *bufio.Reader, boundary string) error {
	line, err := br.ReadString('\n')
	if err != nil {
		return &ParseError{Kind: ErrIncomplete, Err: err}
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		// Leading CRLF before the first boundary; read the real boundary line.
		line, err = br.ReadString('\n')
		if err != nil {
			return &ParseError{Kind: ErrIncomplete, Err: err}
		}
		line = strings.TrimRight(line, "\r\n")
	}
	if line != "--"+boundary {
		return &ParseError{Kind: ErrMalformed, Err: fmt.Errorf("expected boundary, got %q", line)}
	}
	return nil
}

// readPartHeaders parses one part's headers up to the blank line using
// the stdlib's tolerant MIME header reader.
func readPartHeaders(br *bufio.Reader) (textproto.MIMEHeader, error) {
	tp := textproto.NewReader(br)
	headers, err := tp.ReadMIMEHeader()
	if err != nil && len(headers) == 0 {
		return nil, &ParseError{Kind: ErrIncomplete, Err: err}
	}
	return headers, nil
}

// readFieldValue reads bytes up to the sentinel "\r\n--{boundary}" and
// returns everything before it as the field's value. The boundary line's
// trailing "\r\n" (or "--\r\n" for the closing boundary) is left
// unconsumed for the next call to readPartHeaders/skipToFirstBoundary.
func readFieldValue(br *bufio.Reader, sentinel string) (string, error) {
	var buf bytes.Buffer
	for {
		chunk, err := br.ReadString('\n')
		buf.WriteString(chunk)
		if err != nil {
			return "", &ParseError{Kind: ErrIncomplete, Err: err}
		}
		if idx := strings.Index(buf.String(), sentinel); idx >= 0 {
			value := buf.String()[:idx]
			rest := buf.String()[idx+len(sentinel):]
			// Put back everything after the sentinel match, plus the
			// boundary's own line terminator, so the next header read
			// starts cleanly.
			if err := unreadInto(br, rest); err != nil {
				return "", err
			}
			// Consume the rest of the boundary line (trailing "\r\n" or "--").
			if err := skipBoundaryTrailer(br); err != nil {
				return "", err
			}
			return value, nil
		}
	}
}

// unreadInto pushes already-buffered bytes back in front of br by
// wrapping it; used when a sentinel match consumed bytes belonging to
// the next part.
func unreadInto(br *bufio.Reader, s string) error {
	if s == "" {
		return nil
	}
	// bufio.Reader has no generic pushback for >1 byte, so we splice the
	// leftover bytes back in front of the reader's own buffer by
	// constructing a MultiReader and re-wrapping. This only happens once
	// per field, not in the hot byte-streaming path, so the allocation
	// cost is immaterial.
	*br = *bufio.NewReader(io.MultiReader(strings.NewReader(s), br))
	return nil
}

// skipBoundaryTrailer consumes the rest of a boundary line: either
// "\r\n" (more parts follow) or "--\r\n" (closing boundary).
func skipBoundaryTrailer(br *bufio.Reader) error {
	line, err := br.ReadString('\n')
	if err != nil {
		return &ParseError{Kind: ErrIncomplete, Err: err}
	}
	_ = line // "--" suffix (closing boundary) vs plain CRLF both fine to discard
	return nil
}
