package s3err

import (
	"encoding/xml"
	"fmt"
)

// Error is a structured S3 error: a closed code, an optional
// human-readable message override, an optional wrapped source error
// (kept for logging, never serialized to the wire), and an optional
// request/resource identifier echoed in the XML document.
type Error struct {
	Code      Code
	Message   string
	RequestID string
	Resource  string
	wrapped   error
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("s3err: %s: %s: %v", e.Code, e.DisplayMessage(), e.wrapped)
	}
	return fmt.Sprintf("s3err: %s: %s", e.Code, e.DisplayMessage())
}

func (e *Error) Unwrap() error { return e.wrapped }

// DisplayMessage returns the message that will appear on the wire: the
// explicit override if set, otherwise the code's default.
func (e *Error) DisplayMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return DefaultMessage(e.Code)
}

// New builds an Error with the code's default message.
func New(code Code) *Error {
	return &Error{Code: code}
}

// Newf builds an Error with a custom message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an InternalError carrying src for logging; src is never
// included in the rendered XML body.
func Wrap(src error) *Error {
	return &Error{Code: InternalError, wrapped: src}
}

// xmlDocument is the wire shape of an S3 <Error> document.
type xmlDocument struct {
	XMLName   xml.Name `xml:"Error"`
	Code      string   `xml:"Code"`
	Message   string   `xml:"Message"`
	Resource  string   `xml:"Resource,omitempty"`
	RequestID string   `xml:"RequestId,omitempty"`
}

// MarshalXML renders the canonical S3 error document, including the
// "<?xml version=\"1.0\" encoding=\"UTF-8\"?>" prologue.
func (e *Error) MarshalXML() ([]byte, error) {
	doc := xmlDocument{
		Code:      string(e.Code),
		Message:   e.DisplayMessage(),
		Resource:  e.Resource,
		RequestID: e.RequestID,
	}
	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	const prologue = `<?xml version="1.0" encoding="UTF-8"?>`
	return append([]byte(prologue), body...), nil
}

// As reports whether err is (or wraps) an *Error, per the standard
// errors.As contract — defined here so callers don't need to import
// "errors" just to type-assert this package's sentinel shape.
func As(err error) (*Error, bool) {
	se, ok := err.(*Error)
	return se, ok
}
