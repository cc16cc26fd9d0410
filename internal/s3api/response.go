package s3api

import (
	"io"
	"net/http"
)

// Response is the typed result of a matched operation handler: a status
// code, a set of headers to set verbatim, and a body that is either
// empty, a fixed byte slice (XML documents), or a streamed io.ReadCloser
// (GetObject).
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
	Stream  io.ReadCloser
}

// NewResponse builds an empty-bodied Response with the given status.
func NewResponse(status int) *Response {
	return &Response{Status: status, Headers: make(http.Header)}
}

// SetHeader sets a response header, initializing the header map if
// needed — handlers build Responses through value-returning helpers, so
// the zero Response{} (nil Headers) must stay safe to call this on.
func (r *Response) SetHeader(key, value string) {
	if r.Headers == nil {
		r.Headers = make(http.Header)
	}
	r.Headers.Set(key, value)
}

// WriteTo writes the response to w, closing Stream if set.
func (r *Response) WriteTo(w http.ResponseWriter) error {
	for k, vs := range r.Headers {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(r.Status)

	switch {
	case r.Stream != nil:
		defer r.Stream.Close()
		_, err := io.Copy(w, r.Stream)
		return err
	case len(r.Body) > 0:
		_, err := w.Write(r.Body)
		return err
	default:
		return nil
	}
}
