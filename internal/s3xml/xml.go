// Package s3xml provides the canonical XML emission helpers and
// response header setters shared by every operation's renderer.
package s3xml

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethanadams/s3core/internal/httpkit"
)

const prologue = `<?xml version="1.0" encoding="UTF-8"?>`

// Marshal renders v (a struct tagged for encoding/xml) with the S3
// prologue prepended, matching spec.md §6's exact wire format.
func Marshal(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(prologue), body...), nil
}

// WriteXML writes v's XML rendering to w with the correct S3
// Content-Type header, followed by status.
func WriteXML(w http.ResponseWriter, status int, v any) error {
	body, err := Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/xml; charset=UTF-8")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}

// LastModifiedRFC1123 formats t per spec.md §6: "%a, %d %b %Y %H:%M:%S GMT".
func LastModifiedRFC1123(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}

// SetMetadataHeaders emits one "x-amz-meta-<key>: <value>" response
// header per metadata entry.
func SetMetadataHeaders(w http.ResponseWriter, meta map[string]string) {
	SetMetadataHeadersOn(w.Header(), meta)
}

// SetMetadataHeadersOn is SetMetadataHeaders against a bare http.Header,
// used by callers (like the dispatcher's Response) that build headers
// before a ResponseWriter exists.
func SetMetadataHeadersOn(h http.Header, meta map[string]string) {
	for k, v := range meta {
		h.Set("x-amz-meta-"+k, v)
	}
}

// ExtractMetadataHeaders collects every request header whose lowercase
// name starts with "x-amz-meta-" into a metadata map keyed by the
// remainder of the header name.
func ExtractMetadataHeaders(h http.Header) map[string]string {
	const prefix = "x-amz-meta-"
	meta := make(map[string]string)
	for name, values := range h {
		lname := strings.ToLower(name)
		if strings.HasPrefix(lname, prefix) && len(values) > 0 {
			meta[lname[len(prefix):]] = values[0]
		}
	}
	return meta
}

// ExtractMetadataHeadersOrdered is ExtractMetadataHeaders over an
// httpkit.OrderedHeaders view, used by the codec which never reconstructs
// a raw http.Header.
func ExtractMetadataHeadersOrdered(h httpkit.OrderedHeaders) map[string]string {
	const prefix = "x-amz-meta-"
	meta := make(map[string]string)
	for _, pair := range h.All() {
		if strings.HasPrefix(pair.Name, prefix) {
			meta[pair.Name[len(prefix):]] = pair.Value
		}
	}
	return meta
}

// QuotedETag wraps a hex digest in the quoted form S3 clients expect.
func QuotedETag(hexDigest string) string {
	return fmt.Sprintf("%q", hexDigest)
}
