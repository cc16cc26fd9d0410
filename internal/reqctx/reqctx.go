// Package reqctx defines the per-request context threaded through the
// auth pipeline and the operation dispatcher (spec.md §3's "request
// context" data model).
package reqctx

import (
	"io"

	"github.com/ethanadams/s3core/internal/httpkit"
	"github.com/ethanadams/s3core/internal/multipart"
	"github.com/ethanadams/s3core/internal/s3path"
)

// Context is constructed once per request and consumed by the auth
// pipeline and, on success, by exactly one operation handler.
type Context struct {
	Method string
	Path   string
	S3Path s3path.S3Path

	Headers httpkit.OrderedHeaders
	Query   httpkit.OrderedQs

	ContentType string

	// Body is the lazy request-body byte sequence. Exactly one of the
	// auth verifier or the handler takes ownership of it; any
	// unconsumed body on the success path is discarded by the caller.
	Body io.ReadCloser

	// Multipart is set iff POST-policy auth consumed the body.
	Multipart *multipart.Multipart

	// AccessKeyID is set once authentication succeeds, for logging and
	// for handlers that need to attribute the request to a principal.
	AccessKeyID string

	RequestID string
}
