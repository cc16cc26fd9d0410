package s3api

import (
	"io"
	"strconv"

	"github.com/ethanadams/s3core/internal/reqctx"
	"github.com/ethanadams/s3core/internal/s3err"
)

// contentLength reads and validates the Content-Length header required
// for request bodies the storage port needs a declared size for
// (PutObject, UploadPart). Missing or non-numeric values map to
// MissingContentLength per spec.md §6's status-code table.
func contentLength(rc *reqctx.Context) (int64, *s3err.Error) {
	raw, ok := rc.Headers.Get("Content-Length")
	if !ok {
		return 0, s3err.New(s3err.MissingContentLength)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, s3err.New(s3err.InvalidArgument)
	}
	return n, nil
}

func contentLengthHeader(size int64) string {
	return strconv.FormatInt(size, 10)
}

// readBody fully reads rc.Body, used by handlers that need the whole
// request body to parse an XML document (DeleteObjects,
// CompleteMultipartUpload) rather than streaming it to the storage port.
func readBody(rc *reqctx.Context) ([]byte, error) {
	defer rc.Body.Close()
	return io.ReadAll(rc.Body)
}
