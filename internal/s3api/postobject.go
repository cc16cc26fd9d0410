package s3api

import (
	"context"
	"net/http"
	"strings"

	"github.com/ethanadams/s3core/internal/multipart"
	"github.com/ethanadams/s3core/internal/reqctx"
	"github.com/ethanadams/s3core/internal/s3err"
	"github.com/ethanadams/s3core/internal/s3xml"
	"github.com/ethanadams/s3core/internal/store"
)

// handlePostObject serves the browser form-upload path: POST-policy
// auth (internal/auth) has already parsed the multipart body and left
// it on rc.Multipart; this handler is the only consumer of that field,
// turning the form's "key"/file-field into a PutObject call. Not named
// in spec.md §4.5's op list directly, but required for the POST-policy
// auth variant it names in §4.4 to have anywhere to go.
func handlePostObject(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	m := rc.Multipart
	key, ok := m.Get("key")
	if !ok || key == "" {
		return nil, s3err.New(s3err.InvalidArgument)
	}

	contentType := m.ContentType
	if v, ok := m.Get("Content-Type"); ok {
		contentType = v
	}

	in := store.PutObjectInput{
		Body:        m.File,
		ContentType: contentType,
		Metadata:    formFieldMetadata(m),
	}
	result, err := st.PutObject(ctx, rc.S3Path.Bucket, key, in)
	if err != nil {
		return nil, mapStoreError(err)
	}

	resp := NewResponse(http.StatusNoContent)
	resp.SetHeader("ETag", s3xml.QuotedETag(result.ETag))
	resp.SetHeader("Location", "/"+rc.S3Path.Bucket+"/"+key)
	return resp, nil
}

// formFieldMetadata collects "x-amz-meta-*" form fields the same way
// ExtractMetadataHeadersOrdered collects headers, since POST-policy
// uploads carry metadata as form fields instead of request headers.
func formFieldMetadata(m *multipart.Multipart) map[string]string {
	const prefix = "x-amz-meta-"
	meta := make(map[string]string)
	for _, f := range m.Fields {
		lname := strings.ToLower(f.Name)
		if strings.HasPrefix(lname, prefix) {
			meta[lname[len(prefix):]] = f.Value
		}
	}
	return meta
}
