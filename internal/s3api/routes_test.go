package s3api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethanadams/s3core/internal/httpkit"
	"github.com/ethanadams/s3core/internal/reqctx"
	"github.com/ethanadams/s3core/internal/s3path"
)

func rcFor(method string, p s3path.S3Path, query url.Values, headers http.Header) *reqctx.Context {
	if query == nil {
		query = url.Values{}
	}
	if headers == nil {
		headers = http.Header{}
	}
	return &reqctx.Context{
		Method:  method,
		S3Path:  p,
		Query:   httpkit.NewOrderedQs(query),
		Headers: httpkit.NewOrderedHeaders(headers),
	}
}

// TestRouteOrderPrefersSpecificOverFallback checks the precedence cases
// the route table depends on: a query-marked or header-marked operation
// must win over its same-method/same-shape fallback sibling regardless
// of table position, since buildRoutes relies on first-match-wins with
// the specific route registered first.
func TestRouteOrderPrefersSpecificOverFallback(t *testing.T) {
	d := &Dispatcher{}
	routes := d.buildRoutes()

	find := func(rc *reqctx.Context) string {
		for _, rt := range routes {
			if rt.match(rc) {
				return rt.name
			}
		}
		return ""
	}

	obj := s3path.S3Path{Kind: s3path.KindObject, Bucket: "buck1", Key: "k1"}
	bucket := s3path.S3Path{Kind: s3path.KindBucket, Bucket: "buck1"}

	require.Equal(t, "ListParts", find(rcFor(http.MethodGet, obj, url.Values{"uploadId": {"abc"}}, nil)))
	require.Equal(t, "GetObject", find(rcFor(http.MethodGet, obj, nil, nil)))

	require.Equal(t, "AbortMultipartUpload", find(rcFor(http.MethodDelete, obj, url.Values{"uploadId": {"abc"}}, nil)))
	require.Equal(t, "DeleteObject", find(rcFor(http.MethodDelete, obj, nil, nil)))

	require.Equal(t, "UploadPart", find(rcFor(http.MethodPut, obj, url.Values{"partNumber": {"1"}, "uploadId": {"abc"}}, nil)))

	copyHeaders := http.Header{}
	copyHeaders.Set("x-amz-copy-source", "/src/key")
	require.Equal(t, "CopyObject", find(rcFor(http.MethodPut, obj, nil, copyHeaders)))
	require.Equal(t, "PutObject", find(rcFor(http.MethodPut, obj, nil, nil)))

	require.Equal(t, "ListObjectsV2", find(rcFor(http.MethodGet, bucket, url.Values{"list-type": {"2"}}, nil)))
	require.Equal(t, "ListObjects", find(rcFor(http.MethodGet, bucket, nil, nil)))

	require.Equal(t, "GetBucketLocation", find(rcFor(http.MethodGet, bucket, url.Values{"location": {""}}, nil)))
}

func TestHasMultipartGatesPostObject(t *testing.T) {
	d := &Dispatcher{}
	routes := d.buildRoutes()

	bucket := s3path.S3Path{Kind: s3path.KindBucket, Bucket: "uploads"}
	rc := rcFor(http.MethodPost, bucket, nil, nil)
	rc.Multipart = nil

	for _, rt := range routes {
		if rt.name == "PostObject" {
			require.False(t, rt.match(rc))
		}
	}
}
