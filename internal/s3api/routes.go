package s3api

import (
	"net/http"
	"strings"

	"github.com/ethanadams/s3core/internal/reqctx"
	"github.com/ethanadams/s3core/internal/s3path"
)

// buildRoutes returns the ordered route table spec.md §4.5 describes:
// method + path-shape + query-marker + header-presence predicates,
// tried in registration order with the first match winning. More
// specific predicates are registered ahead of their fallback siblings
// (e.g. ListObjectsV2 before ListObjects, CopyObject before PutObject).
func (d *Dispatcher) buildRoutes() []route {
	return []route{
		{"ListBuckets", isMethod(http.MethodGet, s3path.KindRoot), handleListBuckets},

		{"GetBucketLocation", isMethod(http.MethodGet, s3path.KindBucket, hasQuery("location")), handleGetBucketLocation},
		{"ListObjectsV2", isMethod(http.MethodGet, s3path.KindBucket, queryEquals("list-type", "2")), handleListObjectsV2},
		{"ListObjects", isMethod(http.MethodGet, s3path.KindBucket), handleListObjects},
		{"HeadBucket", isMethod(http.MethodHead, s3path.KindBucket), handleHeadBucket},
		{"CreateBucket", isMethod(http.MethodPut, s3path.KindBucket), handleCreateBucket},
		{"DeleteBucket", isMethod(http.MethodDelete, s3path.KindBucket), handleDeleteBucket},
		{"DeleteObjects", isMethod(http.MethodPost, s3path.KindBucket, hasQuery("delete")), handleDeleteObjects},
		{"PostObject", isMethod(http.MethodPost, s3path.KindBucket, hasMultipart()), handlePostObject},

		{"ListParts", isMethod(http.MethodGet, s3path.KindObject, hasQuery("uploadId")), handleListParts},
		{"GetObject", isMethod(http.MethodGet, s3path.KindObject), handleGetObject},
		{"HeadObject", isMethod(http.MethodHead, s3path.KindObject), handleHeadObject},
		{"CreateMultipartUpload", isMethod(http.MethodPost, s3path.KindObject, hasQuery("uploads")), handleCreateMultipartUpload},
		{"CompleteMultipartUpload", isMethod(http.MethodPost, s3path.KindObject, hasQuery("uploadId")), handleCompleteMultipartUpload},
		{"UploadPart", isMethod(http.MethodPut, s3path.KindObject, hasQuery("partNumber"), hasQuery("uploadId")), handleUploadPart},
		{"CopyObject", isMethod(http.MethodPut, s3path.KindObject, hasHeader("x-amz-copy-source")), handleCopyObject},
		{"PutObject", isMethod(http.MethodPut, s3path.KindObject), handlePutObject},
		{"AbortMultipartUpload", isMethod(http.MethodDelete, s3path.KindObject, hasQuery("uploadId")), handleAbortMultipartUpload},
		{"DeleteObject", isMethod(http.MethodDelete, s3path.KindObject), handleDeleteObject},
	}
}

type predicate func(rc *reqctx.Context) bool

// isMethod builds the common {method, path-kind, extra predicates...}
// conjunction every route is expressed as.
func isMethod(method string, kind s3path.Kind, extra ...predicate) predicate {
	return func(rc *reqctx.Context) bool {
		if !strings.EqualFold(rc.Method, method) || rc.S3Path.Kind != kind {
			return false
		}
		for _, p := range extra {
			if !p(rc) {
				return false
			}
		}
		return true
	}
}

func hasQuery(name string) predicate {
	return func(rc *reqctx.Context) bool { return rc.Query.Has(name) }
}

func queryEquals(name, value string) predicate {
	return func(rc *reqctx.Context) bool {
		v, ok := rc.Query.Get(name)
		return ok && v == value
	}
}

func hasHeader(name string) predicate {
	return func(rc *reqctx.Context) bool {
		_, ok := rc.Headers.Get(name)
		return ok
	}
}

func hasMultipart() predicate {
	return func(rc *reqctx.Context) bool { return rc.Multipart != nil }
}
