package s3api

import (
	"context"
	"net/http"

	"github.com/ethanadams/s3core/internal/httpkit"
	"github.com/ethanadams/s3core/internal/reqctx"
	"github.com/ethanadams/s3core/internal/s3err"
	"github.com/ethanadams/s3core/internal/s3xml"
	"github.com/ethanadams/s3core/internal/store"
)

func handleHeadObject(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	info, err := st.HeadObject(ctx, rc.S3Path.Bucket, rc.S3Path.Key)
	if err != nil {
		return nil, mapStoreError(err)
	}
	resp := objectMetadataResponse(http.StatusOK, info)
	return resp, nil
}

func handleGetObject(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	var rangeSpec *store.RangeSpec
	status := http.StatusOK

	if rawRange, ok := rc.Headers.Get("Range"); ok {
		parsed, err := httpkit.ParseRange(rawRange)
		if err != nil {
			return nil, s3err.New(s3err.InvalidRange)
		}
		info, err := st.HeadObject(ctx, rc.S3Path.Bucket, rc.S3Path.Key)
		if err != nil {
			return nil, mapStoreError(err)
		}
		resolved, ok := resolveRange(parsed, info.Size)
		if !ok {
			return nil, s3err.New(s3err.InvalidRange)
		}
		rangeSpec = &resolved
		status = http.StatusPartialContent
	}

	result, err := st.GetObject(ctx, rc.S3Path.Bucket, rc.S3Path.Key, rangeSpec)
	if err != nil {
		return nil, mapStoreError(err)
	}

	resp := NewResponse(status)
	resp.SetHeader("Content-Type", result.ContentType)
	resp.SetHeader("ETag", s3xml.QuotedETag(result.ETag))
	resp.SetHeader("Last-Modified", s3xml.LastModifiedRFC1123(result.LastModified))
	s3xml.SetMetadataHeadersOn(resp.Headers, result.Metadata)
	if result.Range != "" {
		resp.SetHeader("Content-Range", result.Range)
	}
	resp.Stream = result.Body
	return resp, nil
}

// resolveRange converts a parsed Range header into the backend-facing
// absolute-offset RangeSpec, resolving the suffix and open-ended forms
// against the object's total size. Returns ok=false when the resolved
// range is unsatisfiable (spec.md §6/§7: InvalidRange, 416).
func resolveRange(r httpkit.Range, size int64) (store.RangeSpec, bool) {
	if r.Kind == httpkit.RangeSuffix {
		if r.Last <= 0 {
			return store.RangeSpec{}, false
		}
		first := size - r.Last
		if first < 0 {
			first = 0
		}
		if size == 0 {
			return store.RangeSpec{}, false
		}
		return store.RangeSpec{First: first, Last: size - 1, HasLast: true}, true
	}
	if r.First >= size {
		return store.RangeSpec{}, false
	}
	if !r.HasLast {
		return store.RangeSpec{First: r.First, HasLast: false}, true
	}
	last := r.Last
	if last >= size {
		last = size - 1
	}
	return store.RangeSpec{First: r.First, Last: last, HasLast: true}, true
}

func handlePutObject(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	size, sizeErr := contentLength(rc)
	if sizeErr != nil {
		return nil, sizeErr
	}

	in := store.PutObjectInput{
		Body:        rc.Body,
		Size:        size,
		ContentType: rc.ContentType,
		Metadata:    s3xml.ExtractMetadataHeadersOrdered(rc.Headers),
	}
	result, err := st.PutObject(ctx, rc.S3Path.Bucket, rc.S3Path.Key, in)
	if err != nil {
		return nil, mapStoreError(err)
	}

	resp := NewResponse(http.StatusOK)
	resp.SetHeader("ETag", s3xml.QuotedETag(result.ETag))
	return resp, nil
}

func handleCopyObject(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	raw, _ := rc.Headers.Get("x-amz-copy-source")
	src, err := httpkit.ParseCopySource(raw)
	if err != nil {
		return nil, s3err.New(s3err.InvalidArgument)
	}

	in := store.PutObjectInput{
		ContentType: rc.ContentType,
		Metadata:    s3xml.ExtractMetadataHeadersOrdered(rc.Headers),
	}
	result, copyErr := st.CopyObject(ctx, src.Bucket, src.Key, rc.S3Path.Bucket, rc.S3Path.Key, in)
	if copyErr != nil {
		return nil, mapStoreError(copyErr)
	}

	return xmlResponse(http.StatusOK, copyObjectResult{
		ETag:         s3xml.QuotedETag(result.ETag),
		LastModified: s3xml.LastModifiedRFC1123(result.LastModified),
	})
}

func handleDeleteObject(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	if err := st.DeleteObject(ctx, rc.S3Path.Bucket, rc.S3Path.Key); err != nil {
		return nil, mapStoreError(err)
	}
	return NewResponse(http.StatusNoContent), nil
}

func handleDeleteObjects(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	body, readErr := readBody(rc)
	if readErr != nil {
		return nil, s3err.New(s3err.InvalidRequest)
	}

	var req deleteObjectsRequest
	if err := decodeXMLBody(body, &req); err != nil {
		return nil, s3err.New(s3err.MalformedXML)
	}
	if len(req.Objects) == 0 {
		return nil, s3err.New(s3err.MalformedXML)
	}

	keys := make([]string, 0, len(req.Objects))
	for _, o := range req.Objects {
		keys = append(keys, o.Key)
	}

	deleted, failed := st.DeleteObjects(ctx, rc.S3Path.Bucket, keys)

	out := deleteResult{}
	if !req.Quiet {
		for _, k := range deleted {
			out.Deleted = append(out.Deleted, xmlDeletedObject{Key: k})
		}
	}
	for k, ferr := range failed {
		se := mapStoreError(ferr)
		out.Errors = append(out.Errors, xmlDeleteError{
			Key:     k,
			Code:    string(se.Code),
			Message: se.DisplayMessage(),
		})
	}
	return xmlResponse(http.StatusOK, out)
}

func objectMetadataResponse(status int, info store.ObjectInfo) *Response {
	resp := NewResponse(status)
	resp.SetHeader("Content-Type", info.ContentType)
	resp.SetHeader("Content-Length", contentLengthHeader(info.Size))
	resp.SetHeader("ETag", s3xml.QuotedETag(info.ETag))
	resp.SetHeader("Last-Modified", s3xml.LastModifiedRFC1123(info.LastModified))
	s3xml.SetMetadataHeadersOn(resp.Headers, info.Metadata)
	return resp
}
