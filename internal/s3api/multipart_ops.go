package s3api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ethanadams/s3core/internal/reqctx"
	"github.com/ethanadams/s3core/internal/s3err"
	"github.com/ethanadams/s3core/internal/s3xml"
	"github.com/ethanadams/s3core/internal/store"
)

func handleCreateMultipartUpload(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	in := store.PutObjectInput{
		ContentType: rc.ContentType,
		Metadata:    s3xml.ExtractMetadataHeadersOrdered(rc.Headers),
	}
	uploadID, err := st.CreateMultipartUpload(ctx, rc.S3Path.Bucket, rc.S3Path.Key, in)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return xmlResponse(http.StatusOK, initiateMultipartUploadResult{
		Bucket:   rc.S3Path.Bucket,
		Key:      rc.S3Path.Key,
		UploadID: uploadID,
	})
}

func handleUploadPart(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	uploadID, _ := rc.Query.Get("uploadId")
	partNumberRaw, _ := rc.Query.Get("partNumber")
	partNumber, convErr := strconv.Atoi(partNumberRaw)
	if convErr != nil || partNumber < 1 {
		return nil, s3err.New(s3err.InvalidArgument)
	}

	size, sizeErr := contentLength(rc)
	if sizeErr != nil {
		return nil, sizeErr
	}

	etag, err := st.UploadPart(ctx, rc.S3Path.Bucket, rc.S3Path.Key, uploadID, partNumber, rc.Body, size)
	if err != nil {
		return nil, mapStoreError(err)
	}

	resp := NewResponse(http.StatusOK)
	resp.SetHeader("ETag", s3xml.QuotedETag(etag))
	return resp, nil
}

func handleCompleteMultipartUpload(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	uploadID, _ := rc.Query.Get("uploadId")

	body, readErr := readBody(rc)
	if readErr != nil {
		return nil, s3err.New(s3err.InvalidRequest)
	}

	var req completeMultipartUploadRequest
	if err := decodeXMLBody(body, &req); err != nil {
		return nil, s3err.New(s3err.MalformedXML)
	}
	if len(req.Parts) == 0 {
		return nil, s3err.New(s3err.MalformedXML)
	}

	parts := make([]store.CompletedPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		parts = append(parts, store.CompletedPart{PartNumber: p.PartNumber, ETag: trimQuotes(p.ETag)})
	}

	result, err := st.CompleteMultipartUpload(ctx, rc.S3Path.Bucket, rc.S3Path.Key, uploadID, parts)
	if err != nil {
		return nil, mapStoreError(err)
	}

	return xmlResponse(http.StatusOK, completeMultipartUploadResult{
		Location: result.Location,
		Bucket:   rc.S3Path.Bucket,
		Key:      rc.S3Path.Key,
		ETag:     s3xml.QuotedETag(result.ETag),
	})
}

func handleAbortMultipartUpload(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	uploadID, _ := rc.Query.Get("uploadId")
	if err := st.AbortMultipartUpload(ctx, rc.S3Path.Bucket, rc.S3Path.Key, uploadID); err != nil {
		return nil, mapStoreError(err)
	}
	return NewResponse(http.StatusNoContent), nil
}

func handleListParts(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	uploadID, _ := rc.Query.Get("uploadId")
	parts, err := st.ListParts(ctx, rc.S3Path.Bucket, rc.S3Path.Key, uploadID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	out := listPartsResult{
		Bucket:   rc.S3Path.Bucket,
		Key:      rc.S3Path.Key,
		UploadID: uploadID,
	}
	for _, p := range parts {
		out.Parts = append(out.Parts, xmlPart{
			PartNumber:   p.PartNumber,
			ETag:         s3xml.QuotedETag(p.ETag),
			Size:         p.Size,
			LastModified: s3xml.LastModifiedRFC1123(p.LastModified),
		})
	}
	return xmlResponse(http.StatusOK, out)
}

// trimQuotes strips the surrounding quotes AWS clients send on an ETag
// inside a CompleteMultipartUpload request body, matching the unquoted
// form the storage port's UploadPart returned.
func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
