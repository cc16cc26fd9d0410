package s3api

import (
	"context"
	"encoding/xml"
	"net/http"
	"strconv"

	"github.com/ethanadams/s3core/internal/reqctx"
	"github.com/ethanadams/s3core/internal/s3err"
	"github.com/ethanadams/s3core/internal/s3path"
	"github.com/ethanadams/s3core/internal/s3xml"
	"github.com/ethanadams/s3core/internal/store"
)

func handleListBuckets(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	buckets, err := st.ListBuckets(ctx)
	if err != nil {
		return nil, s3err.Wrap(err)
	}

	result := listAllMyBucketsResult{}
	for _, b := range buckets {
		result.Buckets = append(result.Buckets, xmlBucket{
			Name:         b.Name,
			CreationDate: s3xml.LastModifiedRFC1123(b.CreationDate),
		})
	}
	return xmlResponse(http.StatusOK, result)
}

func handleHeadBucket(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	if err := st.HeadBucket(ctx, rc.S3Path.Bucket); err != nil {
		return nil, mapStoreError(err)
	}
	return NewResponse(http.StatusOK), nil
}

func handleCreateBucket(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	if !s3path.ValidBucketName(rc.S3Path.Bucket) {
		return nil, s3err.New(s3err.InvalidBucketName)
	}
	if err := st.CreateBucket(ctx, rc.S3Path.Bucket); err != nil {
		return nil, mapStoreError(err)
	}
	resp := NewResponse(http.StatusOK)
	resp.SetHeader("Location", "/"+rc.S3Path.Bucket)
	return resp, nil
}

func handleDeleteBucket(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	if err := st.DeleteBucket(ctx, rc.S3Path.Bucket); err != nil {
		return nil, mapStoreError(err)
	}
	return NewResponse(http.StatusNoContent), nil
}

func handleGetBucketLocation(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	if err := st.HeadBucket(ctx, rc.S3Path.Bucket); err != nil {
		return nil, mapStoreError(err)
	}
	return xmlResponse(http.StatusOK, locationConstraint{Region: defaultRegion})
}

func handleListObjects(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	in := store.ListObjectsInput{}
	in.Prefix, _ = rc.Query.Get("prefix")
	in.Marker, _ = rc.Query.Get("marker")
	in.Delimiter, _ = rc.Query.Get("delimiter")
	in.MaxKeys = parseMaxKeys(rc)

	result, err := st.ListObjects(ctx, rc.S3Path.Bucket, in)
	if err != nil {
		return nil, mapStoreError(err)
	}

	out := listBucketResult{
		Name:        rc.S3Path.Bucket,
		Prefix:      in.Prefix,
		Marker:      in.Marker,
		NextMarker:  result.NextMarker,
		MaxKeys:     maxKeysOrDefault(in.MaxKeys),
		Delimiter:   in.Delimiter,
		IsTruncated: result.IsTruncated,
	}
	for _, e := range result.Contents {
		out.Contents = append(out.Contents, contentXML(e.ObjectInfo))
	}
	for _, p := range result.CommonPrefixes {
		out.CommonPrefixes = append(out.CommonPrefixes, xmlCommonPrefix{Prefix: p})
	}
	return xmlResponse(http.StatusOK, out)
}

func handleListObjectsV2(ctx context.Context, rc *reqctx.Context, st store.Store) (*Response, *s3err.Error) {
	in := store.ListObjectsV2Input{}
	in.Prefix, _ = rc.Query.Get("prefix")
	in.StartAfter, _ = rc.Query.Get("start-after")
	in.ContinuationToken, _ = rc.Query.Get("continuation-token")
	in.Delimiter, _ = rc.Query.Get("delimiter")
	in.MaxKeys = parseMaxKeys(rc)

	result, err := st.ListObjectsV2(ctx, rc.S3Path.Bucket, in)
	if err != nil {
		return nil, mapStoreError(err)
	}

	out := listBucketResultV2{
		Name:                  rc.S3Path.Bucket,
		Prefix:                in.Prefix,
		StartAfter:            in.StartAfter,
		ContinuationToken:     in.ContinuationToken,
		NextContinuationToken: result.NextContinuationToken,
		KeyCount:              result.KeyCount,
		MaxKeys:               maxKeysOrDefault(in.MaxKeys),
		Delimiter:             in.Delimiter,
		IsTruncated:           result.IsTruncated,
	}
	for _, e := range result.Contents {
		out.Contents = append(out.Contents, contentXML(e.ObjectInfo))
	}
	for _, p := range result.CommonPrefixes {
		out.CommonPrefixes = append(out.CommonPrefixes, xmlCommonPrefix{Prefix: p})
	}
	return xmlResponse(http.StatusOK, out)
}

func contentXML(info store.ObjectInfo) xmlContent {
	return xmlContent{
		Key:          info.Key,
		LastModified: s3xml.LastModifiedRFC1123(info.LastModified),
		ETag:         s3xml.QuotedETag(info.ETag),
		Size:         info.Size,
		StorageClass: "STANDARD",
	}
}

func parseMaxKeys(rc *reqctx.Context) int {
	raw, ok := rc.Query.Get("max-keys")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func maxKeysOrDefault(n int) int {
	if n <= 0 {
		return 1000
	}
	return n
}

const defaultRegion = "us-east-1"

// xmlResponse marshals v and builds a 200-family Response with the
// canonical S3 XML Content-Type.
func xmlResponse(status int, v any) (*Response, *s3err.Error) {
	body, err := s3xml.Marshal(v)
	if err != nil {
		return nil, s3err.Wrap(err)
	}
	resp := NewResponse(status)
	resp.SetHeader("Content-Type", "text/xml; charset=UTF-8")
	resp.Body = body
	return resp, nil
}

// decodeXMLBody is the inverse of xmlResponse, used to parse request
// bodies (DeleteObjects, CompleteMultipartUpload).
func decodeXMLBody(body []byte, v any) error {
	return xml.Unmarshal(body, v)
}
