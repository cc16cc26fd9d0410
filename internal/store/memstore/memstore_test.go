package memstore_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ethanadams/s3core/internal/store"
	"github.com/ethanadams/s3core/internal/store/memstore"
)

func TestBucketLifecycle(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	require.NoError(t, s.CreateBucket(ctx, "b1"))
	require.ErrorIs(t, s.CreateBucket(ctx, "b1"), store.ErrBucketAlreadyExists)
	require.NoError(t, s.HeadBucket(ctx, "b1"))
	require.ErrorIs(t, s.HeadBucket(ctx, "missing"), store.ErrNoSuchBucket)

	buckets, err := s.ListBuckets(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	require.Equal(t, "b1", buckets[0].Name)

	require.NoError(t, s.DeleteBucket(ctx, "b1"))
	require.ErrorIs(t, s.HeadBucket(ctx, "b1"), store.ErrNoSuchBucket)
}

func TestPutGetObjectRoundtrip(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	require.NoError(t, s.CreateBucket(ctx, "b1"))

	body := []byte("hello world")
	putRes, err := s.PutObject(ctx, "b1", "k1", store.PutObjectInput{
		Body:        bytes.NewReader(body),
		Size:        int64(len(body)),
		ContentType: "text/plain",
		Metadata:    map[string]string{"owner": "alice"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, putRes.ETag)

	getRes, err := s.GetObject(ctx, "b1", "k1", nil)
	require.NoError(t, err)
	defer getRes.Body.Close()
	got, err := io.ReadAll(getRes.Body)
	require.NoError(t, err)
	require.Equal(t, body, got)
	require.Equal(t, "alice", getRes.Metadata["owner"])

	rangeRes, err := s.GetObject(ctx, "b1", "k1", &store.RangeSpec{First: 0, Last: 4, HasLast: true})
	require.NoError(t, err)
	defer rangeRes.Body.Close()
	gotRange, err := io.ReadAll(rangeRes.Body)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), gotRange)
	require.Equal(t, "bytes 0-4/11", rangeRes.Range)

	_, err = s.GetObject(ctx, "b1", "missing", nil)
	require.ErrorIs(t, err, store.ErrNoSuchKey)
}

func TestDeleteObjectsPartialBucket(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	require.NoError(t, s.CreateBucket(ctx, "b1"))
	_, err := s.PutObject(ctx, "b1", "k1", store.PutObjectInput{Body: bytes.NewReader(nil)})
	require.NoError(t, err)

	deleted, failed := s.DeleteObjects(ctx, "b1", []string{"k1", "k2"})
	require.ElementsMatch(t, []string{"k1", "k2"}, deleted)
	require.Nil(t, failed)

	_, failed = s.DeleteObjects(ctx, "missing-bucket", []string{"k1"})
	require.Len(t, failed, 1)
}

func TestMultipartUploadLifecycle(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	require.NoError(t, s.CreateBucket(ctx, "b1"))

	uploadID, err := s.CreateMultipartUpload(ctx, "b1", "big.bin", store.PutObjectInput{ContentType: "application/octet-stream"})
	require.NoError(t, err)
	require.NotEmpty(t, uploadID)

	etag1, err := s.UploadPart(ctx, "b1", "big.bin", uploadID, 1, bytes.NewReader([]byte("part-one-")), 9)
	require.NoError(t, err)
	etag2, err := s.UploadPart(ctx, "b1", "big.bin", uploadID, 2, bytes.NewReader([]byte("part-two")), 8)
	require.NoError(t, err)

	parts, err := s.ListParts(ctx, "b1", "big.bin", uploadID)
	require.NoError(t, err)
	require.Len(t, parts, 2)

	_, err = s.CompleteMultipartUpload(ctx, "b1", "big.bin", uploadID, []store.CompletedPart{
		{PartNumber: 2, ETag: etag2},
		{PartNumber: 1, ETag: etag1},
	})
	require.ErrorIs(t, err, store.ErrInvalidPartOrder)

	result, err := s.CompleteMultipartUpload(ctx, "b1", "big.bin", uploadID, []store.CompletedPart{
		{PartNumber: 1, ETag: etag1},
		{PartNumber: 2, ETag: etag2},
	})
	require.NoError(t, err)
	require.Contains(t, result.ETag, "-2")

	getRes, err := s.GetObject(ctx, "b1", "big.bin", nil)
	require.NoError(t, err)
	defer getRes.Body.Close()
	got, err := io.ReadAll(getRes.Body)
	require.NoError(t, err)
	require.Equal(t, "part-one-part-two", string(got))

	_, err = s.ListParts(ctx, "b1", "big.bin", uploadID)
	require.ErrorIs(t, err, store.ErrNoSuchUpload)
}

func TestAbortMultipartUpload(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	require.NoError(t, s.CreateBucket(ctx, "b1"))

	uploadID, err := s.CreateMultipartUpload(ctx, "b1", "k1", store.PutObjectInput{})
	require.NoError(t, err)
	require.NoError(t, s.AbortMultipartUpload(ctx, "b1", "k1", uploadID))
	require.ErrorIs(t, s.AbortMultipartUpload(ctx, "b1", "k1", uploadID), store.ErrNoSuchUpload)
}

func TestSweepStaleUploads(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	require.NoError(t, s.CreateBucket(ctx, "b1"))

	_, err := s.CreateMultipartUpload(ctx, "b1", "k1", store.PutObjectInput{})
	require.NoError(t, err)

	removed, err := s.SweepStaleUploads(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	removed, err = s.SweepStaleUploads(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, 0, removed)
}

func TestListObjectsWithDelimiter(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	require.NoError(t, s.CreateBucket(ctx, "b1"))

	for _, k := range []string{"a/1.txt", "a/2.txt", "b.txt"} {
		_, err := s.PutObject(ctx, "b1", k, store.PutObjectInput{Body: bytes.NewReader(nil)})
		require.NoError(t, err)
	}

	result, err := s.ListObjectsV2(ctx, "b1", store.ListObjectsV2Input{Delimiter: "/"})
	require.NoError(t, err)
	require.Equal(t, []string{"a/"}, result.CommonPrefixes)
	require.Len(t, result.Contents, 1)
	require.Equal(t, "b.txt", result.Contents[0].Key)
}
