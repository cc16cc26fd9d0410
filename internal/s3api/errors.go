package s3api

import (
	"errors"

	"github.com/ethanadams/s3core/internal/s3err"
	"github.com/ethanadams/s3core/internal/store"
)

// mapStoreError translates a store sentinel error into the S3ErrorCode
// the codec renders, per spec.md §7's "semantic errors bubbled from the
// storage port" taxonomy. Anything unrecognized becomes InternalError,
// with the source chain preserved for logging via s3err.Wrap.
func mapStoreError(err error) *s3err.Error {
	switch {
	case errors.Is(err, store.ErrNoSuchBucket):
		return s3err.New(s3err.NoSuchBucket)
	case errors.Is(err, store.ErrNoSuchKey):
		return s3err.New(s3err.NoSuchKey)
	case errors.Is(err, store.ErrBucketAlreadyExists):
		return s3err.New(s3err.BucketAlreadyExists)
	case errors.Is(err, store.ErrBucketOwnedByYou):
		return s3err.New(s3err.BucketAlreadyOwnedByYou)
	case errors.Is(err, store.ErrBucketNotEmpty):
		return s3err.New(s3err.BucketNotEmpty)
	case errors.Is(err, store.ErrNoSuchUpload):
		return s3err.New(s3err.NoSuchUpload)
	case errors.Is(err, store.ErrInvalidPart):
		return s3err.New(s3err.InvalidPart)
	case errors.Is(err, store.ErrInvalidPartOrder):
		return s3err.New(s3err.InvalidPartOrder)
	case errors.Is(err, store.ErrPreconditionFailed):
		return s3err.New(s3err.PreconditionFailed)
	case errors.Is(err, store.ErrInvalidCopySource):
		return s3err.New(s3err.InvalidArgument)
	case errors.Is(err, store.ErrInvalidRange):
		return s3err.New(s3err.InvalidRange)
	default:
		return s3err.Wrap(err)
	}
}
