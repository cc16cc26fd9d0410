package s3api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethanadams/s3core/internal/s3err"
	"github.com/ethanadams/s3core/internal/store"
)

func TestMapStoreErrorKnownSentinels(t *testing.T) {
	cases := []struct {
		in   error
		want s3err.Code
	}{
		{store.ErrNoSuchBucket, s3err.NoSuchBucket},
		{store.ErrNoSuchKey, s3err.NoSuchKey},
		{store.ErrBucketAlreadyExists, s3err.BucketAlreadyExists},
		{store.ErrBucketOwnedByYou, s3err.BucketAlreadyOwnedByYou},
		{store.ErrBucketNotEmpty, s3err.BucketNotEmpty},
		{store.ErrNoSuchUpload, s3err.NoSuchUpload},
		{store.ErrInvalidPart, s3err.InvalidPart},
		{store.ErrInvalidPartOrder, s3err.InvalidPartOrder},
		{store.ErrPreconditionFailed, s3err.PreconditionFailed},
		{store.ErrInvalidCopySource, s3err.InvalidArgument},
		{store.ErrInvalidRange, s3err.InvalidRange},
	}
	for _, c := range cases {
		got := mapStoreError(c.in)
		require.Equal(t, c.want, got.Code)
	}
}

func TestMapStoreErrorWrapsUnknown(t *testing.T) {
	custom := errors.New("backend exploded")
	got := mapStoreError(custom)
	require.ErrorIs(t, got, custom)
}
