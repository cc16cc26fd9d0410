package sweeper_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ethanadams/s3core/internal/metrics"
	"github.com/ethanadams/s3core/internal/store"
	"github.com/ethanadams/s3core/internal/store/memstore"
	"github.com/ethanadams/s3core/internal/sweeper"
)

func TestNewRejectsInvalidSchedule(t *testing.T) {
	s := memstore.New()
	_, err := sweeper.New(s, metrics.NewCollector(), "not a cron schedule", time.Hour, 0)
	require.Error(t, err)
}

func TestStartStopSweepsStaleUploads(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	require.NoError(t, s.CreateBucket(ctx, "b1"))
	uploadID, err := s.CreateMultipartUpload(ctx, "b1", "k1", store.PutObjectInput{})
	require.NoError(t, err)

	sw, err := sweeper.New(s, metrics.NewCollector(), "@every 30ms", 0, 0)
	require.NoError(t, err)

	sw.Start()
	defer sw.Stop()

	require.Eventually(t, func() bool {
		_, listErr := s.ListParts(ctx, "b1", "k1", uploadID)
		return listErr == store.ErrNoSuchUpload
	}, 2*time.Second, 20*time.Millisecond, "sweeper should remove the stale upload")
}
