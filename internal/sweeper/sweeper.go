// Package sweeper runs a cron-scheduled background job that expires
// abandoned multipart uploads from the storage backend, mirroring the
// way the teacher's scheduler drives periodic test execution.
package sweeper

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ethanadams/s3core/internal/jitter"
	"github.com/ethanadams/s3core/internal/metrics"
	"github.com/ethanadams/s3core/internal/store"
)

// Sweeper periodically calls Store.SweepStaleUploads on a cron schedule.
type Sweeper struct {
	cron      *cron.Cron
	store     store.Store
	maxAge    time.Duration
	maxJitter time.Duration
	metrics   *metrics.Collector
}

// New builds a Sweeper. schedule is a standard 5-field cron expression
// (e.g. "*/15 * * * *"); maxAge is how old a multipart upload must be
// before it's swept; maxJitter, if positive, staggers the sweep's start
// within that window via internal/jitter.
func New(s store.Store, c *metrics.Collector, schedule string, maxAge, maxJitter time.Duration) (*Sweeper, error) {
	sw := &Sweeper{
		cron:      cron.New(),
		store:     s,
		maxAge:    maxAge,
		maxJitter: maxJitter,
		metrics:   c,
	}

	_, err := sw.cron.AddFunc(schedule, func() {
		sw.runOnce(context.Background())
	})
	if err != nil {
		return nil, err
	}

	return sw, nil
}

// Start begins the cron schedule. Non-blocking; returns immediately.
func (sw *Sweeper) Start() {
	sw.cron.Start()
	log.Println("sweeper: started")
}

// Stop halts the cron schedule, waiting for any in-flight sweep to finish.
func (sw *Sweeper) Stop() {
	ctx := sw.cron.Stop()
	<-ctx.Done()
	log.Println("sweeper: stopped")
}

func (sw *Sweeper) runOnce(ctx context.Context) {
	if sw.maxJitter > 0 {
		if err := jitter.Apply(ctx, sw.maxJitter, "multipart upload sweep"); err != nil {
			log.Printf("sweeper: jitter interrupted: %v", err)
			return
		}
	}

	cutoff := time.Now().Add(-sw.maxAge)
	removed, err := sw.store.SweepStaleUploads(ctx, cutoff)
	if err != nil {
		log.Printf("sweeper: sweep failed: %v", err)
		return
	}
	if sw.metrics != nil {
		sw.metrics.RecordSweep(removed)
	}
	if removed > 0 {
		log.Printf("sweeper: removed %d stale multipart upload(s) older than %v", removed, sw.maxAge)
	}
}
