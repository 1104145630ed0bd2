package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/nbscout/nbscout/internal/domain"
	"github.com/nbscout/nbscout/internal/logger"
	"github.com/nbscout/nbscout/internal/store"
	"github.com/nbscout/nbscout/internal/store/rediscache"
)

// CounterFlusher drains hot engagement counters from redis into the
// record store and re-derives the scores that depend on them.
type CounterFlusher struct {
	cache    *rediscache.Cache
	store    store.RecordStore
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewCounterFlusher creates a new counter flusher
func NewCounterFlusher(
	cache *rediscache.Cache,
	st store.RecordStore,
	log logger.Logger,
	interval time.Duration,
) *CounterFlusher {
	return &CounterFlusher{
		cache:    cache,
		store:    st,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic flush process
func (cf *CounterFlusher) Start(ctx context.Context) error {
	ticker := time.NewTicker(cf.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cf.Flush(ctx); err != nil {
					cf.logger.Error("counter flush failed",
						logger.Error(err))
				}
			case <-cf.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the flusher
func (cf *CounterFlusher) Stop() {
	close(cf.stopCh)
}

// Flush drains pending counters and applies them. A record that fails
// to apply is logged and skipped; its deltas are lost, which is
// acceptable for engagement counters.
func (cf *CounterFlusher) Flush(ctx context.Context) error {
	drained, err := cf.cache.DrainCounters(ctx)
	if err != nil {
		return err
	}
	if len(drained) == 0 {
		cf.logger.Debug("no pending counters to flush")
		return nil
	}

	flushed := 0
	for recordID, deltas := range drained {
		if err := cf.apply(ctx, recordID, deltas); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Record was deleted while counters were pending
				cf.logger.Debug("dropping counters for missing record",
					logger.String("record_id", recordID))
				continue
			}
			cf.logger.Warn("failed to apply counters",
				logger.String("record_id", recordID),
				logger.Error(err))
			continue
		}
		flushed++
	}

	cf.logger.Info("flushed engagement counters",
		logger.Int("records", flushed))

	return nil
}

func (cf *CounterFlusher) apply(ctx context.Context, recordID string, deltas map[string]int64) error {
	if err := cf.store.IncrementEngagement(ctx, recordID, deltas); err != nil {
		return err
	}

	// Engagement moved, so the derived scores are stale
	record, err := cf.store.GetRecord(ctx, recordID)
	if err != nil {
		return err
	}
	if err := domain.Rescore(record); err != nil {
		return err
	}

	return cf.store.UpdateRecord(ctx, recordID, map[string]interface{}{
		"quality_score": record.QualityScore,
		"compute_hours": record.ComputeHours,
		"carbon_grams":  record.CarbonGrams,
		"efficiency":    record.Efficiency,
	})
}
