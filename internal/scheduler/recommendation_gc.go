package scheduler

import (
	"context"
	"time"

	"github.com/nbscout/nbscout/internal/logger"
)

// DefaultGCThreshold is the age after which recommendation rows are
// purged. Stale batches are already invisible to reads once they leave
// the freshness window; the purge only keeps the table from growing
// without bound, so it trails the window by a wide margin.
const DefaultGCThreshold = 90 * 24 * time.Hour

// recommendationPurger is the narrow store surface the collector needs.
type recommendationPurger interface {
	PurgeRecommendationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RecommendationGC handles cleanup of expired recommendation batches
type RecommendationGC struct {
	store     recommendationPurger
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
}

// NewRecommendationGC creates a new recommendation garbage collector
func NewRecommendationGC(
	st recommendationPurger,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *RecommendationGC {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}

	return &RecommendationGC{
		store:     st,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *RecommendationGC) Start(ctx context.Context) error {
	// Run immediately on start
	if err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed",
			logger.Error(err))
	}

	// Start periodic collection
	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.Collect(ctx); err != nil {
					gc.logger.Error("garbage collection failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector
func (gc *RecommendationGC) Stop() {
	close(gc.stopCh)
}

// Collect purges recommendations older than the threshold
func (gc *RecommendationGC) Collect(ctx context.Context) error {
	cutoff := time.Now().Add(-gc.threshold)

	purged, err := gc.store.PurgeRecommendationsBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	if purged > 0 {
		gc.logger.Info("garbage collection completed",
			logger.Int("recommendations_purged", int(purged)))
	} else {
		gc.logger.Debug("no recommendations to garbage collect")
	}

	return nil
}
