package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/nbscout/nbscout/internal/logger"
	"github.com/nbscout/nbscout/internal/sources/seeds"
	"github.com/nbscout/nbscout/internal/store"
	"github.com/nbscout/nbscout/internal/store/rediscache"
)

// SeedReloader handles periodic reloading of the notebook seed catalog
type SeedReloader struct {
	loader        *seeds.Loader
	mapper        *seeds.Mapper
	store         store.RecordStore
	cache         *rediscache.Cache
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewSeedReloader creates a new seed reloader
func NewSeedReloader(
	seedFile string,
	st store.RecordStore,
	cache *rediscache.Cache,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SeedReloader {
	return &SeedReloader{
		loader:        seeds.NewLoader(seedFile),
		mapper:        seeds.NewMapper(),
		store:         st,
		cache:         cache,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (sr *SeedReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := sr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	// Start periodic reload
	ticker := time.NewTicker(sr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("failed to reload seeds",
						logger.Error(err))
				}
			case <-sr.manualTrigger:
				sr.logger.Info("manual reload triggered")
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("failed to reload seeds",
						logger.Error(err))
				}
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (sr *SeedReloader) Stop() {
	close(sr.stopCh)
}

// Reload loads the seed catalog and upserts it into the record store
func (sr *SeedReloader) Reload(ctx context.Context) error {
	sr.logger.Info("reloading notebook seed catalog")

	config, err := sr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load seeds: %w", err)
	}

	records, err := sr.mapper.MapRecords(config)
	if err != nil {
		return fmt.Errorf("failed to map seed records: %w", err)
	}

	sr.logger.Info("loaded records from seed catalog",
		logger.Int("count", len(records)))

	if err := sr.store.UpsertRecords(ctx, records); err != nil {
		return fmt.Errorf("failed to upsert seed records: %w", err)
	}

	// Cached result pages may now be stale (best effort)
	if sr.cache != nil {
		if err := sr.cache.FlushResults(ctx); err != nil {
			sr.logger.Warn("failed to flush cached results",
				logger.Error(err))
		}
	}

	return nil
}
