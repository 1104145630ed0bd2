// Package discovery is the single entry point presentation code calls:
// it fetches candidates from the record store, applies filtering or
// ranking and returns a bounded, ordered result set.
package discovery

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/nbscout/nbscout/internal/domain"
	"github.com/nbscout/nbscout/internal/logger"
	"github.com/nbscout/nbscout/internal/store"
	"github.com/nbscout/nbscout/internal/store/rediscache"
)

const (
	// DefaultLimit bounds result sets when the caller passes none
	DefaultLimit = 20

	// MaxLimit is the hard ceiling on any result set
	MaxLimit = 100
)

// Orchestrator combines the store, the pure filter engine and the result
// cache. It performs no retries; store errors surface to the caller.
type Orchestrator struct {
	store  store.RecordStore
	cache  *rediscache.Cache // nil = caching disabled
	logger logger.Logger
}

// New creates an orchestrator. cache may be nil.
func New(recordStore store.RecordStore, cache *rediscache.Cache, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		store:  recordStore,
		cache:  cache,
		logger: log,
	}
}

// Discover returns candidates for a browse request. Empty keywords yield
// unfiltered, recency-ordered records; keywords apply free-text matching
// across title, description and tags before bounding.
func (o *Orchestrator) Discover(ctx context.Context, keywords string, limit int) ([]*domain.NotebookRecord, error) {
	limit = boundLimit(limit)
	keywords = strings.TrimSpace(keywords)

	cacheKey := resultKey("discover", keywords, "", limit)
	if cached, ok := o.fromCache(ctx, cacheKey); ok {
		return cached, nil
	}

	var filter *domain.Filter
	if keywords != "" {
		filter = &domain.Filter{Query: keywords}
	}

	records, err := o.store.QueryRecords(ctx, store.RecordQuery{
		Filter: filter,
		SortBy: domain.SortRecency,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("discover failed: %w", err)
	}

	o.toCache(ctx, cacheKey, records)
	return records, nil
}

// Search always executes the full-text + filter pipeline. Default sort
// is view count descending; sortBy overrides it.
func (o *Orchestrator) Search(ctx context.Context, query string, filter *domain.Filter, sortBy domain.SortKey, limit int) ([]*domain.NotebookRecord, error) {
	limit = boundLimit(limit)
	if filter == nil {
		filter = &domain.Filter{}
	}
	filter.Query = strings.TrimSpace(query)
	if sortBy == domain.SortNone {
		sortBy = domain.SortViewCount
	}

	cacheKey := resultKey("search", filter.Query, filterFingerprint(filter, sortBy), limit)
	if cached, ok := o.fromCache(ctx, cacheKey); ok {
		applyRelevance(filter.Query, cached)
		return cached, nil
	}

	records, err := o.store.QueryRecords(ctx, store.RecordQuery{
		Filter: filter,
		SortBy: sortBy,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	applyRelevance(filter.Query, records)
	o.toCache(ctx, cacheKey, records)
	return records, nil
}

// applyRelevance stamps each result with its relevance to the current
// query. The score is query-relative and recomputed on every search.
func applyRelevance(query string, records []*domain.NotebookRecord) {
	if query == "" {
		return
	}
	for _, record := range records {
		record.RelevanceScore = domain.RelevanceScore(query, record.SearchText())
	}
}

// fromCache resolves a cached id list back to records. Any failure,
// including a record that disappeared, falls through to the store.
func (o *Orchestrator) fromCache(ctx context.Context, cacheKey string) ([]*domain.NotebookRecord, bool) {
	if o.cache == nil {
		return nil, false
	}

	ids, err := o.cache.GetResults(ctx, cacheKey)
	if err != nil {
		o.logger.Debug("result cache read failed",
			logger.Error(err))
		return nil, false
	}
	if ids == nil {
		return nil, false
	}

	records := make([]*domain.NotebookRecord, 0, len(ids))
	for _, id := range ids {
		record, err := o.store.GetRecord(ctx, id)
		if err != nil {
			return nil, false
		}
		records = append(records, record)
	}
	return records, true
}

func (o *Orchestrator) toCache(ctx context.Context, cacheKey string, records []*domain.NotebookRecord) {
	if o.cache == nil {
		return
	}

	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}
	if err := o.cache.SaveResults(ctx, cacheKey, ids, rediscache.DefaultResultsTTL); err != nil {
		o.logger.Debug("result cache write failed",
			logger.Error(err))
	}
}

func boundLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func resultKey(kind, query, fingerprint string, limit int) string {
	return fmt.Sprintf("%s:%s:%s:%d", kind, strings.ToLower(query), fingerprint, limit)
}

// filterFingerprint produces a short stable key component for the
// structured filter fields.
func filterFingerprint(f *domain.Filter, sortBy domain.SortKey) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s", f.Category, f.Platform, sortBy)
	if f.MinQuality != nil {
		fmt.Fprintf(&b, "|minq=%f", *f.MinQuality)
	}
	if f.MaxQuality != nil {
		fmt.Fprintf(&b, "|maxq=%f", *f.MaxQuality)
	}
	if f.MinComputeHours != nil {
		fmt.Fprintf(&b, "|minc=%f", *f.MinComputeHours)
	}
	if f.MaxComputeHours != nil {
		fmt.Fprintf(&b, "|maxc=%f", *f.MaxComputeHours)
	}
	if f.MaxCarbonGrams != nil {
		fmt.Fprintf(&b, "|maxg=%f", *f.MaxCarbonGrams)
	}
	for _, rating := range f.Ratings {
		fmt.Fprintf(&b, "|r=%s", rating)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}
