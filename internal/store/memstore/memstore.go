// Package memstore is an in-memory implementation of the record store
// contract. It backs tests and the zero-dependency dev mode; semantics
// mirror the postgres implementation.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nbscout/nbscout/internal/domain"
	"github.com/nbscout/nbscout/internal/store"
)

// Store holds all pipeline state behind one RWMutex.
type Store struct {
	mu              sync.RWMutex
	records         map[string]*domain.NotebookRecord
	recordOrder     []string // insertion order, the stable baseline ordering
	interactions    []*domain.Interaction
	recommendations map[string]*domain.Recommendation
	preferences     map[string]*domain.UserPreferences

	// FailInserts makes InsertRecommendations fail; used to exercise the
	// best-effort persistence path in tests.
	FailInserts bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		records:         make(map[string]*domain.NotebookRecord),
		recommendations: make(map[string]*domain.Recommendation),
		preferences:     make(map[string]*domain.UserPreferences),
	}
}

// ─────────────────────────────────────────────────────────────────
// Records
// ─────────────────────────────────────────────────────────────────

func (s *Store) QueryRecords(_ context.Context, q store.RecordQuery) ([]*domain.NotebookRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*domain.NotebookRecord, 0, len(s.recordOrder))
	for _, id := range s.recordOrder {
		record := s.records[id]
		if q.Status != "" && record.Status != q.Status {
			continue
		}
		records = append(records, record)
	}

	if q.Filter != nil {
		records = q.Filter.Apply(records, q.SortBy)
	} else {
		sortRecords(records, q.SortBy)
	}

	if q.Limit > 0 && len(records) > q.Limit {
		records = records[:q.Limit]
	}
	return records, nil
}

func (s *Store) GetRecord(_ context.Context, id string) (*domain.NotebookRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: record %s", domain.ErrNotFound, id)
	}
	return record, nil
}

func (s *Store) InsertRecord(_ context.Context, record *domain.NotebookRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Status == "" {
		record.Status = domain.StatusDiscovered
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if _, exists := s.records[record.ID]; !exists {
		s.recordOrder = append(s.recordOrder, record.ID)
	}
	s.records[record.ID] = record
	return record.ID, nil
}

func (s *Store) UpdateRecord(_ context.Context, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: record %s", domain.ErrNotFound, id)
	}
	applyRecordFields(record, fields)
	record.UpdatedAt = time.Now()
	return nil
}

func (s *Store) UpsertRecords(ctx context.Context, records []*domain.NotebookRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byURL := make(map[string]*domain.NotebookRecord, len(s.records))
	for _, existing := range s.records {
		byURL[existing.SourceURL] = existing
	}

	for _, record := range records {
		if existing, ok := byURL[record.SourceURL]; ok {
			existing.Title = record.Title
			existing.Description = record.Description
			existing.Author = record.Author
			existing.Institution = record.Institution
			existing.Category = record.Category
			existing.Tags = record.Tags
			existing.SizeKB = record.SizeKB
			existing.ComputeHours = record.ComputeHours
			existing.CarbonGrams = record.CarbonGrams
			existing.Efficiency = record.Efficiency
			existing.UpdatedAt = time.Now()
			continue
		}
		if record.ID == "" {
			record.ID = uuid.NewString()
		}
		if record.Status == "" {
			record.Status = domain.StatusDiscovered
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = time.Now()
		}
		s.records[record.ID] = record
		s.recordOrder = append(s.recordOrder, record.ID)
		byURL[record.SourceURL] = record
	}
	return nil
}

// IncrementEngagement applies counter deltas, clamped at zero.
func (s *Store) IncrementEngagement(_ context.Context, recordID string, deltas map[string]int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[recordID]
	if !ok {
		return fmt.Errorf("%w: record %s", domain.ErrNotFound, recordID)
	}
	for field, delta := range deltas {
		switch field {
		case "view_count":
			record.ViewCount = clampNonNegative(record.ViewCount + delta)
		case "like_count":
			record.LikeCount = clampNonNegative(record.LikeCount + delta)
		case "share_count":
			record.ShareCount = clampNonNegative(record.ShareCount + delta)
		case "bookmark_count":
			record.BookmarkCount = clampNonNegative(record.BookmarkCount + delta)
		}
	}
	return nil
}

func clampNonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

// ─────────────────────────────────────────────────────────────────
// Interactions
// ─────────────────────────────────────────────────────────────────

func (s *Store) QueryInteractions(_ context.Context, userID string, limit int) ([]*domain.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Interaction, 0)
	for _, interaction := range s.interactions {
		if interaction.UserID == userID {
			out = append(out, interaction)
		}
	}

	// Newest first, matching the postgres ordering
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) QueryInteractionsByRecords(_ context.Context, recordIDs []string) ([]*domain.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(recordIDs))
	for _, id := range recordIDs {
		wanted[id] = true
	}

	out := make([]*domain.Interaction, 0)
	for _, interaction := range s.interactions {
		if wanted[interaction.RecordID] {
			out = append(out, interaction)
		}
	}
	return out, nil
}

func (s *Store) InsertInteraction(_ context.Context, interaction *domain.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if interaction.ID == "" {
		interaction.ID = uuid.NewString()
	}
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now()
	}
	s.interactions = append(s.interactions, interaction)
	return nil
}

func (s *Store) ToggleBookmark(_ context.Context, userID, recordID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, interaction := range s.interactions {
		if interaction.UserID == userID &&
			interaction.RecordID == recordID &&
			interaction.Type == domain.InteractionBookmark {
			// Toggle off
			s.interactions = append(s.interactions[:i], s.interactions[i+1:]...)
			if record, ok := s.records[recordID]; ok && record.BookmarkCount > 0 {
				record.BookmarkCount--
			}
			return false, nil
		}
	}

	// Toggle on
	s.interactions = append(s.interactions, &domain.Interaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		RecordID:  recordID,
		Type:      domain.InteractionBookmark,
		CreatedAt: time.Now(),
	})
	if record, ok := s.records[recordID]; ok {
		record.BookmarkCount++
	}
	return true, nil
}

// ─────────────────────────────────────────────────────────────────
// Recommendations
// ─────────────────────────────────────────────────────────────────

func (s *Store) InsertRecommendations(_ context.Context, batch []*domain.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailInserts {
		return fmt.Errorf("%w: insert recommendations: injected failure", domain.ErrStoreUnavailable)
	}
	for _, rec := range batch {
		s.recommendations[rec.ID] = rec
	}
	return nil
}

func (s *Store) QueryRecommendations(_ context.Context, userID string, limit int) ([]*domain.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	out := make([]*domain.Recommendation, 0)
	for _, rec := range s.recommendations {
		if rec.UserID != userID || rec.Dismissed || !rec.Fresh(now) {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		// Same batch: keep the merge's tie order
		return out[i].Rank < out[j].Rank
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) UpdateRecommendationFlag(_ context.Context, id string, flag store.RecommendationFlag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recommendations[id]
	if !ok {
		return fmt.Errorf("%w: recommendation %s", domain.ErrNotFound, id)
	}
	switch flag {
	case store.FlagClicked:
		rec.Clicked = true
	case store.FlagDismissed:
		rec.Dismissed = true
	default:
		return fmt.Errorf("%w: unknown recommendation flag %q", domain.ErrInvalidInput, flag)
	}
	return nil
}

func (s *Store) QueryDismissedRecordIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, rec := range s.recommendations {
		if rec.UserID != userID || !rec.Dismissed || !rec.Fresh(now) {
			continue
		}
		if !seen[rec.RecordID] {
			seen[rec.RecordID] = true
			out = append(out, rec.RecordID)
		}
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────
// Preferences & health
// ─────────────────────────────────────────────────────────────────

func (s *Store) GetPreferences(_ context.Context, userID string) (*domain.UserPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if prefs, ok := s.preferences[userID]; ok {
		return prefs, nil
	}
	return domain.DefaultPreferences(userID), nil
}

func (s *Store) SavePreferences(_ context.Context, prefs *domain.UserPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs.UpdatedAt = time.Now()
	s.preferences[prefs.UserID] = prefs
	return nil
}

// PurgeRecommendationsBefore deletes recommendation rows created before
// the cutoff. Mirrors the postgres retention pass.
func (s *Store) PurgeRecommendationsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for id, rec := range s.recommendations {
		if rec.CreatedAt.Before(cutoff) {
			delete(s.recommendations, id)
			purged++
		}
	}
	return purged, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) CountRecords(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

func applyRecordFields(record *domain.NotebookRecord, fields map[string]interface{}) {
	for key, value := range fields {
		switch key {
		case "status":
			if v, ok := value.(domain.RecordStatus); ok {
				record.Status = v
			}
		case "view_count":
			if v, ok := value.(int64); ok {
				record.ViewCount = v
			}
		case "like_count":
			if v, ok := value.(int64); ok {
				record.LikeCount = v
			}
		case "share_count":
			if v, ok := value.(int64); ok {
				record.ShareCount = v
			}
		case "bookmark_count":
			if v, ok := value.(int64); ok {
				record.BookmarkCount = v
			}
		case "quality_score":
			if v, ok := value.(float64); ok {
				record.QualityScore = v
			}
		case "relevance_score":
			if v, ok := value.(float64); ok {
				record.RelevanceScore = v
			}
		case "efficiency":
			if v, ok := value.(domain.EfficiencyRating); ok {
				record.Efficiency = v
			}
		}
	}
}

func sortRecords(records []*domain.NotebookRecord, sortBy domain.SortKey) {
	switch sortBy {
	case domain.SortViewCount:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].ViewCount > records[j].ViewCount
		})
	case domain.SortRecency:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].PublishedAt.After(records[j].PublishedAt)
		})
	case domain.SortQuality:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].QualityScore > records[j].QualityScore
		})
	}
}
