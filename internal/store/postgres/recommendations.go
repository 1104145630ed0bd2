package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/nbscout/nbscout/internal/domain"
	"github.com/nbscout/nbscout/internal/store"
)

// InsertRecommendations stores a generated batch. The generator treats a
// failure here as non-fatal; this method only reports it.
func (s *Store) InsertRecommendations(ctx context.Context, batch []*domain.Recommendation) error {
	if len(batch) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&batch).Error; err != nil {
		return wrapStoreErr("insert recommendations", err)
	}
	return nil
}

// QueryRecommendations returns a user's non-dismissed recommendations
// created within the freshness window, highest confidence first.
// Dismissed and expired rows are excluded, never deleted.
func (s *Store) QueryRecommendations(ctx context.Context, userID string, limit int) ([]*domain.Recommendation, error) {
	cutoff := time.Now().Add(-domain.RecommendationFreshness)

	tx := s.db.WithContext(ctx).
		Where("user_id = ? AND dismissed = ? AND created_at > ?", userID, false, cutoff).
		Order("confidence DESC, created_at DESC, rank ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var recs []*domain.Recommendation
	if err := tx.Find(&recs).Error; err != nil {
		return nil, wrapStoreErr("query recommendations", err)
	}
	return recs, nil
}

// UpdateRecommendationFlag sets the clicked or dismissed flag on one row.
// A single conditional UPDATE, so concurrent clicks from multiple devices
// cannot lose each other's writes. Missing ids surface as ErrNotFound.
func (s *Store) UpdateRecommendationFlag(ctx context.Context, id string, flag store.RecommendationFlag) error {
	var column string
	switch flag {
	case store.FlagClicked:
		column = "clicked"
	case store.FlagDismissed:
		column = "dismissed"
	default:
		return fmt.Errorf("%w: unknown recommendation flag %q", domain.ErrInvalidInput, flag)
	}

	res := s.db.WithContext(ctx).
		Model(&domain.Recommendation{}).
		Where("id = ?", id).
		Update(column, true)
	if res.Error != nil {
		return wrapStoreErr("update recommendation flag", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: recommendation %s", domain.ErrNotFound, id)
	}
	return nil
}

// QueryDismissedRecordIDs lists the record ids behind recommendations the
// user dismissed within the freshness window.
func (s *Store) QueryDismissedRecordIDs(ctx context.Context, userID string) ([]string, error) {
	cutoff := time.Now().Add(-domain.RecommendationFreshness)

	var ids []string
	err := s.db.WithContext(ctx).
		Model(&domain.Recommendation{}).
		Where("user_id = ? AND dismissed = ? AND created_at > ?", userID, true, cutoff).
		Distinct().
		Pluck("record_id", &ids).Error
	if err != nil {
		return nil, wrapStoreErr("query dismissed record ids", err)
	}
	return ids, nil
}

// PurgeRecommendationsBefore deletes recommendation rows created before
// the cutoff. Used only by the scheduler's retention pass, far outside
// the freshness window.
func (s *Store) PurgeRecommendationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.Recommendation{})
	if res.Error != nil {
		return 0, wrapStoreErr("purge recommendations", res.Error)
	}
	return res.RowsAffected, nil
}
