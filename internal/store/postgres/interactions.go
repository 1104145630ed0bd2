package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nbscout/nbscout/internal/domain"
)

// QueryInteractions returns a user's interaction history, newest first.
func (s *Store) QueryInteractions(ctx context.Context, userID string, limit int) ([]*domain.Interaction, error) {
	tx := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var interactions []*domain.Interaction
	if err := tx.Find(&interactions).Error; err != nil {
		return nil, wrapStoreErr("query interactions", err)
	}
	return interactions, nil
}

// QueryInteractionsByRecords returns every interaction touching the given
// records, used by the collaborative strategy to find similar users.
func (s *Store) QueryInteractionsByRecords(ctx context.Context, recordIDs []string) ([]*domain.Interaction, error) {
	if len(recordIDs) == 0 {
		return []*domain.Interaction{}, nil
	}

	var interactions []*domain.Interaction
	err := s.db.WithContext(ctx).
		Where("record_id IN ?", recordIDs).
		Find(&interactions).Error
	if err != nil {
		return nil, wrapStoreErr("query interactions by records", err)
	}
	return interactions, nil
}

// InsertInteraction appends an interaction log entry.
// Bookmark interactions must go through ToggleBookmark instead.
func (s *Store) InsertInteraction(ctx context.Context, interaction *domain.Interaction) error {
	if interaction.ID == "" {
		interaction.ID = uuid.NewString()
	}
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(interaction).Error; err != nil {
		return wrapStoreErr("insert interaction", err)
	}
	return nil
}

// ToggleBookmark atomically flips the bookmark state for (user, record).
// Runs inside a transaction so concurrent toggles from multiple tabs or
// devices cannot produce duplicate active bookmarks or lost updates.
// Returns the resulting state: true when the bookmark is now active.
func (s *Store) ToggleBookmark(ctx context.Context, userID, recordID string) (bool, error) {
	var active bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Interaction
		err := tx.
			Where("user_id = ? AND record_id = ? AND type = ?",
				userID, recordID, domain.InteractionBookmark).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Toggle on
			bookmark := &domain.Interaction{
				ID:        uuid.NewString(),
				UserID:    userID,
				RecordID:  recordID,
				Type:      domain.InteractionBookmark,
				CreatedAt: time.Now(),
			}
			if createErr := tx.Create(bookmark).Error; createErr != nil {
				return createErr
			}
			if countErr := adjustBookmarkCount(tx, recordID, 1); countErr != nil {
				return countErr
			}
			active = true
			return nil

		case err != nil:
			return err

		default:
			// Toggle off: bookmark rows are the one deletable interaction type
			if delErr := tx.Delete(&existing).Error; delErr != nil {
				return delErr
			}
			if countErr := adjustBookmarkCount(tx, recordID, -1); countErr != nil {
				return countErr
			}
			active = false
			return nil
		}
	})
	if err != nil {
		return false, wrapStoreErr("toggle bookmark", err)
	}
	return active, nil
}

func adjustBookmarkCount(tx *gorm.DB, recordID string, delta int) error {
	return tx.Model(&domain.NotebookRecord{}).
		Where("id = ?", recordID).
		Update("bookmark_count", gorm.Expr("GREATEST(bookmark_count + ?, 0)", delta)).Error
}
