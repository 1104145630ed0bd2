package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nbscout/nbscout/internal/domain"
)

// GetPreferences returns the user's preferences, falling back to defaults
// when the user never configured any.
func (s *Store) GetPreferences(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	var prefs domain.UserPreferences
	err := s.db.WithContext(ctx).First(&prefs, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DefaultPreferences(userID), nil
		}
		return nil, wrapStoreErr("get preferences", err)
	}
	return &prefs, nil
}

// SavePreferences upserts the user's preferences row.
func (s *Store) SavePreferences(ctx context.Context, prefs *domain.UserPreferences) error {
	prefs.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(prefs).Error; err != nil {
		return wrapStoreErr("save preferences", err)
	}
	return nil
}
