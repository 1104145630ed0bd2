package domain

import "time"

// UserPreferences holds the per-user knobs consumed by the recommendation
// strategies. A missing row falls back to DefaultPreferences.
type UserPreferences struct {
	UserID string `gorm:"primaryKey" json:"user_id"`

	// QualityThreshold is the minimum quality score a recommended record
	// must reach for this user.
	QualityThreshold float64 `json:"quality_threshold"`

	// MaxComputeHours caps the estimated compute cost of recommended records.
	MaxComputeHours float64 `json:"max_compute_hours"`

	// SustainabilityPriority in [0,1]; the sustainable strategy activates
	// at 0.3 and above.
	SustainabilityPriority float64 `json:"sustainability_priority"`

	// PreferredCategories is optional; empty means no category preference.
	PreferredCategories StringSet `gorm:"type:text" json:"preferred_categories"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (UserPreferences) TableName() string { return "user_preferences" }

// DefaultPreferences returns the preferences applied when a user has
// never configured any.
func DefaultPreferences(userID string) *UserPreferences {
	return &UserPreferences{
		UserID:                 userID,
		QualityThreshold:       0.5,
		MaxComputeHours:        100,
		SustainabilityPriority: 0.5,
	}
}
