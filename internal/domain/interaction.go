package domain

import "time"

// InteractionType enumerates the logged user actions against a record.
type InteractionType string

const (
	InteractionView     InteractionType = "view"
	InteractionSave     InteractionType = "save"
	InteractionImport   InteractionType = "import"
	InteractionShare    InteractionType = "share"
	InteractionRate     InteractionType = "rate"
	InteractionBookmark InteractionType = "bookmark"
	InteractionComment  InteractionType = "comment"
)

// Interaction links a user to a record.
//
// All types are append-only log entries except bookmark, which is toggled:
// at most one active bookmark per (user, record) pair, removed on toggle-off.
type Interaction struct {
	ID       string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string          `gorm:"not null;index:idx_interactions_user" json:"user_id"`
	RecordID string          `gorm:"not null;index:idx_interactions_record" json:"record_id"`
	Type     InteractionType `gorm:"type:varchar(16);not null;index" json:"type"`

	// Value is optional; meaningful for rate interactions (0..1).
	Value float64 `json:"value,omitempty"`

	SessionID string    `json:"session_id,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Interaction) TableName() string { return "interactions" }

// IsPositiveSignal reports whether the interaction counts as a positive
// preference signal for recommendation seeding.
func (i *Interaction) IsPositiveSignal() bool {
	switch i.Type {
	case InteractionSave, InteractionImport:
		return true
	case InteractionRate:
		return i.Value > 0.7
	default:
		return false
	}
}
