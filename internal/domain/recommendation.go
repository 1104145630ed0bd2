package domain

import "time"

// RecommendationType identifies the strategy that produced a recommendation.
type RecommendationType string

const (
	RecSimilarContent         RecommendationType = "similar_content"
	RecSustainableAlternative RecommendationType = "sustainable_alternative"
	RecTrending               RecommendationType = "trending"
	RecPersonalized           RecommendationType = "personalized"
)

// RecommendationFreshness is the window within which a generated
// recommendation is considered current. Older rows are excluded from
// reads but kept for analysis.
const RecommendationFreshness = 7 * 24 * time.Hour

// Recommendation is a generated, scored suggestion linking a user to a record.
//
// Clicked and Dismissed are independent flags, not mutually exclusive states:
// a user can click a recommendation and later dismiss it.
type Recommendation struct {
	ID       string             `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string             `gorm:"not null;index:idx_recs_user_created" json:"user_id"`
	RecordID string             `gorm:"not null;index" json:"record_id"`
	Type     RecommendationType `gorm:"type:varchar(32);not null" json:"type"`

	// Confidence is the strategy's self-assessed strength, clamped to [0,1].
	Confidence float64 `gorm:"index" json:"confidence"`

	// Reasoning is a human-readable explanation of why this record was picked.
	Reasoning string `gorm:"type:text" json:"reasoning"`

	// Rank is the position within the generation batch. Equal-confidence
	// rows read back in rank order, so the merge's tie-breaking survives
	// the round trip through storage.
	Rank int `gorm:"not null;default:0" json:"rank"`

	Clicked   bool `json:"clicked"`
	Dismissed bool `json:"dismissed"`

	// ModelVersion tags the generation batch that produced this row.
	ModelVersion string `gorm:"type:varchar(32)" json:"model_version"`

	CreatedAt time.Time `gorm:"index:idx_recs_user_created" json:"created_at"`
}

func (Recommendation) TableName() string { return "recommendations" }

// Fresh reports whether the recommendation is still inside the freshness
// window relative to now.
func (r *Recommendation) Fresh(now time.Time) bool {
	return now.Sub(r.CreatedAt) <= RecommendationFreshness
}
