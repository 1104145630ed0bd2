package domain

import "time"

// Category classifies a notebook record into a fixed topic set.
type Category string

const (
	CategoryMachineLearning Category = "machine_learning"
	CategoryDataScience     Category = "data_science"
	CategoryClimate         Category = "climate"
	CategoryNLP             Category = "nlp"
	CategoryComputerVision  Category = "computer_vision"
	CategoryBioinformatics  Category = "bioinformatics"
	CategoryOther           Category = "other"
)

// Platform identifies where a record was discovered.
type Platform string

const (
	PlatformGitHub         Platform = "github"
	PlatformKaggle         Platform = "kaggle"
	PlatformPapersWithCode Platform = "papers_with_code"
	PlatformAcademic       Platform = "academic"
	PlatformUserSubmitted  Platform = "user_submitted"
)

// ParseCategory maps raw onto the fixed category set. Unknown values
// are rejected; callers decide whether to fall back to CategoryOther.
func ParseCategory(raw string) (Category, bool) {
	switch c := Category(raw); c {
	case CategoryMachineLearning, CategoryDataScience, CategoryClimate,
		CategoryNLP, CategoryComputerVision, CategoryBioinformatics, CategoryOther:
		return c, true
	default:
		return "", false
	}
}

// ParsePlatform maps raw onto the fixed platform set.
func ParsePlatform(raw string) (Platform, bool) {
	switch p := Platform(raw); p {
	case PlatformGitHub, PlatformKaggle, PlatformPapersWithCode,
		PlatformAcademic, PlatformUserSubmitted:
		return p, true
	default:
		return "", false
	}
}

// RecordStatus tracks the lifecycle of a record.
// Records are never hard-deleted, only status-transitioned.
type RecordStatus string

const (
	StatusDiscovered RecordStatus = "discovered"
	StatusImported   RecordStatus = "imported"
	StatusArchived   RecordStatus = "archived"
)

// EfficiencyRating is an ordinal letter grade derived from the
// engagement-to-size ratio. It is never set directly; use RateEfficiency.
type EfficiencyRating string

const (
	RatingAPlus EfficiencyRating = "A+"
	RatingA     EfficiencyRating = "A"
	RatingB     EfficiencyRating = "B"
	RatingC     EfficiencyRating = "C"
	RatingD     EfficiencyRating = "D"
	RatingE     EfficiencyRating = "E"
	RatingF     EfficiencyRating = "F"
)

// NotebookRecord represents a discovered or user-submitted notebook entry.
//
// It is NOT tied to any source platform or storage backend.
// All inputs (seed files, submissions, engagement counters) are merged
// into this structure.
type NotebookRecord struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier (UUID string).
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	// ─────────────────────────────
	// Descriptive
	// ─────────────────────────────

	Title       string `gorm:"not null;index" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Author      string `json:"author"`

	// Institution is optional; empty when the author is unaffiliated.
	Institution string `json:"institution,omitempty"`

	Category Category `gorm:"type:varchar(32);index" json:"category"`

	// Tags is an unordered set of free-text labels.
	// Stored serialized; order carries no meaning.
	Tags StringSet `gorm:"type:text" json:"tags"`

	// ─────────────────────────────
	// Provenance & observation
	// ─────────────────────────────

	Platform  Platform `gorm:"type:varchar(32);index" json:"platform"`
	SourceURL string   `gorm:"uniqueIndex" json:"source_url"`

	// PublishedAt is when the record was published on its platform
	// (or discovered, when the platform exposes no publish date).
	PublishedAt time.Time `gorm:"index" json:"published_at"`

	// ─────────────────────────────
	// Scores (derived, recomputed on ingest and engagement events)
	// ─────────────────────────────

	// QualityScore is always clamped to [0,1].
	QualityScore float64 `gorm:"index" json:"quality_score"`

	// RelevanceScore is relative to the last scoring query; [0,1].
	RelevanceScore float64 `json:"relevance_score"`

	// SizeKB is the notebook size metric used for compute/carbon estimates.
	SizeKB float64 `json:"size_kb"`

	// ComputeHours is the estimated compute cost. Estimate, not a guarantee.
	ComputeHours float64 `json:"compute_hours"`

	// CarbonGrams is the estimated carbon footprint. Estimate, not a guarantee.
	CarbonGrams float64 `json:"carbon_grams"`

	// Efficiency is derived from the engagement/size ratio via RateEfficiency.
	Efficiency EfficiencyRating `gorm:"type:varchar(2)" json:"efficiency"`

	// ─────────────────────────────
	// Engagement (non-negative, monotone outside corrective resets)
	// ─────────────────────────────

	ViewCount     int64 `json:"view_count"`
	LikeCount     int64 `json:"like_count"`
	ShareCount    int64 `json:"share_count"`
	BookmarkCount int64 `json:"bookmark_count"`

	// ─────────────────────────────
	// Lifecycle
	// ─────────────────────────────

	Status    RecordStatus `gorm:"type:varchar(16);index;default:discovered" json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TableName keeps the table name explicit rather than relying on pluralization.
func (NotebookRecord) TableName() string { return "notebook_records" }

// EngagementTotal is the summed engagement signal used for quality scoring.
func (r *NotebookRecord) EngagementTotal() int64 {
	return r.ViewCount + r.LikeCount + r.ShareCount + r.BookmarkCount
}

// SearchText returns the concatenated text fields used for free-text matching.
func (r *NotebookRecord) SearchText() string {
	text := r.Title + " " + r.Description
	for _, tag := range r.Tags {
		text += " " + tag
	}
	return text
}
