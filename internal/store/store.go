// Package store defines the record store contract consumed by the
// discovery and recommendation pipeline. Implementations live in
// subpackages (postgres for durable storage, rediscache for the hot path).
package store

import (
	"context"

	"github.com/nbscout/nbscout/internal/domain"
)

// RecordQuery narrows a record read. Zero value = all records.
type RecordQuery struct {
	Filter *domain.Filter
	SortBy domain.SortKey
	Limit  int
	Status domain.RecordStatus
}

// RecordStore is the storage contract for the pipeline.
//
// Implementations must translate connectivity failures into
// domain.ErrStoreUnavailable and missing rows into domain.ErrNotFound.
// The pipeline performs no retries; retry policy belongs to the
// implementation if anywhere.
type RecordStore interface {
	// Records
	QueryRecords(ctx context.Context, q RecordQuery) ([]*domain.NotebookRecord, error)
	GetRecord(ctx context.Context, id string) (*domain.NotebookRecord, error)
	InsertRecord(ctx context.Context, record *domain.NotebookRecord) (string, error)
	UpdateRecord(ctx context.Context, id string, fields map[string]interface{}) error
	UpsertRecords(ctx context.Context, records []*domain.NotebookRecord) error

	// IncrementEngagement applies counter deltas atomically, clamped at
	// zero. Fields use the record column names (view_count, like_count,
	// share_count, bookmark_count).
	IncrementEngagement(ctx context.Context, recordID string, deltas map[string]int64) error

	// Interactions
	QueryInteractions(ctx context.Context, userID string, limit int) ([]*domain.Interaction, error)
	QueryInteractionsByRecords(ctx context.Context, recordIDs []string) ([]*domain.Interaction, error)
	InsertInteraction(ctx context.Context, interaction *domain.Interaction) error

	// ToggleBookmark atomically flips the bookmark state for (user, record)
	// and returns the resulting state (true = bookmarked).
	ToggleBookmark(ctx context.Context, userID, recordID string) (bool, error)

	// Recommendations
	//
	// InsertRecommendations is best-effort from the generator's point of
	// view: the generator logs failures and still returns its batch.
	InsertRecommendations(ctx context.Context, batch []*domain.Recommendation) error
	QueryRecommendations(ctx context.Context, userID string, limit int) ([]*domain.Recommendation, error)
	UpdateRecommendationFlag(ctx context.Context, id string, flag RecommendationFlag) error

	// QueryDismissedRecordIDs lists record ids the user dismissed within
	// the freshness window, so regeneration never re-surfaces them.
	QueryDismissedRecordIDs(ctx context.Context, userID string) ([]string, error)

	// Preferences
	GetPreferences(ctx context.Context, userID string) (*domain.UserPreferences, error)
	SavePreferences(ctx context.Context, prefs *domain.UserPreferences) error

	// Health
	Ping(ctx context.Context) error
	CountRecords(ctx context.Context) (int64, error)
}

// RecommendationFlag selects which flag a conditional update sets.
type RecommendationFlag string

const (
	FlagClicked   RecommendationFlag = "clicked"
	FlagDismissed RecommendationFlag = "dismissed"
)
