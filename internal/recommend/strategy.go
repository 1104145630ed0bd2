// Package recommend blends four independent recommendation strategies
// into a single ranked, deduplicated list. Each strategy implements the
// Strategy interface and is registered in declaration order; the merge
// and sort logic never needs to change when a strategy is added.
package recommend

import (
	"context"
	"time"

	"github.com/nbscout/nbscout/internal/domain"
)

// Candidate is a strategy's proposal before it becomes a stored
// Recommendation.
type Candidate struct {
	RecordID   string
	Type       domain.RecommendationType
	Confidence float64
	Reasoning  string
}

// Input is the shared, read-only material a generation pass hands to
// every strategy. Built once per call; strategies never touch the store.
type Input struct {
	Prefs *domain.UserPreferences

	// History is the user's interaction log, newest first.
	History []*domain.Interaction

	// Interacted indexes record ids the user has already touched.
	Interacted map[string]bool

	// Excluded indexes record ids dismissed within the freshness window.
	Excluded map[string]bool

	// Pool is the candidate record set (non-archived records).
	Pool []*domain.NotebookRecord

	// ByID indexes the pool.
	ByID map[string]*domain.NotebookRecord

	// NeighborHistory maps other users who touched the target user's
	// records to their own interaction logs. Consumed by the
	// collaborative strategy.
	NeighborHistory map[string][]*domain.Interaction

	// UserID identifies the target user.
	UserID string

	Now time.Time
}

// Strategy produces zero or more candidates with its own confidence
// scoring. Implementations must be pure over their Input.
type Strategy interface {
	Name() string
	Generate(ctx context.Context, in *Input) ([]Candidate, error)
}

// eligible applies the cross-strategy exclusions: already-interacted and
// dismissed-within-window records never come back.
func eligible(in *Input, recordID string) bool {
	return !in.Interacted[recordID] && !in.Excluded[recordID]
}
