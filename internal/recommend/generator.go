package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nbscout/nbscout/internal/domain"
	"github.com/nbscout/nbscout/internal/logger"
	"github.com/nbscout/nbscout/internal/store"
)

const (
	// DefaultHistoryDepth bounds how much interaction history seeds a pass
	DefaultHistoryDepth = 200

	// DefaultModelVersion tags batches when no version is configured
	DefaultModelVersion = "v1"

	// DefaultBatchLimit applies when the caller passes no limit
	DefaultBatchLimit = 20

	// MaxBatchLimit is the hard ceiling on a batch
	MaxBatchLimit = 100
)

func boundBatchLimit(limit int) int {
	if limit <= 0 {
		return DefaultBatchLimit
	}
	if limit > MaxBatchLimit {
		return MaxBatchLimit
	}
	return limit
}

// Generator runs every registered strategy, merges the candidates and
// persists the batch.
type Generator struct {
	store        store.RecordStore
	logger       logger.Logger
	strategies   []Strategy
	modelVersion string
}

// NewGenerator wires the four standard strategies in declaration order:
// content-based, sustainable, trending, collaborative. The order matters:
// it is the tie-break under equal confidence.
func NewGenerator(recordStore store.RecordStore, log logger.Logger, modelVersion string) *Generator {
	if modelVersion == "" {
		modelVersion = DefaultModelVersion
	}
	return &Generator{
		store:  recordStore,
		logger: log,
		strategies: []Strategy{
			ContentStrategy{},
			SustainableStrategy{},
			TrendingStrategy{},
			CollaborativeStrategy{},
		},
		modelVersion: modelVersion,
	}
}

// Generate produces a ranked, deduplicated recommendation batch for a
// user, persists it best-effort and returns it.
//
// Persistence failures are logged and swallowed: the caller still gets
// the batch. Recommendations favor availability over durability.
func (g *Generator) Generate(ctx context.Context, userID string, limit int) ([]*domain.Recommendation, error) {
	limit = boundBatchLimit(limit)

	input, err := g.buildInput(ctx, userID)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, strategy := range g.strategies {
		got, genErr := strategy.Generate(ctx, input)
		if genErr != nil {
			// One broken strategy must not starve the others
			g.logger.Warn("strategy failed, continuing without it",
				logger.String("strategy", strategy.Name()),
				logger.Error(genErr))
			continue
		}
		candidates = append(candidates, got...)
	}

	merged := mergeCandidates(candidates, limit)

	batch := make([]*domain.Recommendation, 0, len(merged))
	now := time.Now()
	for i, candidate := range merged {
		batch = append(batch, &domain.Recommendation{
			ID:           uuid.NewString(),
			UserID:       userID,
			RecordID:     candidate.RecordID,
			Type:         candidate.Type,
			Confidence:   candidate.Confidence,
			Reasoning:    candidate.Reasoning,
			Rank:         i,
			ModelVersion: g.modelVersion,
			CreatedAt:    now,
		})
	}

	if err := g.store.InsertRecommendations(ctx, batch); err != nil {
		g.logger.Warn("failed to persist recommendation batch, returning it anyway",
			logger.String("user_id", userID),
			logger.Int("count", len(batch)),
			logger.Error(err))
	}

	return batch, nil
}

// GetRecommendations is the read path: non-dismissed rows created within
// the freshness window, confidence descending.
func (g *Generator) GetRecommendations(ctx context.Context, userID string, limit int) ([]*domain.Recommendation, error) {
	return g.store.QueryRecommendations(ctx, userID, boundBatchLimit(limit))
}

// MarkClicked flags a recommendation as clicked.
func (g *Generator) MarkClicked(ctx context.Context, id string) error {
	return g.store.UpdateRecommendationFlag(ctx, id, store.FlagClicked)
}

// Dismiss flags a recommendation as dismissed; it will not be re-shown
// or re-generated within the freshness window.
func (g *Generator) Dismiss(ctx context.Context, id string) error {
	return g.store.UpdateRecommendationFlag(ctx, id, store.FlagDismissed)
}

// buildInput gathers everything the strategies need in one pass so each
// strategy stays a pure function over its input.
func (g *Generator) buildInput(ctx context.Context, userID string) (*Input, error) {
	prefs, err := g.store.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	history, err := g.store.QueryInteractions(ctx, userID, DefaultHistoryDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to load interaction history: %w", err)
	}

	interacted := make(map[string]bool, len(history))
	recordIDs := make([]string, 0, len(history))
	for _, interaction := range history {
		if !interacted[interaction.RecordID] {
			interacted[interaction.RecordID] = true
			recordIDs = append(recordIDs, interaction.RecordID)
		}
	}

	dismissed, err := g.store.QueryDismissedRecordIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dismissed records: %w", err)
	}
	excluded := make(map[string]bool, len(dismissed))
	for _, id := range dismissed {
		excluded[id] = true
	}

	pool, err := g.store.QueryRecords(ctx, store.RecordQuery{Status: domain.StatusDiscovered})
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}
	imported, err := g.store.QueryRecords(ctx, store.RecordQuery{Status: domain.StatusImported})
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}
	pool = append(pool, imported...)

	byID := make(map[string]*domain.NotebookRecord, len(pool))
	for _, record := range pool {
		byID[record.ID] = record
	}

	neighborHistory, err := g.loadNeighborHistory(ctx, userID, recordIDs)
	if err != nil {
		return nil, err
	}

	return &Input{
		Prefs:           prefs,
		History:         history,
		Interacted:      interacted,
		Excluded:        excluded,
		Pool:            pool,
		ByID:            byID,
		NeighborHistory: neighborHistory,
		UserID:          userID,
		Now:             time.Now(),
	}, nil
}

// loadNeighborHistory finds users who interacted with the same records as
// the target and loads their interaction logs for the collaborative
// strategy.
func (g *Generator) loadNeighborHistory(ctx context.Context, userID string, recordIDs []string) (map[string][]*domain.Interaction, error) {
	if len(recordIDs) == 0 {
		return nil, nil
	}

	coInteractions, err := g.store.QueryInteractionsByRecords(ctx, recordIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load co-interactions: %w", err)
	}

	neighbors := make(map[string]bool)
	for _, interaction := range coInteractions {
		if interaction.UserID != userID {
			neighbors[interaction.UserID] = true
		}
	}

	history := make(map[string][]*domain.Interaction, len(neighbors))
	for neighbor := range neighbors {
		interactions, err := g.store.QueryInteractions(ctx, neighbor, DefaultHistoryDepth)
		if err != nil {
			return nil, fmt.Errorf("failed to load neighbor history: %w", err)
		}
		history[neighbor] = interactions
	}
	return history, nil
}

// mergeCandidates concatenates strategy outputs, deduplicates by record
// id (first occurrence wins, which is strategy declaration order), sorts
// by confidence descending with a stable sort so equal-confidence ties
// keep declaration order, and truncates to limit.
func mergeCandidates(candidates []Candidate, limit int) []Candidate {
	seen := make(map[string]bool, len(candidates))
	merged := make([]Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if seen[candidate.RecordID] {
			continue
		}
		seen[candidate.RecordID] = true
		merged = append(merged, candidate)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Confidence > merged[j].Confidence
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
