package recommend

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbscout/nbscout/internal/domain"
	"github.com/nbscout/nbscout/internal/logger"
	"github.com/nbscout/nbscout/internal/store/memstore"
)

func testLogger() logger.Logger {
	return logger.New("error", false)
}

func seedRecord(t *testing.T, s *memstore.Store, record *domain.NotebookRecord) string {
	t.Helper()
	require.NoError(t, domain.Rescore(record))
	id, err := s.InsertRecord(context.Background(), record)
	require.NoError(t, err)
	return id
}

func seedInteraction(t *testing.T, s *memstore.Store, userID, recordID string, typ domain.InteractionType, value float64) {
	t.Helper()
	err := s.InsertInteraction(context.Background(), &domain.Interaction{
		UserID:    userID,
		RecordID:  recordID,
		Type:      typ,
		Value:     value,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func TestGenerate_SortedByConfidenceWithStableTies(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	// High-quality record: eligible for content (0.5+0.3+0.1=0.9 clamp)
	// and sustainable strategies
	seedRecord(t, s, &domain.NotebookRecord{
		Title:     "Efficient Transformers",
		Category:  domain.CategoryNLP,
		SourceURL: "https://example.com/a",
		SizeKB:    100,
		ViewCount: 1200,
		CreatedAt: time.Now(),
	})
	// Recent low-engagement record: trending only
	seedRecord(t, s, &domain.NotebookRecord{
		Title:     "Fresh Notebook",
		Category:  domain.CategoryDataScience,
		SourceURL: "https://example.com/b",
		SizeKB:    5000,
		CreatedAt: time.Now().Add(-time.Hour),
	})
	// Seed positive history on a third record so content strategy activates
	seedID := seedRecord(t, s, &domain.NotebookRecord{
		Title:     "Seed Notebook",
		Category:  domain.CategoryNLP,
		SourceURL: "https://example.com/seed",
		SizeKB:    100,
		ViewCount: 600,
		CreatedAt: time.Now(),
	})
	seedInteraction(t, s, "alice", seedID, domain.InteractionSave, 0)

	g := NewGenerator(s, testLogger(), "test-model")
	batch, err := g.Generate(ctx, "alice", 10)
	require.NoError(t, err)
	require.NotEmpty(t, batch)

	for i := 1; i < len(batch); i++ {
		assert.GreaterOrEqual(t, batch[i-1].Confidence, batch[i].Confidence,
			"batch must be sorted by confidence descending")
	}
	for _, rec := range batch {
		assert.Equal(t, "test-model", rec.ModelVersion)
		assert.NotEqual(t, seedID, rec.RecordID, "interacted records never come back")
	}
}

func TestGenerate_DeduplicatesAcrossStrategies(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	// One record eligible for content, sustainable and trending at once
	seedRecord(t, s, &domain.NotebookRecord{
		Title:     "Green ML",
		Category:  domain.CategoryMachineLearning,
		SourceURL: "https://example.com/green",
		SizeKB:    50,
		LikeCount: 700,
		CreatedAt: time.Now(),
	})
	seedID := seedRecord(t, s, &domain.NotebookRecord{
		Title:     "History Seed",
		SourceURL: "https://example.com/h",
		SizeKB:    100,
		CreatedAt: time.Now().Add(-60 * 24 * time.Hour),
	})
	seedInteraction(t, s, "bob", seedID, domain.InteractionImport, 0)

	g := NewGenerator(s, testLogger(), "")
	batch, err := g.Generate(ctx, "bob", 10)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, rec := range batch {
		seen[rec.RecordID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "record %s recommended more than once", id)
	}

	// First occurrence wins: the content strategy ran first, so the shared
	// record carries the similar_content type
	for _, rec := range batch {
		if rec.RecordID != seedID && rec.Type == domain.RecSimilarContent {
			return
		}
	}
	t.Error("expected the shared record to keep the content-based type")
}

func TestGenerate_NeverReturnsDismissedRecords(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	recordID := seedRecord(t, s, &domain.NotebookRecord{
		Title:     "Dismissed Once",
		SourceURL: "https://example.com/d",
		SizeKB:    100,
		ViewCount: 1500,
		CreatedAt: time.Now(),
	})

	g := NewGenerator(s, testLogger(), "")

	first, err := g.Generate(ctx, "carol", 10)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	var dismissedID string
	for _, rec := range first {
		if rec.RecordID == recordID {
			dismissedID = rec.ID
		}
	}
	require.NotEmpty(t, dismissedID, "expected the record in the first batch")
	require.NoError(t, g.Dismiss(ctx, dismissedID))

	// Regeneration within the freshness window must exclude it
	second, err := g.Generate(ctx, "carol", 10)
	require.NoError(t, err)
	for _, rec := range second {
		assert.NotEqual(t, recordID, rec.RecordID, "dismissed record re-surfaced")
	}

	// And the read path must exclude it too
	stored, err := g.GetRecommendations(ctx, "carol", 50)
	require.NoError(t, err)
	for _, rec := range stored {
		assert.NotEqual(t, recordID, rec.RecordID)
	}
}

func TestGenerate_PersistFailureStillReturnsBatch(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	seedRecord(t, s, &domain.NotebookRecord{
		Title:     "Unstored",
		SourceURL: "https://example.com/u",
		SizeKB:    100,
		ViewCount: 1500,
		CreatedAt: time.Now(),
	})
	s.FailInserts = true

	g := NewGenerator(s, testLogger(), "")
	batch, err := g.Generate(ctx, "dave", 10)

	// Availability over durability: the batch comes back despite the
	// failed write
	require.NoError(t, err)
	assert.NotEmpty(t, batch)

	stored, err := g.GetRecommendations(ctx, "dave", 10)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestContentStrategy_PreferredCategoriesGate(t *testing.T) {
	in := &Input{
		Prefs: &domain.UserPreferences{
			UserID:              "dora",
			QualityThreshold:    0.5,
			MaxComputeHours:     100,
			PreferredCategories: domain.StringSet{"climate"},
		},
		History: []*domain.Interaction{
			{UserID: "dora", RecordID: "seed", Type: domain.InteractionSave},
		},
		Interacted: map[string]bool{"seed": true},
		Excluded:   map[string]bool{},
		Pool: []*domain.NotebookRecord{
			{ID: "r1", Category: domain.CategoryClimate, QualityScore: 0.8, ComputeHours: 1},
			{ID: "r2", Category: domain.CategoryNLP, QualityScore: 0.9, ComputeHours: 1},
		},
		Now: time.Now(),
	}

	got, err := ContentStrategy{}.Generate(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, got, 1, "only the preferred category must survive")
	assert.Equal(t, "r1", got[0].RecordID)

	// An empty preferred set is a pass-through
	in.Prefs.PreferredCategories = nil
	got, err = ContentStrategy{}.Generate(context.Background(), in)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSustainableStrategy_GatedOnPriority(t *testing.T) {
	in := &Input{
		Prefs: &domain.UserPreferences{
			UserID:                 "eve",
			SustainabilityPriority: 0.1,
		},
		Interacted: map[string]bool{},
		Excluded:   map[string]bool{},
		Pool: []*domain.NotebookRecord{
			{
				ID:           "r1",
				QualityScore: 0.9,
				Efficiency:   domain.RatingAPlus,
				CarbonGrams:  25,
			},
		},
		Now: time.Now(),
	}

	got, err := SustainableStrategy{}.Generate(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, got, "priority below 0.3 must disable the strategy")

	in.Prefs.SustainabilityPriority = 0.5
	got, err = SustainableStrategy{}.Generate(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.9, got[0].Confidence, 1e-9) // 0.8 + 0.5*0.2
}

func TestTrendingStrategy_WindowAndOrder(t *testing.T) {
	now := time.Now()
	in := &Input{
		Prefs:      domain.DefaultPreferences("frank"),
		Interacted: map[string]bool{},
		Excluded:   map[string]bool{},
		Pool: []*domain.NotebookRecord{
			{ID: "old", CreatedAt: now.Add(-40 * 24 * time.Hour)},
			{ID: "newer", CreatedAt: now.Add(-2 * 24 * time.Hour)},
			{ID: "newest", CreatedAt: now.Add(-1 * 24 * time.Hour)},
		},
		Now: now,
	}

	got, err := TrendingStrategy{}.Generate(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, got, 2, "records older than 30 days are not trending")
	assert.Equal(t, "newest", got[0].RecordID)
	assert.Equal(t, "newer", got[1].RecordID)
	for _, candidate := range got {
		assert.Equal(t, TrendingConfidence, candidate.Confidence)
	}
}

func TestCollaborativeStrategy_TopSimilarUsers(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	shared := seedRecord(t, s, &domain.NotebookRecord{
		Title: "Shared", SourceURL: "https://example.com/s", SizeKB: 100, CreatedAt: time.Now(),
	})
	// Old enough that the trending strategy cannot claim it first
	pick := seedRecord(t, s, &domain.NotebookRecord{
		Title: "Neighbor Pick", SourceURL: "https://example.com/p", SizeKB: 100,
		CreatedAt: time.Now().Add(-40 * 24 * time.Hour),
	})

	// grace and the target both touched the shared record; grace also
	// saved another one
	seedInteraction(t, s, "target", shared, domain.InteractionView, 0)
	seedInteraction(t, s, "grace", shared, domain.InteractionView, 0)
	seedInteraction(t, s, "grace", pick, domain.InteractionSave, 0)

	g := NewGenerator(s, testLogger(), "")
	batch, err := g.Generate(ctx, "target", 50)
	require.NoError(t, err)

	var found bool
	for _, rec := range batch {
		if rec.RecordID == pick && rec.Type == domain.RecPersonalized {
			found = true
			assert.Equal(t, CollaborativeConfidence, rec.Confidence)
		}
	}
	assert.True(t, found, "expected the similar user's saved record to be recommended")
}

func TestGenerate_ZeroLimitIsBounded(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	// More trending candidates than the default batch size
	for i := 0; i < DefaultBatchLimit+5; i++ {
		seedRecord(t, s, &domain.NotebookRecord{
			Title:     fmt.Sprintf("Trending Notebook %d", i),
			SourceURL: fmt.Sprintf("https://example.com/t%d", i),
			SizeKB:    100,
			ViewCount: 1500,
			CreatedAt: time.Now(),
		})
	}

	g := NewGenerator(s, testLogger(), "")
	batch, err := g.Generate(ctx, "grace", 0)
	require.NoError(t, err)
	assert.Len(t, batch, DefaultBatchLimit, "no limit must mean the default, not unbounded")
}
