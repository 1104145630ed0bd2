package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbscout/nbscout/internal/discovery"
	"github.com/nbscout/nbscout/internal/domain"
	"github.com/nbscout/nbscout/internal/logger"
	"github.com/nbscout/nbscout/internal/recommend"
	"github.com/nbscout/nbscout/internal/store/memstore"
)

func seedCatalog(t *testing.T, s *memstore.Store) map[string]string {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	records := []*domain.NotebookRecord{
		{
			Title:       "Climate Policy Analysis",
			Description: "Notebook analyzing climate policy impact",
			Category:    domain.CategoryClimate,
			Tags:        domain.StringSet{"climate", "policy"},
			Platform:    domain.PlatformKaggle,
			SourceURL:   "https://example.com/climate",
			SizeKB:      100,
			ViewCount:   1200,
			PublishedAt: now.Add(-48 * time.Hour),
			CreatedAt:   now.Add(-48 * time.Hour),
		},
		{
			Title:       "Transformer Fine-Tuning Guide",
			Description: "Efficient fine-tuning for small GPUs",
			Category:    domain.CategoryNLP,
			Tags:        domain.StringSet{"transformers", "nlp"},
			Platform:    domain.PlatformGitHub,
			SourceURL:   "https://example.com/transformers",
			SizeKB:      200,
			ViewCount:   600,
			PublishedAt: now.Add(-24 * time.Hour),
			CreatedAt:   now.Add(-24 * time.Hour),
		},
		{
			Title:       "Protein Folding Primer",
			Description: "Heavy bioinformatics pipeline",
			Category:    domain.CategoryBioinformatics,
			Tags:        domain.StringSet{"proteins"},
			Platform:    domain.PlatformAcademic,
			SourceURL:   "https://example.com/proteins",
			SizeKB:      60000,
			ViewCount:   40,
			PublishedAt: now.Add(-12 * time.Hour),
			CreatedAt:   now.Add(-12 * time.Hour),
		},
	}

	ids := make(map[string]string, len(records))
	for _, record := range records {
		require.NoError(t, domain.Rescore(record))
		id, err := s.InsertRecord(ctx, record)
		require.NoError(t, err)
		ids[record.Title] = id
	}
	return ids
}

// TestDiscoveryPipeline walks the full flow: ingest, discover, search,
// interact, recommend, dismiss, regenerate.
func TestDiscoveryPipeline(t *testing.T) {
	ctx := context.Background()
	log := logger.New("error", false)
	s := memstore.New()
	ids := seedCatalog(t, s)

	orchestrator := discovery.New(s, nil, log)
	generator := recommend.NewGenerator(s, log, "test-model")

	// Discover: default sort is recency, newest published first
	records, err := orchestrator.Discover(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Protein Folding Primer", records[0].Title)

	// Discover with keywords narrows across title, description and tags
	records, err = orchestrator.Discover(ctx, "climate", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Climate Policy Analysis", records[0].Title)

	// Search: default sort is view count descending
	records, err = orchestrator.Search(ctx, "", nil, domain.SortNone, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Climate Policy Analysis", records[0].Title)

	// Search with a quality floor drops the low-engagement record
	minQuality := 0.8
	records, err = orchestrator.Search(ctx, "", &domain.Filter{MinQuality: &minQuality}, domain.SortNone, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Interactions: a save is a positive signal for recommendations
	require.NoError(t, s.InsertInteraction(ctx, &domain.Interaction{
		UserID:    "alice",
		RecordID:  ids["Climate Policy Analysis"],
		Type:      domain.InteractionSave,
		CreatedAt: time.Now(),
	}))

	// Bookmark toggle is idempotent per state
	bookmarked, err := s.ToggleBookmark(ctx, "alice", ids["Transformer Fine-Tuning Guide"])
	require.NoError(t, err)
	assert.True(t, bookmarked)
	bookmarked, err = s.ToggleBookmark(ctx, "alice", ids["Transformer Fine-Tuning Guide"])
	require.NoError(t, err)
	assert.False(t, bookmarked)

	// Generate: interacted records are never recommended back
	recs, err := generator.Generate(ctx, "alice", 10)
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	for _, rec := range recs {
		assert.NotEqual(t, ids["Climate Policy Analysis"], rec.RecordID)
		assert.Equal(t, "test-model", rec.ModelVersion)
	}

	// Batch is sorted by confidence descending
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Confidence, recs[i].Confidence)
	}

	// Persisted batch is readable back
	stored, err := generator.GetRecommendations(ctx, "alice", 10)
	require.NoError(t, err)
	assert.Len(t, stored, len(recs))

	// Dismiss one and regenerate: the dismissed record stays excluded
	dismissed := recs[0]
	require.NoError(t, generator.Dismiss(ctx, dismissed.ID))

	recs, err = generator.Generate(ctx, "alice", 10)
	require.NoError(t, err)
	for _, rec := range recs {
		assert.NotEqual(t, dismissed.RecordID, rec.RecordID,
			"dismissed record must not be re-surfaced")
	}

	stored, err = generator.GetRecommendations(ctx, "alice", 10)
	require.NoError(t, err)
	for _, rec := range stored {
		assert.False(t, rec.Dismissed)
	}
}

// TestPipelineDegradedPersistence verifies the batch still reaches the
// caller when recommendation writes fail.
func TestPipelineDegradedPersistence(t *testing.T) {
	ctx := context.Background()
	log := logger.New("error", false)
	s := memstore.New()
	seedCatalog(t, s)

	generator := recommend.NewGenerator(s, log, "test-model")

	s.FailInserts = true
	recs, err := generator.Generate(ctx, "bob", 10)
	require.NoError(t, err, "persistence failure must not fail generation")
	assert.NotEmpty(t, recs)

	s.FailInserts = false
	stored, err := generator.GetRecommendations(ctx, "bob", 10)
	require.NoError(t, err)
	assert.Empty(t, stored, "failed batch must not be partially persisted")
}
