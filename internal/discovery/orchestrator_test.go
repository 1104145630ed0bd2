package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbscout/nbscout/internal/domain"
	"github.com/nbscout/nbscout/internal/logger"
	"github.com/nbscout/nbscout/internal/store/memstore"
)

func seedStore(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New()
	ctx := context.Background()

	records := []*domain.NotebookRecord{
		{
			Title:       "Climate Change Impact Assessment",
			Category:    domain.CategoryClimate,
			Platform:    domain.PlatformGitHub,
			SourceURL:   "https://example.com/1",
			SizeKB:      100,
			ViewCount:   500,
			PublishedAt: time.Now().Add(-48 * time.Hour),
		},
		{
			Title:       "Sentiment Analysis Pipeline",
			Category:    domain.CategoryNLP,
			Platform:    domain.PlatformKaggle,
			SourceURL:   "https://example.com/2",
			SizeKB:      200,
			ViewCount:   1200,
			PublishedAt: time.Now().Add(-24 * time.Hour),
		},
		{
			Title:       "Ocean Current Modelling",
			Description: "Climate simulation notebook",
			Category:    domain.CategoryClimate,
			Platform:    domain.PlatformAcademic,
			SourceURL:   "https://example.com/3",
			SizeKB:      300,
			ViewCount:   90,
			PublishedAt: time.Now().Add(-72 * time.Hour),
		},
	}
	for _, record := range records {
		require.NoError(t, domain.Rescore(record))
		_, err := s.InsertRecord(ctx, record)
		require.NoError(t, err)
	}
	return s
}

func TestDiscover_EmptyKeywordsRecencyOrdered(t *testing.T) {
	o := New(seedStore(t), nil, logger.New("error", false))

	got, err := o.Discover(context.Background(), "", 10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i := 1; i < len(got); i++ {
		assert.True(t, !got[i-1].PublishedAt.Before(got[i].PublishedAt),
			"discover must order by recency")
	}
}

func TestDiscover_KeywordsFilterAcrossFields(t *testing.T) {
	o := New(seedStore(t), nil, logger.New("error", false))

	got, err := o.Discover(context.Background(), "climate", 10)
	require.NoError(t, err)
	require.Len(t, got, 2, "title and description matches expected")
}

func TestDiscover_BoundsLimit(t *testing.T) {
	o := New(seedStore(t), nil, logger.New("error", false))

	got, err := o.Discover(context.Background(), "", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// Zero limit falls back to the default, not unbounded
	got, err = o.Discover(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSearch_DefaultSortIsViewCount(t *testing.T) {
	o := New(seedStore(t), nil, logger.New("error", false))

	got, err := o.Search(context.Background(), "", nil, domain.SortNone, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(1200), got[0].ViewCount)
	assert.Equal(t, int64(500), got[1].ViewCount)
}

func TestSearch_FilterAndEmptyResult(t *testing.T) {
	o := New(seedStore(t), nil, logger.New("error", false))

	filter := &domain.Filter{Platform: domain.PlatformKaggle}
	got, err := o.Search(context.Background(), "", filter, domain.SortNone, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.CategoryNLP, got[0].Category)

	// No matches is a valid empty result, not an error
	got, err = o.Search(context.Background(), "astrophysics", nil, domain.SortNone, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_StampsRelevance(t *testing.T) {
	o := New(seedStore(t), nil, logger.New("error", false))

	got, err := o.Search(context.Background(), "climate change", nil, domain.SortNone, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].RelevanceScore)

	// No query, no relevance: results keep the zero value
	got, err = o.Search(context.Background(), "", nil, domain.SortNone, 10)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, record := range got {
		assert.Zero(t, record.RelevanceScore)
	}
}
