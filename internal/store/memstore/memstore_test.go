package memstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbscout/nbscout/internal/domain"
)

func TestQueryRecommendations_EqualConfidenceReadsInRankOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	created := time.Now()
	batch := make([]*domain.Recommendation, 0, 5)
	for i := 0; i < 5; i++ {
		batch = append(batch, &domain.Recommendation{
			ID:         fmt.Sprintf("rec-%d", i),
			UserID:     "frank",
			RecordID:   fmt.Sprintf("record-%d", i),
			Type:       domain.RecTrending,
			Confidence: 0.7,
			Rank:       i,
			CreatedAt:  created,
		})
	}
	require.NoError(t, s.InsertRecommendations(ctx, batch))

	// Map iteration order is random; repeat to catch a flaky comparator
	for attempt := 0; attempt < 10; attempt++ {
		got, err := s.QueryRecommendations(ctx, "frank", 0)
		require.NoError(t, err)
		require.Len(t, got, 5)
		for i, rec := range got {
			assert.Equal(t, i, rec.Rank, "rank must break equal-confidence ties")
		}
	}
}
