package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/nbscout/nbscout/internal/domain"
	"github.com/nbscout/nbscout/internal/logger"
	"github.com/nbscout/nbscout/internal/store/memstore"
)

func TestRecommendationGC_Collect(t *testing.T) {
	log := logger.New("error", false)
	st := memstore.New()

	// Add recommendation batches of varying ages
	now := time.Now()
	batch := []*domain.Recommendation{
		{
			ID:         "rec-fresh",
			UserID:     "user-1",
			RecordID:   "record-1",
			Type:       domain.RecTrending,
			Confidence: 0.7,
			CreatedAt:  now.Add(-24 * time.Hour), // 1 day old
		},
		{
			ID:         "rec-aging",
			UserID:     "user-1",
			RecordID:   "record-2",
			Type:       domain.RecTrending,
			Confidence: 0.7,
			CreatedAt:  now.Add(-6 * 24 * time.Hour), // 6 days old
		},
		{
			ID:         "rec-expired",
			UserID:     "user-1",
			RecordID:   "record-3",
			Type:       domain.RecTrending,
			Confidence: 0.7,
			CreatedAt:  now.Add(-10 * 24 * time.Hour), // 10 days old
		},
	}
	if err := st.InsertRecommendations(context.Background(), batch); err != nil {
		t.Fatalf("InsertRecommendations failed: %v", err)
	}

	// Create GC with a 7 day threshold
	gc := NewRecommendationGC(st, log, 24*time.Hour, 7*24*time.Hour)

	// Run collection
	if err := gc.Collect(context.Background()); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	// Check results
	remaining, err := st.QueryRecommendations(context.Background(), "user-1", 0)
	if err != nil {
		t.Fatalf("QueryRecommendations failed: %v", err)
	}

	// Should have 2 recommendations left (fresh + aging)
	if len(remaining) != 2 {
		t.Errorf("Expected 2 recommendations after GC, got %d", len(remaining))
	}

	for _, rec := range remaining {
		if rec.ID == "rec-expired" {
			t.Error("Expired recommendation was not purged")
		}
	}

	// A second pass with nothing expired should purge nothing
	if err := gc.Collect(context.Background()); err != nil {
		t.Fatalf("second Collect failed: %v", err)
	}
	remaining, err = st.QueryRecommendations(context.Background(), "user-1", 0)
	if err != nil {
		t.Fatalf("QueryRecommendations failed: %v", err)
	}
	if len(remaining) != 2 {
		t.Errorf("Expected 2 recommendations after second GC, got %d", len(remaining))
	}
}
