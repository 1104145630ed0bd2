package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/nbscout/nbscout/internal/domain"
)

const (
	// TrendingWindowDays bounds how far back a record counts as trending
	TrendingWindowDays = 30

	// TrendingConfidence is fixed for every trending candidate
	TrendingConfidence = 0.7
)

// TrendingStrategy surfaces recently discovered records, newest first.
//
// TODO: replace recency with an interaction-rate-over-time measure once
// interaction timestamps are aggregated per record.
type TrendingStrategy struct{}

func (TrendingStrategy) Name() string { return "trending" }

func (TrendingStrategy) Generate(_ context.Context, in *Input) ([]Candidate, error) {
	cutoff := in.Now.AddDate(0, 0, -TrendingWindowDays)

	recent := make([]*domain.NotebookRecord, 0)
	for _, record := range in.Pool {
		if !eligible(in, record.ID) {
			continue
		}
		if record.CreatedAt.Before(cutoff) {
			continue
		}
		recent = append(recent, record)
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})

	out := make([]Candidate, 0, len(recent))
	for _, record := range recent {
		out = append(out, Candidate{
			RecordID:   record.ID,
			Type:       domain.RecTrending,
			Confidence: TrendingConfidence,
			Reasoning: fmt.Sprintf("Discovered %d days ago",
				int(in.Now.Sub(record.CreatedAt).Hours()/24)),
		})
	}

	return out, nil
}
