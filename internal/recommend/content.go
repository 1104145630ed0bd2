package recommend

import (
	"context"
	"fmt"

	"github.com/nbscout/nbscout/internal/domain"
)

const (
	// Content-based confidence shape
	ContentBaseConfidence = 0.5
	ContentQualityWeight  = 0.3
	ContentCategoryBonus  = 0.1
)

// ContentStrategy recommends records similar to what the user already
// saved, imported or rated highly. Inactive for users with no positive
// history.
type ContentStrategy struct{}

func (ContentStrategy) Name() string { return "content_based" }

func (ContentStrategy) Generate(_ context.Context, in *Input) ([]Candidate, error) {
	seeded := false
	for _, interaction := range in.History {
		if interaction.IsPositiveSignal() {
			seeded = true
			break
		}
	}
	if !seeded {
		return nil, nil
	}

	var out []Candidate
	for _, record := range in.Pool {
		if !eligible(in, record.ID) {
			continue
		}
		if record.QualityScore < in.Prefs.QualityThreshold {
			continue
		}
		if record.ComputeHours > in.Prefs.MaxComputeHours {
			continue
		}
		// An empty preferred set means no category preference
		if len(in.Prefs.PreferredCategories) > 0 &&
			!in.Prefs.PreferredCategories.Contains(string(record.Category)) {
			continue
		}

		confidence := ContentBaseConfidence + record.QualityScore*ContentQualityWeight
		if record.Category != "" {
			confidence += ContentCategoryBonus
		}

		out = append(out, Candidate{
			RecordID:   record.ID,
			Type:       domain.RecSimilarContent,
			Confidence: domain.ClampScore(confidence),
			Reasoning: fmt.Sprintf("Matches your saved notebooks with quality %.2f",
				record.QualityScore),
		})
	}

	return out, nil
}
