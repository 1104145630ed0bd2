package recommend

import (
	"context"
	"fmt"

	"github.com/nbscout/nbscout/internal/domain"
)

const (
	// Sustainability gating and confidence shape
	SustainabilityActivation  = 0.3
	SustainableBaseConfidence = 0.8
	SustainablePriorityWeight = 0.2

	// Eligibility thresholds for a record to count as sustainable
	SustainableMaxCarbonGrams = 200.0
	SustainableMinQuality     = 0.6
)

// SustainableStrategy proposes low-footprint alternatives. Active only
// when the user's sustainability priority preference reaches the
// activation threshold.
type SustainableStrategy struct{}

func (SustainableStrategy) Name() string { return "sustainable" }

func (SustainableStrategy) Generate(_ context.Context, in *Input) ([]Candidate, error) {
	priority := in.Prefs.SustainabilityPriority
	if priority < SustainabilityActivation {
		return nil, nil
	}

	confidence := domain.ClampScore(SustainableBaseConfidence + priority*SustainablePriorityWeight)

	var out []Candidate
	for _, record := range in.Pool {
		if !eligible(in, record.ID) {
			continue
		}
		if !sustainableRating(record.Efficiency) {
			continue
		}
		if record.CarbonGrams > SustainableMaxCarbonGrams {
			continue
		}
		if record.QualityScore < SustainableMinQuality {
			continue
		}

		out = append(out, Candidate{
			RecordID:   record.ID,
			Type:       domain.RecSustainableAlternative,
			Confidence: confidence,
			Reasoning: fmt.Sprintf("Efficiency grade %s with only %.0fg estimated carbon",
				record.Efficiency, record.CarbonGrams),
		})
	}

	return out, nil
}

func sustainableRating(rating domain.EfficiencyRating) bool {
	switch rating {
	case domain.RatingAPlus, domain.RatingA, domain.RatingB:
		return true
	default:
		return false
	}
}
