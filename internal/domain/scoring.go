package domain

import (
	"fmt"
	"math"
	"strings"
)

const (
	// Quality score tiers by total engagement
	QualityTierTop  = 1.0 // engagement > 1000
	QualityTierHigh = 0.9 // engagement > 500
	QualityTierGood = 0.8 // engagement > 100
	QualityTierMid  = 0.7 // engagement > 50
	QualityTierLow  = 0.6 // engagement > 10
	QualityTierBase = 0.5 // everything else

	// Engagement band thresholds
	QualityBandTop  = 1000
	QualityBandHigh = 500
	QualityBandGood = 100
	QualityBandMid  = 50
	QualityBandLow  = 10

	// Compute estimate: hours per 1000 KB, with a fixed floor
	ComputeHoursPerMB = 2.0
	ComputeHoursFloor = 0.5

	// Carbon estimate: grams emitted per compute hour.
	// A placeholder conversion factor, not physically calibrated.
	CarbonGramsPerHour = 50.0
)

// QualityScore maps total engagement onto a fixed score tier.
// Monotonic non-decreasing in engagement, always in [0,1].
func QualityScore(engagement int64) (float64, error) {
	if engagement < 0 {
		return 0, fmt.Errorf("%w: negative engagement %d", ErrInvalidInput, engagement)
	}

	switch {
	case engagement > QualityBandTop:
		return QualityTierTop, nil
	case engagement > QualityBandHigh:
		return QualityTierHigh, nil
	case engagement > QualityBandGood:
		return QualityTierGood, nil
	case engagement > QualityBandMid:
		return QualityTierMid, nil
	case engagement > QualityBandLow:
		return QualityTierLow, nil
	default:
		return QualityTierBase, nil
	}
}

// RelevanceScore returns the fraction of query terms found as substrings
// of the text. Terms are whitespace-split and matched case-insensitively.
//
// An empty query is undefined; callers must guard before calling.
func RelevanceScore(query, text string) float64 {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0
	}

	lowered := strings.ToLower(text)

	matched := 0
	for _, term := range terms {
		if strings.Contains(lowered, term) {
			matched++
		}
	}

	return float64(matched) / float64(len(terms))
}

// RateEfficiency grades the engagement-to-size ratio on a fixed
// descending threshold ladder.
func RateEfficiency(sizeKB float64, engagement int64) (EfficiencyRating, error) {
	if err := validateSize(sizeKB); err != nil {
		return "", err
	}
	if engagement < 0 {
		return "", fmt.Errorf("%w: negative engagement %d", ErrInvalidInput, engagement)
	}

	ratio := float64(engagement) / math.Max(sizeKB, 1)

	switch {
	case ratio > 10:
		return RatingAPlus, nil
	case ratio > 5:
		return RatingA, nil
	case ratio > 2:
		return RatingB, nil
	case ratio > 1:
		return RatingC, nil
	case ratio > 0.5:
		return RatingD, nil
	case ratio > 0.1:
		return RatingE, nil
	default:
		return RatingF, nil
	}
}

// EstimatedComputeHours is a linear function of notebook size with a
// fixed floor. An illustrative estimate, not a calibrated model.
func EstimatedComputeHours(sizeKB float64) (float64, error) {
	if err := validateSize(sizeKB); err != nil {
		return 0, err
	}
	return math.Max(sizeKB/1000*ComputeHoursPerMB, ComputeHoursFloor), nil
}

// CarbonFootprint converts the compute estimate into grams using a fixed
// emission factor. Same caveat as EstimatedComputeHours: an estimate.
func CarbonFootprint(sizeKB float64) (float64, error) {
	hours, err := EstimatedComputeHours(sizeKB)
	if err != nil {
		return 0, err
	}
	return hours * CarbonGramsPerHour, nil
}

// ClampScore clamps a score to [0,1].
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Rescore recomputes all derived score fields of a record in place.
// Quality, compute, carbon and efficiency are derived, never set directly.
func Rescore(record *NotebookRecord) error {
	quality, err := QualityScore(record.EngagementTotal())
	if err != nil {
		return err
	}

	hours, err := EstimatedComputeHours(record.SizeKB)
	if err != nil {
		return err
	}

	carbon, err := CarbonFootprint(record.SizeKB)
	if err != nil {
		return err
	}

	rating, err := RateEfficiency(record.SizeKB, record.EngagementTotal())
	if err != nil {
		return err
	}

	record.QualityScore = ClampScore(quality)
	record.ComputeHours = hours
	record.CarbonGrams = carbon
	record.Efficiency = rating
	return nil
}

func validateSize(sizeKB float64) error {
	if math.IsNaN(sizeKB) || math.IsInf(sizeKB, 0) {
		return fmt.Errorf("%w: size is not a finite number", ErrInvalidInput)
	}
	if sizeKB < 0 {
		return fmt.Errorf("%w: negative size %f", ErrInvalidInput, sizeKB)
	}
	return nil
}
