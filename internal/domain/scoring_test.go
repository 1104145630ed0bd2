package domain

import (
	"errors"
	"math"
	"testing"
)

func TestQualityScore(t *testing.T) {
	tests := []struct {
		name       string
		engagement int64
		expected   float64
	}{
		{
			name:       "top tier above 1000",
			engagement: 1200,
			expected:   1.0,
		},
		{
			name:       "high tier above 500",
			engagement: 501,
			expected:   0.9,
		},
		{
			name:       "good tier above 100",
			engagement: 250,
			expected:   0.8,
		},
		{
			name:       "mid tier above 50",
			engagement: 51,
			expected:   0.7,
		},
		{
			name:       "low tier above 10",
			engagement: 11,
			expected:   0.6,
		},
		{
			name:       "base tier at boundary",
			engagement: 10,
			expected:   0.5,
		},
		{
			name:       "base tier at zero",
			engagement: 0,
			expected:   0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := QualityScore(tt.engagement)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if score != tt.expected {
				t.Errorf("Expected %f, got %f", tt.expected, score)
			}
		})
	}
}

func TestQualityScore_NegativeEngagement(t *testing.T) {
	_, err := QualityScore(-1)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestQualityScore_Monotonic(t *testing.T) {
	// Scores must never decrease as engagement grows
	prev := 0.0
	for engagement := int64(0); engagement <= 2000; engagement += 7 {
		score, err := QualityScore(engagement)
		if err != nil {
			t.Fatalf("Unexpected error at engagement=%d: %v", engagement, err)
		}
		if score < prev {
			t.Fatalf("Score decreased at engagement=%d: %f < %f", engagement, score, prev)
		}
		if score < 0 || score > 1 {
			t.Fatalf("Score out of [0,1] at engagement=%d: %f", engagement, score)
		}
		prev = score
	}
}

func TestRelevanceScore(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		text     string
		expected float64
	}{
		{
			name:     "all terms match case-insensitively",
			query:    "climate change",
			text:     "Climate Change Impact Assessment",
			expected: 1.0,
		},
		{
			name:     "partial match",
			query:    "climate policy",
			text:     "Climate Change Impact Assessment",
			expected: 0.5,
		},
		{
			name:     "no terms match",
			query:    "quantum robotics",
			text:     "Climate Change Impact Assessment",
			expected: 0.0,
		},
		{
			name:     "terms match as substrings",
			query:    "clim asse",
			text:     "Climate Change Impact Assessment",
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := RelevanceScore(tt.query, tt.text)
			if score != tt.expected {
				t.Errorf("Expected %f, got %f", tt.expected, score)
			}
		})
	}
}

func TestRateEfficiency(t *testing.T) {
	tests := []struct {
		name       string
		sizeKB     float64
		engagement int64
		expected   EfficiencyRating
	}{
		{
			name:       "a plus above ratio 10",
			sizeKB:     10,
			engagement: 500,
			expected:   RatingAPlus,
		},
		{
			name:       "a above ratio 5",
			sizeKB:     100,
			engagement: 600,
			expected:   RatingA,
		},
		{
			name:       "b above ratio 2",
			sizeKB:     100,
			engagement: 300,
			expected:   RatingB,
		},
		{
			name:       "c above ratio 1",
			sizeKB:     100,
			engagement: 150,
			expected:   RatingC,
		},
		{
			name:       "d above ratio 0.5",
			sizeKB:     100,
			engagement: 60,
			expected:   RatingD,
		},
		{
			name:       "e above ratio 0.1",
			sizeKB:     100,
			engagement: 20,
			expected:   RatingE,
		},
		{
			name:       "f at the bottom",
			sizeKB:     1000,
			engagement: 10,
			expected:   RatingF,
		},
		{
			name:       "size below one clamps to one",
			sizeKB:     0,
			engagement: 11,
			expected:   RatingAPlus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rating, err := RateEfficiency(tt.sizeKB, tt.engagement)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if rating != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, rating)
			}
		})
	}
}

func TestEstimatedComputeHours_Floor(t *testing.T) {
	// 100 KB -> 100/1000*2 = 0.2, below the 0.5 floor
	hours, err := EstimatedComputeHours(100)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if hours != 0.5 {
		t.Errorf("Expected floor 0.5, got %f", hours)
	}

	carbon, err := CarbonFootprint(100)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if carbon != 25 {
		t.Errorf("Expected 25g, got %f", carbon)
	}
}

func TestEstimatedComputeHours_Linear(t *testing.T) {
	hours, err := EstimatedComputeHours(2000)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if hours != 4 {
		t.Errorf("Expected 4 hours for 2000 KB, got %f", hours)
	}
}

func TestScoring_RejectsInvalidInputs(t *testing.T) {
	invalid := []float64{-1, math.NaN(), math.Inf(1)}

	for _, size := range invalid {
		if _, err := EstimatedComputeHours(size); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("EstimatedComputeHours(%f): expected ErrInvalidInput, got %v", size, err)
		}
		if _, err := CarbonFootprint(size); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("CarbonFootprint(%f): expected ErrInvalidInput, got %v", size, err)
		}
		if _, err := RateEfficiency(size, 10); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("RateEfficiency(%f): expected ErrInvalidInput, got %v", size, err)
		}
	}
}

func TestRescore(t *testing.T) {
	record := &NotebookRecord{
		SizeKB:    100,
		ViewCount: 900,
		LikeCount: 300,
	}

	if err := Rescore(record); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if record.QualityScore != 1.0 {
		t.Errorf("Expected quality 1.0 for engagement 1200, got %f", record.QualityScore)
	}
	if record.ComputeHours != 0.5 {
		t.Errorf("Expected compute floor 0.5, got %f", record.ComputeHours)
	}
	if record.CarbonGrams != 25 {
		t.Errorf("Expected 25g carbon, got %f", record.CarbonGrams)
	}
	if record.Efficiency != RatingAPlus {
		t.Errorf("Expected A+ for ratio 12, got %s", record.Efficiency)
	}
}
