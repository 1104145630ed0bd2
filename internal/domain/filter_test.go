package domain

import (
	"testing"
	"time"
)

func testRecords() []*NotebookRecord {
	return []*NotebookRecord{
		{
			ID:           "r1",
			Title:        "Climate Change Impact Assessment",
			Description:  "Regional temperature projections",
			Category:     CategoryClimate,
			Platform:     PlatformGitHub,
			Tags:         StringSet{"climate", "weather"},
			QualityScore: 0.9,
			ViewCount:    500,
			PublishedAt:  time.Now().Add(-48 * time.Hour),
		},
		{
			ID:           "r2",
			Title:        "Sentiment Analysis Pipeline",
			Description:  "Transformer-based text classification",
			Category:     CategoryNLP,
			Platform:     PlatformKaggle,
			Tags:         StringSet{"nlp", "transformers"},
			QualityScore: 0.7,
			ViewCount:    1200,
			PublishedAt:  time.Now().Add(-24 * time.Hour),
		},
		{
			ID:           "r3",
			Title:        "Ocean Current Modelling",
			Description:  "Climate simulation on coarse grids",
			Category:     CategoryClimate,
			Platform:     PlatformAcademic,
			Tags:         StringSet{"oceanography"},
			QualityScore: 0.6,
			ViewCount:    90,
			PublishedAt:  time.Now().Add(-72 * time.Hour),
		},
		{
			ID:           "r4",
			Title:        "Protein Folding Notebook",
			Description:  "Structure prediction walkthrough",
			Category:     CategoryBioinformatics,
			Platform:     PlatformPapersWithCode,
			Tags:         StringSet{"proteins"},
			QualityScore: 0.8,
			ViewCount:    300,
			PublishedAt:  time.Now().Add(-12 * time.Hour),
		},
		{
			ID:           "r5",
			Title:        "Intro to Pandas",
			Description:  "Dataframe basics",
			Category:     CategoryDataScience,
			Platform:     PlatformGitHub,
			Tags:         StringSet{"pandas", "tutorial"},
			QualityScore: 0.5,
			ViewCount:    2000,
			PublishedAt:  time.Now().Add(-96 * time.Hour),
		},
	}
}

func TestFilter_CategoryPreservesOrder(t *testing.T) {
	records := testRecords()

	f := &Filter{Category: CategoryClimate}
	got := f.Apply(records, SortNone)

	if len(got) != 2 {
		t.Fatalf("Expected 2 climate records, got %d", len(got))
	}
	if got[0].ID != "r1" || got[1].ID != "r3" {
		t.Errorf("Expected original relative order [r1 r3], got [%s %s]", got[0].ID, got[1].ID)
	}
}

func TestFilter_FreeTextMatchesTitleDescriptionTags(t *testing.T) {
	records := testRecords()

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{
			name:     "title match case-insensitive",
			query:    "climate",
			expected: []string{"r1", "r3"},
		},
		{
			name:     "description match",
			query:    "dataframe",
			expected: []string{"r5"},
		},
		{
			name:     "tag match",
			query:    "transformers",
			expected: []string{"r2"},
		},
		{
			name:     "no match is empty not error",
			query:    "astrophysics",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Filter{Query: tt.query}
			got := f.Apply(records, SortNone)

			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d results, got %d", len(tt.expected), len(got))
			}
			for i, id := range tt.expected {
				if got[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestFilter_AllPredicatesMustMatch(t *testing.T) {
	records := testRecords()

	minQuality := 0.8
	f := &Filter{
		Category:   CategoryClimate,
		MinQuality: &minQuality,
	}
	got := f.Apply(records, SortNone)

	if len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("Expected only r1, got %d results", len(got))
	}
}

func TestFilter_Idempotent(t *testing.T) {
	records := testRecords()

	f := &Filter{Query: "climate", Category: CategoryClimate}
	once := f.Apply(records, SortNone)
	twice := f.Apply(once, SortNone)

	if len(once) != len(twice) {
		t.Fatalf("Filter not idempotent: %d vs %d results", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("Position %d differs after refiltering: %s vs %s", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestFilter_EmptyCandidateSet(t *testing.T) {
	f := &Filter{Query: "anything"}
	got := f.Apply(nil, SortNone)

	if len(got) != 0 {
		t.Errorf("Expected empty result for empty candidates, got %d", len(got))
	}
}

func TestFilter_SortOverrides(t *testing.T) {
	records := testRecords()

	f := &Filter{}
	got := f.Apply(records, SortViewCount)

	if got[0].ID != "r5" || got[1].ID != "r2" {
		t.Errorf("Expected view-count descending [r5 r2 ...], got [%s %s ...]", got[0].ID, got[1].ID)
	}

	got = f.Apply(records, SortRecency)
	if got[0].ID != "r4" {
		t.Errorf("Expected most recent r4 first, got %s", got[0].ID)
	}
}

func TestFilter_RatingSet(t *testing.T) {
	records := testRecords()
	records[0].Efficiency = RatingAPlus
	records[1].Efficiency = RatingF
	records[2].Efficiency = RatingB

	f := &Filter{Ratings: []EfficiencyRating{RatingAPlus, RatingA, RatingB}}
	got := f.Apply(records[:3], SortNone)

	if len(got) != 2 {
		t.Fatalf("Expected 2 efficient records, got %d", len(got))
	}
}
