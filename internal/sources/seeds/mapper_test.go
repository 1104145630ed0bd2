package seeds

import (
	"testing"

	"github.com/nbscout/nbscout/internal/domain"
)

func TestMapperMapRecords(t *testing.T) {
	config := &SeedConfig{
		Platforms: []PlatformSeeds{
			{
				Platform: "github",
				Notebooks: []SeedEntry{
					{
						Title:       "Climate Change Impact Assessment",
						URL:         "https://github.com/example/climate-impact",
						Description: "Regional temperature projections",
						Category:    "climate",
						Tags:        []string{"climate", "weather"},
						SizeKB:      420,
						Likes:       1100,
						Shares:      200,
					},
					{
						Title:  "Sentiment Analysis",
						URL:    "https://github.com/example/sentiment",
						SizeKB: 100,
					},
				},
			},
		},
	}

	mapper := NewMapper()
	records, err := mapper.MapRecords(config)
	if err != nil {
		t.Fatalf("MapRecords() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("MapRecords() returned %d records, want 2", len(records))
	}

	first := records[0]
	if first.Platform != domain.PlatformGitHub {
		t.Errorf("Platform = %v, want github", first.Platform)
	}
	if first.Category != domain.CategoryClimate {
		t.Errorf("Category = %v, want climate", first.Category)
	}
	// Engagement 1300 lands in the top quality tier
	if first.QualityScore != 1.0 {
		t.Errorf("QualityScore = %v, want 1.0", first.QualityScore)
	}
	if first.Efficiency == "" {
		t.Error("Efficiency rating was not derived on ingest")
	}
	if first.ID == "" {
		t.Error("Record ID was not assigned")
	}

	// Unknown category falls back to other
	if records[1].Category != domain.CategoryOther {
		t.Errorf("Category = %v, want other", records[1].Category)
	}
}

func TestMapperSkipsInvalidEntries(t *testing.T) {
	config := &SeedConfig{
		Platforms: []PlatformSeeds{
			{
				Platform: "unknown_platform",
				Notebooks: []SeedEntry{
					{Title: "Skipped", URL: "https://example.com/x"},
				},
			},
			{
				Platform: "kaggle",
				Notebooks: []SeedEntry{
					{Title: "No URL"},
					{Title: "Kept", URL: "https://kaggle.com/example/kept", SizeKB: 50},
				},
			},
		},
	}

	mapper := NewMapper()
	records, err := mapper.MapRecords(config)
	if err != nil {
		t.Fatalf("MapRecords() error = %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("MapRecords() returned %d records, want 1", len(records))
	}
	if records[0].Title != "Kept" {
		t.Errorf("Title = %v, want Kept", records[0].Title)
	}
}

func TestMapperAllInvalidIsError(t *testing.T) {
	config := &SeedConfig{
		Platforms: []PlatformSeeds{
			{Platform: "github", Notebooks: []SeedEntry{{Title: "No URL"}}},
		},
	}

	mapper := NewMapper()
	if _, err := mapper.MapRecords(config); err == nil {
		t.Error("MapRecords() with no valid entries should return error")
	}
}
