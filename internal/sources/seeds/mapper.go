package seeds

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/nbscout/nbscout/internal/domain"
)

// Mapper converts seed entries to domain.NotebookRecord entities.
type Mapper struct{}

// NewMapper creates a new mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapRecords converts a SeedConfig to domain records. Entries without a
// valid URL or with an unknown platform are skipped; derived scores are
// recomputed through the scoring engine so seeds can never set them
// directly.
func (m *Mapper) MapRecords(config *SeedConfig) ([]*domain.NotebookRecord, error) {
	var records []*domain.NotebookRecord
	now := time.Now()

	for _, group := range config.Platforms {
		platform, ok := parsePlatform(group.Platform)
		if !ok {
			continue
		}

		for _, entry := range group.Notebooks {
			if entry.Title == "" || entry.URL == "" {
				continue
			}
			parsed, err := url.Parse(entry.URL)
			if err != nil || parsed.Hostname() == "" {
				continue
			}

			record := &domain.NotebookRecord{
				ID:            uuid.NewString(),
				Title:         entry.Title,
				Description:   entry.Description,
				Author:        entry.Author,
				Institution:   entry.Institution,
				Category:      parseCategory(entry.Category),
				Tags:          domain.StringSet(entry.Tags),
				Platform:      platform,
				SourceURL:     entry.URL,
				PublishedAt:   parsePublished(entry.Published, now),
				SizeKB:        entry.SizeKB,
				ViewCount:     nonNegative(entry.Views),
				LikeCount:     nonNegative(entry.Likes),
				ShareCount:    nonNegative(entry.Shares),
				BookmarkCount: nonNegative(entry.Bookmarks),
				Status:        domain.StatusDiscovered,
				CreatedAt:     now,
				UpdatedAt:     now,
			}

			if err := domain.Rescore(record); err != nil {
				// A seed with broken numbers should not sink the batch
				continue
			}

			records = append(records, record)
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no valid notebook entries found in seed config")
	}

	return records, nil
}

func parsePlatform(raw string) (domain.Platform, bool) {
	return domain.ParsePlatform(raw)
}

// parseCategory is lenient: seed files from third parties may carry
// categories outside the fixed set, which land in CategoryOther.
func parseCategory(raw string) domain.Category {
	if c, ok := domain.ParseCategory(raw); ok {
		return c
	}
	return domain.CategoryOther
}

func parsePublished(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return fallback
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
