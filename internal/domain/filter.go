package domain

import (
	"sort"
	"strings"
)

// SortKey selects an explicit ordering for filtered results.
// The zero value keeps the original relative order of the candidates.
type SortKey string

const (
	SortNone      SortKey = ""
	SortViewCount SortKey = "view_count" // descending
	SortRecency   SortKey = "recency"    // published_at descending
	SortQuality   SortKey = "quality"    // quality score descending
)

// Filter narrows a candidate set of records. Every field is optional;
// an unspecified field is a pass-through (open world default).
// A record passes iff ALL specified predicates match.
type Filter struct {
	// Query matches as a case-insensitive substring of title,
	// description or any tag.
	Query string

	Category Category
	Platform Platform

	// Quality score range; nil bound = unbounded.
	MinQuality *float64
	MaxQuality *float64

	// Compute hours range; nil bound = unbounded.
	MinComputeHours *float64
	MaxComputeHours *float64

	// Carbon ceiling in grams; nil = unbounded.
	MaxCarbonGrams *float64

	// Ratings restricts results to the given efficiency grades.
	// Empty = any grade.
	Ratings []EfficiencyRating
}

// Apply returns the records matching the filter. The filter is stable:
// original relative order is preserved unless sortBy requests otherwise.
// An empty candidate set or a query matching nothing yields an empty,
// non-error result.
func (f *Filter) Apply(records []*NotebookRecord, sortBy SortKey) []*NotebookRecord {
	out := make([]*NotebookRecord, 0, len(records))
	for _, record := range records {
		if f.Matches(record) {
			out = append(out, record)
		}
	}

	sortRecords(out, sortBy)
	return out
}

// Matches reports whether a single record passes every specified predicate.
func (f *Filter) Matches(record *NotebookRecord) bool {
	if record == nil {
		return false
	}

	if f.Query != "" && !matchesQuery(record, f.Query) {
		return false
	}
	if f.Category != "" && record.Category != f.Category {
		return false
	}
	if f.Platform != "" && record.Platform != f.Platform {
		return false
	}
	if f.MinQuality != nil && record.QualityScore < *f.MinQuality {
		return false
	}
	if f.MaxQuality != nil && record.QualityScore > *f.MaxQuality {
		return false
	}
	if f.MinComputeHours != nil && record.ComputeHours < *f.MinComputeHours {
		return false
	}
	if f.MaxComputeHours != nil && record.ComputeHours > *f.MaxComputeHours {
		return false
	}
	if f.MaxCarbonGrams != nil && record.CarbonGrams > *f.MaxCarbonGrams {
		return false
	}
	if len(f.Ratings) > 0 && !containsRating(f.Ratings, record.Efficiency) {
		return false
	}

	return true
}

// matchesQuery checks the free-text predicate against title, description
// and tags.
func matchesQuery(record *NotebookRecord, query string) bool {
	query = strings.ToLower(query)

	if strings.Contains(strings.ToLower(record.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(record.Description), query) {
		return true
	}
	for _, tag := range record.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func containsRating(ratings []EfficiencyRating, rating EfficiencyRating) bool {
	for _, r := range ratings {
		if r == rating {
			return true
		}
	}
	return false
}

// sortRecords applies an explicit sort key in place. Stable, so records
// equal under the key keep their original relative order.
func sortRecords(records []*NotebookRecord, sortBy SortKey) {
	switch sortBy {
	case SortViewCount:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].ViewCount > records[j].ViewCount
		})
	case SortRecency:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].PublishedAt.After(records[j].PublishedAt)
		})
	case SortQuality:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].QualityScore > records[j].QualityScore
		})
	}
}
