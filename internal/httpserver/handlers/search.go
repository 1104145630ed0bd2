package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/nbscout/nbscout/internal/domain"
	"github.com/nbscout/nbscout/internal/httpserver/deps"
	"github.com/nbscout/nbscout/internal/logger"
)

func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		limit := queryInt(r, "limit", 0)

		filter := &domain.Filter{
			Category:        domain.Category(r.URL.Query().Get("category")),
			Platform:        domain.Platform(r.URL.Query().Get("platform")),
			MinQuality:      queryFloat(r, "min_quality"),
			MaxQuality:      queryFloat(r, "max_quality"),
			MinComputeHours: queryFloat(r, "min_compute_hours"),
			MaxComputeHours: queryFloat(r, "max_compute_hours"),
			MaxCarbonGrams:  queryFloat(r, "max_carbon_grams"),
			Ratings:         queryRatings(r),
		}

		sortBy := parseSortKey(r.URL.Query().Get("sort"))

		d.Logger.Info("search request",
			logger.String("query", query),
			logger.String("sort", string(sortBy)),
			logger.Int("limit", limit))

		records, err := d.Orchestrator.Search(r.Context(), query, filter, sortBy, limit)
		if err != nil {
			d.Logger.Error("search failed", logger.Error(err))
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, recordsResponse{Records: records, Count: len(records)})
	}
}

func queryFloat(r *http.Request, key string) *float64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// queryRatings parses a comma separated list of efficiency grades,
// e.g. "A+,A,B". Unknown grades are dropped.
func queryRatings(r *http.Request) []domain.EfficiencyRating {
	raw := r.URL.Query().Get("ratings")
	if raw == "" {
		return nil
	}

	known := map[domain.EfficiencyRating]bool{
		domain.RatingAPlus: true,
		domain.RatingA:     true,
		domain.RatingB:     true,
		domain.RatingC:     true,
		domain.RatingD:     true,
		domain.RatingE:     true,
		domain.RatingF:     true,
	}

	var ratings []domain.EfficiencyRating
	for _, part := range strings.Split(raw, ",") {
		grade := domain.EfficiencyRating(strings.ToUpper(strings.TrimSpace(part)))
		if known[grade] {
			ratings = append(ratings, grade)
		}
	}
	return ratings
}

func parseSortKey(raw string) domain.SortKey {
	switch raw {
	case "views", "view_count":
		return domain.SortViewCount
	case "recency", "recent":
		return domain.SortRecency
	case "quality":
		return domain.SortQuality
	default:
		return domain.SortNone
	}
}
