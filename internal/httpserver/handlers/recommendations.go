package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nbscout/nbscout/internal/domain"
	"github.com/nbscout/nbscout/internal/httpserver/deps"
	"github.com/nbscout/nbscout/internal/logger"
)

type recommendationsResponse struct {
	Recommendations []*domain.Recommendation `json:"recommendations"`
	Count           int                      `json:"count"`
}

// Recommendations returns the user's fresh, non-dismissed batch.
func Recommendations(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		limit := queryInt(r, "limit", 0)

		recs, err := d.Generator.GetRecommendations(r.Context(), userID, limit)
		if err != nil {
			d.Logger.Error("recommendations read failed", logger.Error(err))
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, recommendationsResponse{Recommendations: recs, Count: len(recs)})
	}
}

// GenerateRecommendations runs all strategies and returns the merged batch.
func GenerateRecommendations(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		limit := queryInt(r, "limit", 0)

		d.Logger.Info("generating recommendations",
			logger.String("user_id", userID),
			logger.Int("limit", limit))

		recs, err := d.Generator.Generate(r.Context(), userID, limit)
		if err != nil {
			d.Logger.Error("recommendation generation failed", logger.Error(err))
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, recommendationsResponse{Recommendations: recs, Count: len(recs)})
	}
}

// RecommendationClicked marks a recommendation as clicked.
func RecommendationClicked(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Generator.MarkClicked(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RecommendationDismissed marks a recommendation as dismissed; the
// record will not be re-surfaced while the dismissal is fresh.
func RecommendationDismissed(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Generator.Dismiss(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.URL.Query().Get("user"))
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user query parameter is required"})
		return "", false
	}
	return userID, true
}
