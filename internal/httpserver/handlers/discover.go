package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/nbscout/nbscout/internal/domain"
	"github.com/nbscout/nbscout/internal/httpserver/deps"
	"github.com/nbscout/nbscout/internal/logger"
)

type recordsResponse struct {
	Records []*domain.NotebookRecord `json:"records"`
	Count   int                      `json:"count"`
}

func Discover(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keywords := strings.TrimSpace(r.URL.Query().Get("keywords"))
		limit := queryInt(r, "limit", 0)

		d.Logger.Info("discover request",
			logger.String("keywords", keywords),
			logger.Int("limit", limit))

		records, err := d.Orchestrator.Discover(r.Context(), keywords, limit)
		if err != nil {
			d.Logger.Error("discover failed", logger.Error(err))
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, recordsResponse{Records: records, Count: len(records)})
	}
}

// queryInt parses an integer query parameter, falling back to def on
// absence or garbage.
func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
