package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nbscout/nbscout/internal/domain"
	"github.com/nbscout/nbscout/internal/httpserver/deps"
	"github.com/nbscout/nbscout/internal/logger"
	"github.com/nbscout/nbscout/internal/sources/seeds"
)

type submitRecordRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Platform    string   `json:"platform"`
	SourceURL   string   `json:"source_url"`
	SizeKB      float64  `json:"size_kb"`
	PublishedAt string   `json:"published_at"`
}

// SubmitRecord accepts a user submitted notebook record, scores it and
// stores it.
func SubmitRecord(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fmt.Errorf("%w: malformed body", domain.ErrInvalidInput))
			return
		}

		record, err := buildRecord(&req)
		if err != nil {
			writeError(w, err)
			return
		}

		if !d.SkipURLValidation {
			if err := seeds.ValidateSourceURL(record.SourceURL, d.URLCheckTimeout); err != nil {
				d.Logger.Info("rejected unreachable source url",
					logger.String("source_url", record.SourceURL),
					logger.Error(err))
				writeError(w, fmt.Errorf("%w: source url unreachable", domain.ErrInvalidInput))
				return
			}
		}

		id, err := d.Store.InsertRecord(r.Context(), record)
		if err != nil {
			d.Logger.Error("record insert failed", logger.Error(err))
			writeError(w, err)
			return
		}

		d.Logger.Info("record submitted",
			logger.String("record_id", id),
			logger.String("platform", string(record.Platform)))

		writeJSON(w, http.StatusCreated, record)
	}
}

// GetRecord returns a single record by id.
func GetRecord(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		record, err := d.Store.GetRecord(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, record)
	}
}

func buildRecord(req *submitRecordRequest) (*domain.NotebookRecord, error) {
	title := strings.TrimSpace(req.Title)
	sourceURL := strings.TrimSpace(req.SourceURL)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if sourceURL == "" {
		return nil, fmt.Errorf("%w: source_url is required", domain.ErrInvalidInput)
	}

	now := time.Now()
	publishedAt := now
	if req.PublishedAt != "" {
		t, err := time.Parse(time.RFC3339, req.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: published_at must be RFC3339", domain.ErrInvalidInput)
		}
		publishedAt = t
	}

	platform := domain.PlatformUserSubmitted
	if req.Platform != "" {
		p, ok := domain.ParsePlatform(req.Platform)
		if !ok {
			return nil, fmt.Errorf("%w: unknown platform %q", domain.ErrInvalidInput, req.Platform)
		}
		platform = p
	}

	category := domain.CategoryOther
	if req.Category != "" {
		c, ok := domain.ParseCategory(req.Category)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, req.Category)
		}
		category = c
	}

	record := &domain.NotebookRecord{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Category:    category,
		Tags:        domain.StringSet(req.Tags),
		Platform:    platform,
		SourceURL:   sourceURL,
		SizeKB:      req.SizeKB,
		PublishedAt: publishedAt,
		Status:      domain.StatusDiscovered,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := domain.Rescore(record); err != nil {
		return nil, err
	}
	return record, nil
}
