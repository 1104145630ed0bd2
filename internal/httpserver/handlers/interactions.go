package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nbscout/nbscout/internal/domain"
	"github.com/nbscout/nbscout/internal/httpserver/deps"
	"github.com/nbscout/nbscout/internal/logger"
	"github.com/nbscout/nbscout/internal/store/rediscache"
)

type interactionRequest struct {
	UserID    string  `json:"user_id"`
	RecordID  string  `json:"record_id"`
	Type      string  `json:"type"`
	Value     float64 `json:"value,omitempty"`
	SessionID string  `json:"session_id,omitempty"`
}

type bookmarkResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

var knownInteractions = map[domain.InteractionType]bool{
	domain.InteractionView:     true,
	domain.InteractionSave:     true,
	domain.InteractionImport:   true,
	domain.InteractionShare:    true,
	domain.InteractionRate:     true,
	domain.InteractionBookmark: true,
	domain.InteractionComment:  true,
}

// LogInteraction appends a user interaction. Bookmark interactions are
// toggles, everything else is an append-only log entry.
func LogInteraction(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req interactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fmt.Errorf("%w: malformed body", domain.ErrInvalidInput))
			return
		}

		req.UserID = strings.TrimSpace(req.UserID)
		req.RecordID = strings.TrimSpace(req.RecordID)
		kind := domain.InteractionType(req.Type)

		if req.UserID == "" || req.RecordID == "" {
			writeError(w, fmt.Errorf("%w: user_id and record_id are required", domain.ErrInvalidInput))
			return
		}
		if !knownInteractions[kind] {
			writeError(w, fmt.Errorf("%w: unknown interaction type %q", domain.ErrInvalidInput, req.Type))
			return
		}

		if kind == domain.InteractionBookmark {
			bookmarked, err := d.Store.ToggleBookmark(r.Context(), req.UserID, req.RecordID)
			if err != nil {
				d.Logger.Error("bookmark toggle failed", logger.Error(err))
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, bookmarkResponse{Bookmarked: bookmarked})
			return
		}

		interaction := &domain.Interaction{
			ID:        uuid.NewString(),
			UserID:    req.UserID,
			RecordID:  req.RecordID,
			Type:      kind,
			Value:     req.Value,
			SessionID: req.SessionID,
			CreatedAt: time.Now(),
		}

		if err := d.Store.InsertInteraction(r.Context(), interaction); err != nil {
			d.Logger.Error("interaction insert failed", logger.Error(err))
			writeError(w, err)
			return
		}

		bumpEngagement(r.Context(), d, interaction)

		writeJSON(w, http.StatusCreated, interaction)
	}
}

// bumpEngagement reflects an interaction in the engagement counters.
// Counters are best effort; a failed bump never fails the request.
func bumpEngagement(ctx context.Context, d deps.Deps, interaction *domain.Interaction) {
	field := counterField(interaction)
	if field == "" {
		return
	}

	// Hot path goes through redis and is flushed by the scheduler;
	// without redis the counter lands directly in the store.
	if d.Cache != nil {
		if err := d.Cache.IncrEngagement(ctx, interaction.RecordID, field); err != nil {
			d.Logger.Warn("failed to bump hot counter",
				logger.String("record_id", interaction.RecordID),
				logger.Error(err))
		}
		return
	}

	if err := d.Store.IncrementEngagement(ctx, interaction.RecordID, map[string]int64{field: 1}); err != nil {
		d.Logger.Warn("failed to bump engagement counter",
			logger.String("record_id", interaction.RecordID),
			logger.Error(err))
	}
}

func counterField(interaction *domain.Interaction) string {
	switch interaction.Type {
	case domain.InteractionView:
		return rediscache.FieldViews
	case domain.InteractionShare:
		return rediscache.FieldShares
	case domain.InteractionRate:
		if interaction.Value > 0.7 {
			return rediscache.FieldLikes
		}
	}
	return ""
}
