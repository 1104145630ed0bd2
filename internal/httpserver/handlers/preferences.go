package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nbscout/nbscout/internal/domain"
	"github.com/nbscout/nbscout/internal/httpserver/deps"
	"github.com/nbscout/nbscout/internal/logger"
)

// GetPreferences returns the user's preferences, falling back to the
// defaults for users who never configured any.
func GetPreferences(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		prefs, err := d.Store.GetPreferences(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, prefs)
	}
}

// SavePreferences upserts the user's preferences.
func SavePreferences(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var prefs domain.UserPreferences
		if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
			writeError(w, fmt.Errorf("%w: malformed body", domain.ErrInvalidInput))
			return
		}
		prefs.UserID = userID

		if err := validatePreferences(&prefs); err != nil {
			writeError(w, err)
			return
		}

		if err := d.Store.SavePreferences(r.Context(), &prefs); err != nil {
			d.Logger.Error("preferences save failed", logger.Error(err))
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, &prefs)
	}
}

func validatePreferences(prefs *domain.UserPreferences) error {
	if prefs.QualityThreshold < 0 || prefs.QualityThreshold > 1 {
		return fmt.Errorf("%w: quality_threshold must be in [0,1]", domain.ErrInvalidInput)
	}
	if prefs.SustainabilityPriority < 0 || prefs.SustainabilityPriority > 1 {
		return fmt.Errorf("%w: sustainability_priority must be in [0,1]", domain.ErrInvalidInput)
	}
	if prefs.MaxComputeHours < 0 {
		return fmt.Errorf("%w: max_compute_hours must be >= 0", domain.ErrInvalidInput)
	}
	return nil
}
