package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/nbscout/nbscout/internal/httpserver/deps"
	"github.com/nbscout/nbscout/internal/httpserver/handlers"
	"github.com/nbscout/nbscout/internal/httpserver/mw"
)

func init() { Register(registerRecommendations) }

func registerRecommendations(r chi.Router, d deps.Deps) {
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	api.Get("/api/recommendations", handlers.Recommendations(d))
	api.Post("/api/recommendations/generate", handlers.GenerateRecommendations(d))
	api.Post("/api/recommendations/{id}/clicked", handlers.RecommendationClicked(d))
	api.Post("/api/recommendations/{id}/dismissed", handlers.RecommendationDismissed(d))
	api.Get("/api/preferences", handlers.GetPreferences(d))
	api.Put("/api/preferences", handlers.SavePreferences(d))
}
