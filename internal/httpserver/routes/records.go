package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/nbscout/nbscout/internal/httpserver/deps"
	"github.com/nbscout/nbscout/internal/httpserver/handlers"
	"github.com/nbscout/nbscout/internal/httpserver/mw"
)

func init() { Register(registerRecords) }

func registerRecords(r chi.Router, d deps.Deps) {
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	api.Post("/api/records", handlers.SubmitRecord(d))
	api.Get("/api/records/{id}", handlers.GetRecord(d))
	api.Post("/api/interactions", handlers.LogInteraction(d))
}
