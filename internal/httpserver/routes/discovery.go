package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/nbscout/nbscout/internal/httpserver/deps"
	"github.com/nbscout/nbscout/internal/httpserver/handlers"
	"github.com/nbscout/nbscout/internal/httpserver/mw"
)

func init() { Register(registerDiscovery) }

func registerDiscovery(r chi.Router, d deps.Deps) {
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	api.Get("/api/discover", handlers.Discover(d))
	api.Get("/api/search", handlers.Search(d))
}
