package handlers

import (
	"encoding/json"
	"net/http"

	"charforge-server/internal/catalog"
	"charforge-server/internal/engine"
	"charforge-server/internal/infra"
	"charforge-server/internal/orchestrator"
	"charforge-server/internal/promptcache"
)

// App is the handler container holding the request-facing collaborators.
type App struct {
	Catalog   *catalog.Store
	Validator *engine.Validator
	Orch      *orchestrator.Orchestrator
	Cache     promptcache.Cache
	Logger    infra.Logger
}

func NewApp(cat *catalog.Store, validator *engine.Validator, orch *orchestrator.Orchestrator, cache promptcache.Cache, logger infra.Logger) *App {
	return &App{
		Catalog:   cat,
		Validator: validator,
		Orch:      orch,
		Cache:     cache,
		Logger:    logger,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{"error": code, "message": message})
}
