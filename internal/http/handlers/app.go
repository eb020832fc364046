package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"imageforge/internal/infra"
	"imageforge/internal/jobstore"
	"imageforge/internal/registry"
)

// App is the dependency container for the HTTP handlers.
type App struct {
	Config   *infra.Config
	Logger   zerolog.Logger
	Store    *jobstore.Store
	Registry *registry.Registry
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, codeStr, message string) {
	a.json(w, code, map[string]string{"error": message, "code": codeStr})
}
