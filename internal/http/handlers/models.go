package handlers

import "net/http"

// Models lists the registered model entries. Adapter instances never leave
// the registry; entries carry metadata only.
func (a *App) Models(w http.ResponseWriter, r *http.Request) {
	models := a.Registry.AvailableModels()
	a.json(w, http.StatusOK, map[string]any{
		"models": models,
		"count":  len(models),
	})
}
