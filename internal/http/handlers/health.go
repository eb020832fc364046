package handlers

import "net/http"

// Health reports liveness and the current store size.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status": "ok",
		"jobs":   a.Store.Len(),
	})
}
