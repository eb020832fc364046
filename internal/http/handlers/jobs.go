package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// JobStatus returns the current snapshot of a job, 404 when unknown.
func (a *App) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid job ID")
		return
	}

	job, err := a.Store.Get(jobID)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "job not found")
		return
	}
	a.json(w, http.StatusOK, job)
}

// CancelJob best-effort cancels in-flight work via the owning adapter and
// removes the job from the store.
func (a *App) CancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid job ID")
		return
	}

	job, err := a.Store.Get(jobID)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "job not found")
		return
	}

	cancelled := false
	if adapter, ok := a.Registry.AdapterForModel(job.ModelID); ok {
		cancelled = adapter.Cancel(jobID)
	}
	a.Store.Delete(jobID)

	a.Logger.Info().Str("job_id", jobID).Bool("cancelled", cancelled).Msg("job removed")
	a.json(w, http.StatusOK, map[string]any{"message": "Job cancelled", "cancelled": cancelled})
}
