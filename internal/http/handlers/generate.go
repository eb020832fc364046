package handlers

import (
	"encoding/json"
	"net/http"

	"imageforge/internal/domain"
)

// Generate starts a text-to-image job and returns its initial snapshot.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var params domain.GenerationParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := params.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	params.Prompt = sanitizePrompt(params.Prompt)
	if params.NegativePrompt != "" {
		params.NegativePrompt = sanitizePrompt(params.NegativePrompt)
	}

	adapter, modelID := a.Registry.AdapterForMode(params.Mode)
	job, err := adapter.Generate(r.Context(), params)
	if err != nil {
		a.Logger.Error().Err(err).Str("mode", params.Mode).Str("model", modelID).Msg("generate: dispatch failed")
		a.error(w, http.StatusInternalServerError, "internal", "generation failed")
		return
	}

	a.Logger.Info().
		Str("job_id", job.JobID).
		Str("mode", params.Mode).
		Str("model", job.ModelID).
		Msg("generation started")
	a.json(w, http.StatusOK, job)
}

// Edit starts an image+mask edit job and returns its initial snapshot.
func (a *App) Edit(w http.ResponseWriter, r *http.Request) {
	var params domain.EditParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := params.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	params.Prompt = sanitizePrompt(params.Prompt)
	if params.NegativePrompt != "" {
		params.NegativePrompt = sanitizePrompt(params.NegativePrompt)
	}

	adapter, modelID := a.Registry.AdapterForMode(params.Mode)
	job, err := adapter.Edit(r.Context(), params)
	if err != nil {
		a.Logger.Error().Err(err).Str("mode", params.Mode).Str("model", modelID).Msg("edit: dispatch failed")
		a.error(w, http.StatusInternalServerError, "internal", "editing failed")
		return
	}

	a.Logger.Info().
		Str("job_id", job.JobID).
		Str("mode", params.Mode).
		Str("model", job.ModelID).
		Msg("editing started")
	a.json(w, http.StatusOK, job)
}
