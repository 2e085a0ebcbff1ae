package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"charforge-server/internal/domain"
)

type cleanupRequest struct {
	OlderThanDays int    `json:"older_than_days"`
	Status        string `json:"status"`
}

// DeleteJob removes a job record and its stored artifact.
func (a *App) DeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if err := a.Orch.Delete(r.Context(), jobID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("job deletion failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete job")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"deleted": jobID})
}

// Cleanup bulk-deletes terminal jobs matching the age and status filter.
func (a *App) Cleanup(w http.ResponseWriter, r *http.Request) {
	var req cleanupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	deleted, err := a.Orch.Cleanup(r.Context(), req.OlderThanDays, domain.JobStatus(req.Status))
	if err != nil {
		if errors.Is(err, domain.ErrCleanupPending) {
			a.error(w, http.StatusBadRequest, "bad_request", "pending jobs cannot be cleaned up")
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	a.json(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

// Stats reports job counts by status and provider plus cache counters.
func (a *App) Stats(w http.ResponseWriter, r *http.Request) {
	jobStats, err := a.Orch.Stats(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("stats aggregation failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to aggregate stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"jobs":         jobStats,
		"prompt_cache": a.Cache.Stats(),
	})
}
