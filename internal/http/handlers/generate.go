package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"charforge-server/internal/domain"
	"charforge-server/internal/middleware"
)

type generateResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// Validate checks a selection without creating a job. Always responds 200;
// validity is expressed inside the result body.
func (a *App) Validate(w http.ResponseWriter, r *http.Request) {
	var sel domain.SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	a.json(w, http.StatusOK, a.Validator.Validate(sel))
}

// Options dumps the full catalog grouped by category.
func (a *App) Options(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"poses":    a.Catalog.Poses(),
		"outfits":  a.Catalog.Outfits(),
		"footwear": a.Catalog.AllFootwear(),
		"props":    a.Catalog.Props(),
		"frames":   a.Catalog.Frames(),
	})
}

// Generate submits a selection for generation. Identical concurrent
// submissions by the same owner coalesce into one job, so the returned
// job id may belong to an already in-flight request.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.OwnerFromContext(r.Context())
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var sel domain.SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	job, err := a.Orch.Submit(r.Context(), ownerID, sel)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			a.json(w, http.StatusUnprocessableEntity, verr.Result)
			return
		}
		a.Logger.Error().Err(err).Msg("submit failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to submit job")
		return
	}
	a.json(w, http.StatusAccepted, generateResponse{JobID: job.ID, Status: string(job.Status)})
}

// JobStatus returns the job record. PublicURL is present only for COMPLETE
// jobs and ErrorMessage only for FAILED ones.
func (a *App) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	job, err := a.Orch.GetStatus(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("status lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}
	a.json(w, http.StatusOK, job)
}

// ListJobs returns the requesting owner's jobs, newest first.
func (a *App) ListJobs(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.OwnerFromContext(r.Context())
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	jobs, err := a.Orch.ListByOwner(r.Context(), ownerID, limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("job listing failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list jobs")
		return
	}
	if jobs == nil {
		jobs = []domain.GenerationJob{}
	}
	a.json(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// RetryJob re-dispatches a FAILED job under its existing id.
func (a *App) RetryJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	job, err := a.Orch.Retry(r.Context(), jobID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			a.error(w, http.StatusNotFound, "not_found", "job not found")
		case errors.Is(err, domain.ErrJobNotRetryable):
			a.error(w, http.StatusConflict, "not_retryable", "only failed jobs can be retried")
		default:
			a.Logger.Error().Err(err).Str("job_id", jobID).Msg("retry failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to retry job")
		}
		return
	}
	a.json(w, http.StatusAccepted, generateResponse{JobID: job.ID, Status: string(job.Status)})
}
