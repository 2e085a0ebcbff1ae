// Package orchestrator owns the generation job lifecycle: submission with
// in-flight deduplication, asynchronous dispatch to the rendering provider,
// terminal resolution, retry and maintenance.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"charforge-server/internal/domain"
	"charforge-server/internal/engine"
	"charforge-server/internal/infra"
	"charforge-server/internal/promptcache"
	"charforge-server/internal/providers/render"
	"charforge-server/internal/storage"
	"charforge-server/pkg/archive"
)

// Options wires the orchestrator's collaborators.
type Options struct {
	Repo          domain.JobRepository
	Validator     *engine.Validator
	Engine        *engine.Engine
	Cache         promptcache.Cache
	Renderer      render.Renderer
	ProviderName  string
	Store         storage.Store
	Logger        infra.Logger
	RenderTimeout time.Duration
}

// Orchestrator binds validated selections to generation jobs and resolves
// provider outcomes into terminal job state. It is the only writer of job
// records; the provider and the asset store just return data.
type Orchestrator struct {
	repo          domain.JobRepository
	validator     *engine.Validator
	engine        *engine.Engine
	cache         promptcache.Cache
	renderer      render.Renderer
	providerName  string
	store         storage.Store
	logger        infra.Logger
	renderTimeout time.Duration

	// flight serializes the check-existing-else-create section per
	// (owner, fingerprint) key, so racing identical submits coalesce into
	// one job instead of creating PENDING duplicates.
	flight singleflight.Group
	wg     sync.WaitGroup
}

func New(opts Options) *Orchestrator {
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = 90 * time.Second
	}
	return &Orchestrator{
		repo:          opts.Repo,
		validator:     opts.Validator,
		engine:        opts.Engine,
		cache:         opts.Cache,
		renderer:      opts.Renderer,
		providerName:  opts.ProviderName,
		store:         opts.Store,
		logger:        opts.Logger,
		renderTimeout: opts.RenderTimeout,
	}
}

// Submit validates and renders the selection, coalesces into an existing
// in-flight job for the same (owner, fingerprint) when present, and
// otherwise creates a PENDING job and dispatches it. The call returns as
// soon as the job exists; rendering happens out of band and callers poll
// GetStatus.
func (o *Orchestrator) Submit(ctx context.Context, ownerID string, sel domain.SelectionRequest) (*domain.GenerationJob, error) {
	if ownerID == "" {
		return nil, errors.New("owner id is required")
	}

	result := o.validator.Validate(sel)
	if !result.IsValid {
		return nil, &domain.ValidationError{Result: result}
	}

	fingerprint := engine.Fingerprint(sel)
	prompt, err := o.cache.GetOrRender(ctx, fingerprint, func() (domain.RenderedPrompt, error) {
		return o.engine.Render(sel), nil
	})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	key := ownerID + "\x00" + fingerprint
	v, err, _ := o.flight.Do(key, func() (any, error) {
		existing, err := o.repo.FindActive(ctx, ownerID, fingerprint)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("dedup lookup: %w", err)
		}

		job := &domain.GenerationJob{
			ID:             uuid.NewString(),
			OwnerID:        ownerID,
			Fingerprint:    fingerprint,
			Status:         domain.JobStatusPending,
			PositivePrompt: prompt.PositivePrompt,
			NegativePrompt: prompt.NegativePrompt,
			CreatedAt:      time.Now().UTC(),
		}
		if err := o.repo.Create(ctx, job); err != nil {
			return nil, fmt.Errorf("create job: %w", err)
		}
		o.logger.Info().
			Str("job_id", job.ID).
			Str("owner_id", ownerID).
			Str("fingerprint", fingerprint).
			Msg("job submitted")
		o.dispatch(job)
		return job, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.GenerationJob), nil
}

// GetStatus returns the job record, or domain.ErrNotFound.
func (o *Orchestrator) GetStatus(ctx context.Context, jobID string) (*domain.GenerationJob, error) {
	return o.repo.GetByID(ctx, jobID)
}

// ListByOwner returns the owner's jobs, newest first.
func (o *Orchestrator) ListByOwner(ctx context.Context, ownerID string, limit int) ([]domain.GenerationJob, error) {
	return o.repo.ListByOwner(ctx, ownerID, limit)
}

// Outcome carries a provider result into terminal resolution. Exactly one
// of Err or Data is meaningful.
type Outcome struct {
	Data    []byte
	Format  string
	Err     error
	Elapsed time.Duration
}

// OnProviderResult resolves a job to its terminal state. A second call for
// an already-terminal job is a logged no-op, which protects against
// duplicate provider callbacks and watchdog races.
func (o *Orchestrator) OnProviderResult(ctx context.Context, jobID string, out Outcome) error {
	job, err := o.repo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		o.logger.Info().
			Str("job_id", jobID).
			Str("status", string(job.Status)).
			Msg("duplicate provider result ignored")
		return nil
	}
	now := time.Now().UTC()

	if out.Err != nil {
		applied, err := o.repo.MarkFailed(ctx, jobID, out.Err.Error(), now)
		if err != nil {
			return fmt.Errorf("mark failed: %w", err)
		}
		if !applied {
			o.logger.Info().Str("job_id", jobID).Msg("duplicate provider result ignored")
			return nil
		}
		o.logger.Warn().Str("job_id", jobID).Err(out.Err).Msg("job failed")
		return nil
	}

	publicURL, err := o.store.Store(ctx, jobID, out.Data, out.Format)
	if err != nil {
		applied, markErr := o.repo.MarkFailed(ctx, jobID, fmt.Sprintf("store artifact: %v", err), now)
		if markErr != nil {
			return fmt.Errorf("mark failed after store error: %w", markErr)
		}
		if applied {
			o.logger.Warn().Str("job_id", jobID).Err(err).Msg("artifact storage failed")
		}
		return nil
	}

	applied, err := o.repo.MarkComplete(ctx, jobID, publicURL, o.providerName, out.Elapsed.Milliseconds(), now)
	if err != nil {
		return fmt.Errorf("mark complete: %w", err)
	}
	if !applied {
		// Lost the race with another resolution; drop the orphan artifact.
		if derr := o.store.Delete(ctx, publicURL); derr != nil {
			o.logger.Warn().Str("job_id", jobID).Err(derr).Msg("failed to remove orphan artifact")
		}
		o.logger.Info().Str("job_id", jobID).Msg("duplicate provider result ignored")
		return nil
	}
	o.logger.Info().
		Str("job_id", jobID).
		Str("public_url", publicURL).
		Int64("generation_time_ms", out.Elapsed.Milliseconds()).
		Msg("job complete")
	return nil
}

// Retry re-dispatches a FAILED job using its persisted prompts, moving it
// back to PENDING under the same job id with a fresh watchdog clock. No
// re-validation or re-render.
func (o *Orchestrator) Retry(ctx context.Context, jobID string) (*domain.GenerationJob, error) {
	job, err := o.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobStatusFailed {
		return nil, domain.ErrJobNotRetryable
	}
	applied, err := o.repo.MarkPending(ctx, jobID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("mark pending: %w", err)
	}
	if !applied {
		return nil, domain.ErrJobNotRetryable
	}
	job, err = o.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	o.logger.Info().Str("job_id", jobID).Msg("job retry dispatched")
	o.dispatch(job)
	return job, nil
}

// Delete removes a job record and, for COMPLETE jobs, its stored artifact.
func (o *Orchestrator) Delete(ctx context.Context, jobID string) error {
	job, err := o.repo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status == domain.JobStatusComplete && job.PublicURL != "" {
		if err := o.store.Delete(ctx, job.PublicURL); err != nil {
			o.logger.Warn().Str("job_id", jobID).Err(err).Msg("failed to delete artifact")
		}
	}
	return o.repo.Delete(ctx, jobID)
}

// Cleanup bulk-deletes terminal jobs of the given status older than the
// cutoff. PENDING is refused outright: a stuck PENDING job is a monitoring
// signal, never a cleanup target.
func (o *Orchestrator) Cleanup(ctx context.Context, olderThanDays int, status domain.JobStatus) (int64, error) {
	if status == domain.JobStatusPending {
		return 0, domain.ErrCleanupPending
	}
	if !status.Terminal() {
		return 0, fmt.Errorf("cleanup: unknown status %q", status)
	}
	if olderThanDays < 0 {
		return 0, fmt.Errorf("cleanup: olderThanDays must not be negative")
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	deleted, err := o.repo.DeleteTerminalOlderThan(ctx, status, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		o.logger.Info().
			Int64("deleted", deleted).
			Str("status", string(status)).
			Int("older_than_days", olderThanDays).
			Msg("cleanup removed jobs")
	}
	return deleted, nil
}

// Export collects the owner's COMPLETE artifacts for a bundle download.
// Jobs whose artifact has gone missing from storage are skipped, not fatal.
func (o *Orchestrator) Export(ctx context.Context, ownerID string, limit int) ([]archive.Artifact, error) {
	jobs, err := o.repo.ListByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, err
	}
	var artifacts []archive.Artifact
	for _, job := range jobs {
		if job.Status != domain.JobStatusComplete || job.PublicURL == "" {
			continue
		}
		data, err := o.store.Load(ctx, job.PublicURL)
		if err != nil {
			o.logger.Warn().Str("job_id", job.ID).Err(err).Msg("artifact missing during export")
			continue
		}
		filename := path.Base(job.PublicURL)
		artifacts = append(artifacts, archive.Artifact{Filename: filename, Data: data})
	}
	return artifacts, nil
}

// Stats aggregates job counts by status and provider.
func (o *Orchestrator) Stats(ctx context.Context) (*domain.JobStats, error) {
	return o.repo.Stats(ctx)
}

// Wait blocks until all in-flight dispatches have resolved. Used for
// graceful shutdown so no job is abandoned mid-dispatch.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// dispatch hands the job to the provider on a fresh goroutine. Every exit
// path, including panics and timeouts, resolves the job; a job is never
// silently left PENDING by the dispatch path.
func (o *Orchestrator) dispatch(job *domain.GenerationJob) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				out := Outcome{Err: fmt.Errorf("dispatch panic: %v", r)}
				if err := o.OnProviderResult(context.Background(), job.ID, out); err != nil {
					o.logger.Error().Str("job_id", job.ID).Err(err).Msg("failed to resolve job after panic")
				}
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), o.renderTimeout)
		defer cancel()

		start := time.Now()
		result, err := o.renderer.Render(ctx, job.PositivePrompt, job.NegativePrompt)
		out := Outcome{Elapsed: time.Since(start)}
		if err != nil {
			out.Err = err
		} else {
			out.Data = result.Data
			out.Format = result.Format
		}
		if err := o.OnProviderResult(context.Background(), job.ID, out); err != nil {
			o.logger.Error().Str("job_id", job.ID).Err(err).Msg("failed to resolve provider result")
		}
	}()
}
