package orchestrator

import (
	"context"
	"fmt"
	"time"

	"charforge-server/internal/domain"
	"charforge-server/internal/infra"
)

// Watchdog fails PENDING jobs that exceed the configured maximum wait.
// Indefinite PENDING is not a valid terminal experience; each timeout is
// logged at error level as the operational alert for a stuck dispatch.
type Watchdog struct {
	repo     domain.JobRepository
	maxWait  time.Duration
	interval time.Duration
	logger   infra.Logger
}

func NewWatchdog(repo domain.JobRepository, maxWait, interval time.Duration, logger infra.Logger) *Watchdog {
	return &Watchdog{repo: repo, maxWait: maxWait, interval: interval, logger: logger}
}

// RunOnce sweeps once and returns how many jobs it failed. The terminal
// update is conditional on the job still being PENDING, so a provider
// result racing the sweep wins cleanly on either side.
func (w *Watchdog) RunOnce(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-w.maxWait)
	stale, err := w.repo.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("watchdog: list stale jobs: %w", err)
	}

	failed := 0
	now := time.Now().UTC()
	for _, job := range stale {
		applied, err := w.repo.MarkFailed(ctx, job.ID, fmt.Sprintf("generation timed out after %s", w.maxWait), now)
		if err != nil {
			return failed, fmt.Errorf("watchdog: fail job %s: %w", job.ID, err)
		}
		if !applied {
			continue
		}
		failed++
		w.logger.Error().
			Str("job_id", job.ID).
			Str("owner_id", job.OwnerID).
			Time("created_at", job.CreatedAt).
			Dur("max_wait", w.maxWait).
			Msg("pending job exceeded max wait")
	}
	return failed, nil
}

// Run sweeps on the configured interval until ctx is cancelled.
func (w *Watchdog) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				w.logger.Error().Err(err).Msg("watchdog sweep failed")
			}
		}
	}
}
