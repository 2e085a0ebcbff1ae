package orchestrator

import (
	"context"
	"time"

	"charforge-server/internal/domain"
	"charforge-server/internal/infra"
)

// Janitor periodically removes terminal jobs past the retention window.
// It only ever touches COMPLETE and FAILED; PENDING jobs are the
// watchdog's concern regardless of age.
type Janitor struct {
	repo          domain.JobRepository
	retentionDays int
	interval      time.Duration
	logger        infra.Logger
}

func NewJanitor(repo domain.JobRepository, retentionDays int, interval time.Duration, logger infra.Logger) *Janitor {
	return &Janitor{repo: repo, retentionDays: retentionDays, interval: interval, logger: logger}
}

// RunOnce deletes expired terminal jobs and returns the total removed.
func (j *Janitor) RunOnce(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -j.retentionDays)
	var total int64
	for _, status := range []domain.JobStatus{domain.JobStatusComplete, domain.JobStatusFailed} {
		deleted, err := j.repo.DeleteTerminalOlderThan(ctx, status, cutoff)
		if err != nil {
			return total, err
		}
		total += deleted
	}
	if total > 0 {
		j.logger.Info().Int64("deleted", total).Int("retention_days", j.retentionDays).Msg("janitor removed expired jobs")
	}
	return total, nil
}

// Run sweeps on the configured interval until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := j.RunOnce(ctx); err != nil {
				j.logger.Error().Err(err).Msg("janitor sweep failed")
			}
		}
	}
}
