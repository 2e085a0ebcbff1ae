package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"charforge-server/internal/domain"
)

// JobRepositoryPG implements domain.JobRepository on PostgreSQL.
//
// Terminal transitions are guarded in SQL by the current status, so a
// duplicate provider callback becomes a zero-row update rather than a
// second write, and readers never observe a half-applied terminal record.
type JobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(pool *pgxpool.Pool) *JobRepositoryPG {
	return &JobRepositoryPG{pool: pool}
}

const jobColumns = `id, owner_id, fingerprint, status, positive_prompt, negative_prompt, provider, public_url, error_message, generation_time_ms, created_at, completed_at`

// Create inserts a new job record.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.GenerationJob) error {
	query := `
INSERT INTO generation_jobs (id, owner_id, fingerprint, status, positive_prompt, negative_prompt, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.OwnerID,
		job.Fingerprint,
		job.Status,
		job.PositivePrompt,
		job.NegativePrompt,
		job.CreatedAt,
	)
	return err
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID string) (*domain.GenerationJob, error) {
	query := `SELECT ` + jobColumns + ` FROM generation_jobs WHERE id = $1;`
	return r.scanJob(r.pool.QueryRow(ctx, query, jobID))
}

// FindActive returns the in-flight PENDING job for (ownerID, fingerprint),
// backed by the (owner_id, fingerprint, status) index.
func (r *JobRepositoryPG) FindActive(ctx context.Context, ownerID, fingerprint string) (*domain.GenerationJob, error) {
	query := `
SELECT ` + jobColumns + `
FROM generation_jobs
WHERE owner_id = $1 AND fingerprint = $2 AND status = $3
ORDER BY created_at DESC
LIMIT 1;
`
	return r.scanJob(r.pool.QueryRow(ctx, query, ownerID, fingerprint, domain.JobStatusPending))
}

// ListByOwner returns the owner's jobs, newest first.
func (r *JobRepositoryPG) ListByOwner(ctx context.Context, ownerID string, limit int) ([]domain.GenerationJob, error) {
	query := `
SELECT ` + jobColumns + `
FROM generation_jobs
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2;
`
	rows, err := r.pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.GenerationJob
	for rows.Next() {
		job, err := r.scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// MarkComplete applies the COMPLETE terminal state. Applied is false when
// the job was not PENDING anymore.
func (r *JobRepositoryPG) MarkComplete(ctx context.Context, jobID, publicURL, provider string, generationTimeMs int64, at time.Time) (bool, error) {
	query := `
UPDATE generation_jobs
SET status = $2, public_url = $3, provider = $4, generation_time_ms = $5, completed_at = $6
WHERE id = $1 AND status = $7;
`
	tag, err := r.pool.Exec(ctx, query, jobID, domain.JobStatusComplete, publicURL, provider, generationTimeMs, at, domain.JobStatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// MarkFailed applies the FAILED terminal state. Applied is false when the
// job was not PENDING anymore.
func (r *JobRepositoryPG) MarkFailed(ctx context.Context, jobID, errMsg string, at time.Time) (bool, error) {
	query := `
UPDATE generation_jobs
SET status = $2, error_message = $3, completed_at = $4
WHERE id = $1 AND status = $5;
`
	tag, err := r.pool.Exec(ctx, query, jobID, domain.JobStatusFailed, errMsg, at, domain.JobStatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// MarkPending moves a FAILED job back to PENDING for a retry dispatch,
// clearing the previous failure fields. created_at is reset so the watchdog
// measures the retry's own wait, not the original submission's.
func (r *JobRepositoryPG) MarkPending(ctx context.Context, jobID string, at time.Time) (bool, error) {
	query := `
UPDATE generation_jobs
SET status = $2, error_message = '', public_url = '', completed_at = NULL, created_at = $3
WHERE id = $1 AND status = $4;
`
	tag, err := r.pool.Exec(ctx, query, jobID, domain.JobStatusPending, at, domain.JobStatusFailed)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ListPendingOlderThan returns PENDING jobs created before cutoff, for the
// watchdog.
func (r *JobRepositoryPG) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.GenerationJob, error) {
	query := `
SELECT ` + jobColumns + `
FROM generation_jobs
WHERE status = $1 AND created_at < $2
ORDER BY created_at ASC;
`
	rows, err := r.pool.Query(ctx, query, domain.JobStatusPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.GenerationJob
	for rows.Next() {
		job, err := r.scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// Delete removes a single job record.
func (r *JobRepositoryPG) Delete(ctx context.Context, jobID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM generation_jobs WHERE id = $1;`, jobID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteTerminalOlderThan bulk-deletes terminal jobs of the given status
// created before cutoff. The orchestrator rejects PENDING before calling.
func (r *JobRepositoryPG) DeleteTerminalOlderThan(ctx context.Context, status domain.JobStatus, cutoff time.Time) (int64, error) {
	query := `DELETE FROM generation_jobs WHERE status = $1 AND created_at < $2;`
	tag, err := r.pool.Exec(ctx, query, status, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Stats aggregates job counts by status and provider.
func (r *JobRepositoryPG) Stats(ctx context.Context) (*domain.JobStats, error) {
	query := `
SELECT status, COALESCE(NULLIF(provider, ''), 'unassigned'), COUNT(*)
FROM generation_jobs
GROUP BY 1, 2;
`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &domain.JobStats{
		ByStatus:   map[string]int{},
		ByProvider: map[string]int{},
	}
	for rows.Next() {
		var status, provider string
		var count int
		if err := rows.Scan(&status, &provider, &count); err != nil {
			return nil, err
		}
		stats.Total += count
		stats.ByStatus[status] += count
		stats.ByProvider[provider] += count
	}
	return stats, rows.Err()
}

func (r *JobRepositoryPG) scanJob(row pgx.Row) (*domain.GenerationJob, error) {
	var job domain.GenerationJob
	if err := row.Scan(
		&job.ID,
		&job.OwnerID,
		&job.Fingerprint,
		&job.Status,
		&job.PositivePrompt,
		&job.NegativePrompt,
		&job.Provider,
		&job.PublicURL,
		&job.ErrorMessage,
		&job.GenerationTimeMs,
		&job.CreatedAt,
		&job.CompletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

var _ domain.JobRepository = (*JobRepositoryPG)(nil)
