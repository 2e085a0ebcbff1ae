package domain

import (
	"context"
	"time"
)

// JobRepository defines persistence for generation jobs. Implementations
// must apply terminal-state updates atomically and conditionally: the Mark
// methods report applied=false (without error) when the job was not in the
// expected source state, which is how terminal idempotence is enforced.
type JobRepository interface {
	Create(ctx context.Context, job *GenerationJob) error
	GetByID(ctx context.Context, jobID string) (*GenerationJob, error)

	// FindActive returns the PENDING job for (ownerID, fingerprint), or
	// ErrNotFound when none is in flight.
	FindActive(ctx context.Context, ownerID, fingerprint string) (*GenerationJob, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]GenerationJob, error)

	MarkComplete(ctx context.Context, jobID, publicURL, provider string, generationTimeMs int64, at time.Time) (bool, error)
	MarkFailed(ctx context.Context, jobID, errMsg string, at time.Time) (bool, error)
	// MarkPending transitions FAILED back to PENDING for a retry dispatch.
	// The job's created_at is reset to at, restarting the watchdog clock so
	// a retry is not immediately swept as stale.
	MarkPending(ctx context.Context, jobID string, at time.Time) (bool, error)

	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]GenerationJob, error)
	Delete(ctx context.Context, jobID string) error
	DeleteTerminalOlderThan(ctx context.Context, status JobStatus, cutoff time.Time) (int64, error)
	Stats(ctx context.Context) (*JobStats, error)
}
