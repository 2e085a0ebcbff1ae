package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"charforge-server/internal/domain"
)

// JobRepositoryMemory implements domain.JobRepository in process memory.
// Used for development without a database and throughout the test suite.
// All read-modify-write sequences run under one mutex so status reads never
// observe a partially applied terminal update.
type JobRepositoryMemory struct {
	mu   sync.Mutex
	jobs map[string]*domain.GenerationJob
}

func NewJobRepositoryMemory() *JobRepositoryMemory {
	return &JobRepositoryMemory{jobs: make(map[string]*domain.GenerationJob)}
}

func (r *JobRepositoryMemory) Create(_ context.Context, job *domain.GenerationJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *job
	r.jobs[job.ID] = &clone
	return nil
}

func (r *JobRepositoryMemory) GetByID(_ context.Context, jobID string) (*domain.GenerationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *job
	return &clone, nil
}

func (r *JobRepositoryMemory) FindActive(_ context.Context, ownerID, fingerprint string) (*domain.GenerationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *domain.GenerationJob
	for _, job := range r.jobs {
		if job.OwnerID != ownerID || job.Fingerprint != fingerprint || job.Status != domain.JobStatusPending {
			continue
		}
		if found == nil || job.CreatedAt.After(found.CreatedAt) {
			found = job
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	clone := *found
	return &clone, nil
}

func (r *JobRepositoryMemory) ListByOwner(_ context.Context, ownerID string, limit int) ([]domain.GenerationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.GenerationJob
	for _, job := range r.jobs {
		if job.OwnerID == ownerID {
			out = append(out, *job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *JobRepositoryMemory) MarkComplete(_ context.Context, jobID, publicURL, provider string, generationTimeMs int64, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok || job.Status != domain.JobStatusPending {
		return false, nil
	}
	job.Status = domain.JobStatusComplete
	job.PublicURL = publicURL
	job.Provider = provider
	job.GenerationTimeMs = generationTimeMs
	completed := at
	job.CompletedAt = &completed
	return true, nil
}

func (r *JobRepositoryMemory) MarkFailed(_ context.Context, jobID, errMsg string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok || job.Status != domain.JobStatusPending {
		return false, nil
	}
	job.Status = domain.JobStatusFailed
	job.ErrorMessage = errMsg
	completed := at
	job.CompletedAt = &completed
	return true, nil
}

func (r *JobRepositoryMemory) MarkPending(_ context.Context, jobID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok || job.Status != domain.JobStatusFailed {
		return false, nil
	}
	job.Status = domain.JobStatusPending
	job.ErrorMessage = ""
	job.PublicURL = ""
	job.CompletedAt = nil
	job.CreatedAt = at
	return true, nil
}

func (r *JobRepositoryMemory) ListPendingOlderThan(_ context.Context, cutoff time.Time) ([]domain.GenerationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.GenerationJob
	for _, job := range r.jobs {
		if job.Status == domain.JobStatusPending && job.CreatedAt.Before(cutoff) {
			out = append(out, *job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *JobRepositoryMemory) Delete(_ context.Context, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[jobID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.jobs, jobID)
	return nil
}

func (r *JobRepositoryMemory) DeleteTerminalOlderThan(_ context.Context, status domain.JobStatus, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, job := range r.jobs {
		if job.Status == status && job.Status.Terminal() && job.CreatedAt.Before(cutoff) {
			delete(r.jobs, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *JobRepositoryMemory) Stats(_ context.Context) (*domain.JobStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &domain.JobStats{
		ByStatus:   map[string]int{},
		ByProvider: map[string]int{},
	}
	for _, job := range r.jobs {
		stats.Total++
		stats.ByStatus[string(job.Status)]++
		provider := job.Provider
		if provider == "" {
			provider = "unassigned"
		}
		stats.ByProvider[provider]++
	}
	return stats, nil
}

var _ domain.JobRepository = (*JobRepositoryMemory)(nil)
