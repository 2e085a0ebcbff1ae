package orchestrator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"charforge-server/internal/adapter/repo"
	"charforge-server/internal/domain"
)

func seedJob(t *testing.T, jobs *repo.JobRepositoryMemory, id string, status domain.JobStatus, age time.Duration) {
	t.Helper()
	err := jobs.Create(context.Background(), &domain.GenerationJob{
		ID:          id,
		OwnerID:     "owner",
		Fingerprint: "fp-" + id,
		Status:      status,
		CreatedAt:   time.Now().UTC().Add(-age),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestWatchdogFailsOnlyStalePending(t *testing.T) {
	jobs := repo.NewJobRepositoryMemory()
	seedJob(t, jobs, "stale", domain.JobStatusPending, 10*time.Minute)
	seedJob(t, jobs, "fresh", domain.JobStatusPending, time.Second)
	seedJob(t, jobs, "done", domain.JobStatusComplete, 10*time.Minute)

	w := NewWatchdog(jobs, 5*time.Minute, time.Minute, zerolog.Nop())
	failed, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if failed != 1 {
		t.Fatalf("failed = %d, want 1", failed)
	}

	stale, err := jobs.GetByID(context.Background(), "stale")
	if err != nil {
		t.Fatal(err)
	}
	if stale.Status != domain.JobStatusFailed {
		t.Fatalf("stale job status = %s, want FAILED", stale.Status)
	}
	if !strings.Contains(stale.ErrorMessage, "timed out") {
		t.Fatalf("ErrorMessage = %q, want timeout message", stale.ErrorMessage)
	}

	fresh, _ := jobs.GetByID(context.Background(), "fresh")
	if fresh.Status != domain.JobStatusPending {
		t.Fatalf("fresh job status = %s, want PENDING", fresh.Status)
	}
	done, _ := jobs.GetByID(context.Background(), "done")
	if done.Status != domain.JobStatusComplete {
		t.Fatalf("terminal job status = %s, want COMPLETE", done.Status)
	}
}

func TestWatchdogSweepIsIdempotent(t *testing.T) {
	jobs := repo.NewJobRepositoryMemory()
	seedJob(t, jobs, "stale", domain.JobStatusPending, time.Hour)

	w := NewWatchdog(jobs, 5*time.Minute, time.Minute, zerolog.Nop())
	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatal(err)
	}
	failed, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if failed != 0 {
		t.Fatalf("second sweep failed %d jobs, want 0", failed)
	}
}

func TestJanitorSkipsPendingAndFresh(t *testing.T) {
	jobs := repo.NewJobRepositoryMemory()
	seedJob(t, jobs, "old-complete", domain.JobStatusComplete, 40*24*time.Hour)
	seedJob(t, jobs, "old-failed", domain.JobStatusFailed, 40*24*time.Hour)
	seedJob(t, jobs, "old-pending", domain.JobStatusPending, 40*24*time.Hour)
	seedJob(t, jobs, "new-complete", domain.JobStatusComplete, time.Hour)

	j := NewJanitor(jobs, 30, time.Hour, zerolog.Nop())
	deleted, err := j.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}

	for _, id := range []string{"old-pending", "new-complete"} {
		if _, err := jobs.GetByID(context.Background(), id); err != nil {
			t.Errorf("job %s was deleted: %v", id, err)
		}
	}
	for _, id := range []string{"old-complete", "old-failed"} {
		if _, err := jobs.GetByID(context.Background(), id); err == nil {
			t.Errorf("job %s survived cleanup", id)
		}
	}
}
