package domain

import "time"

// JobStatus enumerates generation job lifecycle states.
type JobStatus string

const (
	JobStatusPending  JobStatus = "PENDING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusFailed   JobStatus = "FAILED"
)

// Terminal reports whether the status permits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusComplete || s == JobStatusFailed
}

// GenerationJob is the lifecycle entity for one image generation request.
// It is created PENDING at submission and moved exactly once to a terminal
// state by the orchestrator; PublicURL is only set when COMPLETE and
// ErrorMessage only when FAILED. The prompts are persisted on the job so a
// retry never needs to re-validate or re-render.
type GenerationJob struct {
	ID               string     `json:"job_id"`
	OwnerID          string     `json:"owner_id"`
	Fingerprint      string     `json:"fingerprint"`
	Status           JobStatus  `json:"status"`
	PositivePrompt   string     `json:"-"`
	NegativePrompt   string     `json:"-"`
	Provider         string     `json:"service_used,omitempty"`
	PublicURL        string     `json:"public_url,omitempty"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	GenerationTimeMs int64      `json:"generation_time_ms,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// JobStats aggregates job counts for the admin surface.
type JobStats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByProvider map[string]int `json:"by_provider"`
}
