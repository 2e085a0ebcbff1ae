package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrProviderFailure = errors.New("provider failure")
	ErrJobNotRetryable = errors.New("job is not in a retryable state")
	ErrCleanupPending  = errors.New("pending jobs are never cleaned up")
)

// ValidationError carries the full validation result across the submit
// boundary so callers can surface errors and suggestions verbatim.
type ValidationError struct {
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	if len(e.Result.Errors) > 0 {
		return "invalid selection: " + e.Result.Errors[0]
	}
	return "invalid selection"
}
