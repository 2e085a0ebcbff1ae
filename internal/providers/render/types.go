// Package render defines the contract for external image rendering
// providers. The engine treats a provider as an opaque capability: it hands
// over a positive/negative prompt pair and gets artifact bytes or an error,
// which the orchestrator resolves into job state.
package render

import "context"

// Result is the raw artifact produced by a provider.
type Result struct {
	Data   []byte
	Format string // file extension without dot, e.g. "png"
}

// Renderer is implemented by all image providers. Calls may take tens of
// seconds; implementations must honor ctx cancellation.
type Renderer interface {
	Render(ctx context.Context, positivePrompt, negativePrompt string) (*Result, error)
}
