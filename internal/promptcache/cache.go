// Package promptcache caches rendered prompts by selection fingerprint.
// The cache is a latency optimization only: a miss re-renders and must be
// indistinguishable in result from a hit, and a cold cache is a valid
// startup state.
package promptcache

import (
	"context"

	"charforge-server/internal/domain"
)

// RenderFunc produces the prompt on a cache miss.
type RenderFunc func() (domain.RenderedPrompt, error)

// Stats reports cache effectiveness counters for the admin surface.
type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Size   int    `json:"size"`
}

// Cache is the getOrRender contract shared by the memory and Redis
// backends. On a hit the stored prompt is returned without invoking render.
type Cache interface {
	GetOrRender(ctx context.Context, fingerprint string, render RenderFunc) (domain.RenderedPrompt, error)
	Stats() Stats
}
