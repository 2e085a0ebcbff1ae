package promptcache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"charforge-server/internal/domain"
)

type memoryEntry struct {
	prompt    domain.RenderedPrompt
	createdAt time.Time
	hitCount  atomic.Int64
}

// Memory is a bounded in-process cache with least-recently-used eviction.
type Memory struct {
	entries *lru.Cache[string, *memoryEntry]
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// NewMemory creates a Memory cache holding at most size entries.
func NewMemory(size int) (*Memory, error) {
	if size <= 0 {
		return nil, fmt.Errorf("promptcache: size must be positive, got %d", size)
	}
	entries, err := lru.New[string, *memoryEntry](size)
	if err != nil {
		return nil, fmt.Errorf("promptcache: init lru: %w", err)
	}
	return &Memory{entries: entries}, nil
}

// GetOrRender returns the cached prompt for fingerprint, rendering and
// storing it on a miss.
func (m *Memory) GetOrRender(ctx context.Context, fingerprint string, render RenderFunc) (domain.RenderedPrompt, error) {
	if err := ctx.Err(); err != nil {
		return domain.RenderedPrompt{}, err
	}
	if entry, ok := m.entries.Get(fingerprint); ok {
		m.hits.Add(1)
		entry.hitCount.Add(1)
		return entry.prompt, nil
	}

	m.misses.Add(1)
	prompt, err := render()
	if err != nil {
		return domain.RenderedPrompt{}, err
	}
	m.entries.Add(fingerprint, &memoryEntry{prompt: prompt, createdAt: time.Now().UTC()})
	return prompt, nil
}

func (m *Memory) Stats() Stats {
	return Stats{
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
		Size:   m.entries.Len(),
	}
}

// Purge clears every entry. Output for a given selection is unchanged
// afterwards, only slower on first access.
func (m *Memory) Purge() {
	m.entries.Purge()
}

var _ Cache = (*Memory)(nil)
