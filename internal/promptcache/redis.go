package promptcache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"charforge-server/internal/domain"
)

const redisKeyPrefix = "prompt:"

// Redis caches rendered prompts in a shared Redis instance with TTL expiry,
// so multiple API replicas share one prompt cache. Backend errors degrade
// to a render, never to a request failure.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewRedis(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger}
}

// GetOrRender looks the fingerprint up in Redis, rendering and storing on a
// miss. Storing is best effort.
func (r *Redis) GetOrRender(ctx context.Context, fingerprint string, render RenderFunc) (domain.RenderedPrompt, error) {
	key := redisKeyPrefix + fingerprint

	raw, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var prompt domain.RenderedPrompt
		if jsonErr := json.Unmarshal(raw, &prompt); jsonErr == nil {
			r.hits.Add(1)
			return prompt, nil
		}
		r.logger.Warn().Str("fingerprint", fingerprint).Msg("promptcache: corrupt cache entry, re-rendering")
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn().Err(err).Msg("promptcache: redis get failed, falling back to render")
	}

	r.misses.Add(1)
	prompt, err := render()
	if err != nil {
		return domain.RenderedPrompt{}, err
	}

	if raw, err := json.Marshal(prompt); err == nil {
		if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
			r.logger.Warn().Err(err).Msg("promptcache: redis set failed")
		}
	}
	return prompt, nil
}

// Stats counts only keys under the cache's own prefix; on a shared Redis
// instance the database holds other applications' keys too.
func (r *Redis) Stats() Stats {
	ctx := context.Background()
	size := 0
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, redisKeyPrefix+"*", 250).Result()
		if err != nil {
			r.logger.Warn().Err(err).Msg("promptcache: redis scan failed")
			break
		}
		size += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return Stats{
		Hits:   r.hits.Load(),
		Misses: r.misses.Load(),
		Size:   size,
	}
}

var _ Cache = (*Redis)(nil)
