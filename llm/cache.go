package llm

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"

	Logger "github.com/factlens/factlens/utils/log"
)

// CompletionCache memoizes model completions in redis, keyed by a hash of the
// full prompt. Identical questions asked within the TTL skip the model round
// trip entirely.
type CompletionCache struct {
	inner *redis.Client
	ttl   time.Duration
}

// NewCompletionCacheFromEnv connects to the redis instance configured through
// REDIS_HOST / REDIS_PORT / REDIS_PASSWD.
func NewCompletionCacheFromEnv(ttl time.Duration) *CompletionCache {
	return &CompletionCache{
		inner: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
			Password: os.Getenv("REDIS_PASSWD"),
			DB:       0, // use default DB
		}),
		ttl: ttl,
	}
}

func completionKey(prompt string) string {
	sum := sha1.Sum([]byte(prompt))
	return "completion_" + hex.EncodeToString(sum[:])
}

func (c *CompletionCache) Get(ctx context.Context, prompt string) (string, bool) {
	v, err := c.inner.Get(ctx, completionKey(prompt)).Result()
	if err != nil {
		// Treat redis-down the same as a miss, the model call still works.
		return "", false
	}
	return v, true
}

func (c *CompletionCache) Put(ctx context.Context, prompt string, completion string) {
	if err := c.inner.Set(ctx, completionKey(prompt), completion, c.ttl).Err(); err != nil {
		Logger.Log.Warn("failed to cache completion: ", err)
	}
}

// CompletionStore is the cache surface the decorator needs.
type CompletionStore interface {
	Get(ctx context.Context, prompt string) (string, bool)
	Put(ctx context.Context, prompt string, completion string)
}

// CachedGenerator decorates a Generator with the completion cache. Errors are
// never cached.
type CachedGenerator struct {
	Inner Generator
	Cache CompletionStore
}

func (g *CachedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if v, ok := g.Cache.Get(ctx, prompt); ok {
		return v, nil
	}
	completion, err := g.Inner.Generate(ctx, prompt)
	if err == nil {
		g.Cache.Put(ctx, prompt, completion)
	}
	return completion, err
}
