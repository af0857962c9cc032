package government

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"kyc-gateway/internal/domain"
	platformredis "kyc-gateway/internal/platform/redis"
)

// Cache memoizes classified lookup results so repeated verification attempts
// within the TTL do not hammer the authority.
type Cache interface {
	Get(ctx context.Context, key string) (domain.VerificationResult, bool, error)
	Set(ctx context.Context, key string, result domain.VerificationResult) error
}

// MemoryCache is the default single-process cache.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

type memoryEntry struct {
	result    domain.VerificationResult
	expiresAt time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (domain.VerificationResult, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return domain.VerificationResult{}, false, nil
	}
	return entry.result, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, result domain.VerificationResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{result: result, expiresAt: time.Now().Add(c.ttl)}
	return nil
}

// RedisCache shares lookup results across instances. Values are JSON with a
// server-side TTL.
type RedisCache struct {
	client *platformredis.Client
	ttl    time.Duration
}

func NewRedisCache(client *platformredis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (domain.VerificationResult, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.VerificationResult{}, false, nil
	}
	if err != nil {
		return domain.VerificationResult{}, false, fmt.Errorf("cache get: %w", err)
	}
	var result domain.VerificationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.VerificationResult{}, false, fmt.Errorf("cache decode: %w", err)
	}
	return result, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, result domain.VerificationResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
