package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"slate-api/domain"
)

type backend interface {
	LoadBoard(ctx context.Context) (*domain.Board, error)
	SaveBoard(ctx context.Context, b *domain.Board) error
}

// Cache wraps a document store with Redis-backed caching for reads. Writes go
// straight through and evict the cached document.
type Cache struct {
	base  backend
	redis *redis.Client
	ttl   time.Duration
	key   string
}

// NewCache creates a caching wrapper using the provided Redis client and TTL.
func NewCache(base backend, client *redis.Client, ttl time.Duration, key string) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	if key == "" {
		key = "board:cache"
	}
	return &Cache{base: base, redis: client, ttl: ttl, key: key}
}

func (c *Cache) LoadBoard(ctx context.Context) (*domain.Board, error) {
	if b, ok := c.loadFromCache(ctx); ok {
		return b, nil
	}
	b, err := c.base.LoadBoard(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, b)
	return b, nil
}

func (c *Cache) SaveBoard(ctx context.Context, b *domain.Board) error {
	if err := c.base.SaveBoard(ctx, b); err != nil {
		return err
	}
	c.evict(ctx)
	return nil
}

func (c *Cache) loadFromCache(ctx context.Context) (*domain.Board, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, c.key).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing storage without failing.
			_ = c.redis.Del(ctx, c.key).Err()
		}
		return nil, false
	}
	var b domain.Board
	if err := json.Unmarshal(data, &b); err != nil {
		_ = c.redis.Del(ctx, c.key).Err()
		return nil, false
	}
	return &b, true
}

func (c *Cache) store(ctx context.Context, b *domain.Board) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(b)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, c.key, data, c.ttl).Err()
}

func (c *Cache) evict(ctx context.Context) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, c.key).Result()
}
