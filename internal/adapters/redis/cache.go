package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/UCgr8/needsites-public-sub000/internal/pkg/kv"
)

// Cache implements kv.Store on Redis. Drafts and submission throttle
// stamps live here; every operation is a single Redis command, so the
// per-call atomicity contract holds for free.
type Cache struct {
	client *goredis.Client
}

func NewCache(client *goredis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", kv.ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *Cache) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := c.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// go-redis reports a missing key as -2 and a key without expiry as -1.
	if ttl == time.Duration(-2) {
		return 0, kv.ErrNotFound
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
