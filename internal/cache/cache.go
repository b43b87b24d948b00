package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a two tier read-through cache: an in-process LRU in front of an
// optional Redis. With a nil Redis client only the LRU is used.
type Cache struct {
	l1     *LRU[string, string]
	l2     *redis.Client
	l2TTL  time.Duration
	prefix string
}

func NewMultiTierCache(l1Capacity int, redisClient *redis.Client, l2TTL time.Duration) *Cache {
	return &Cache{
		l1:     NewLRU[string, string](l1Capacity),
		l2:     redisClient,
		l2TTL:  l2TTL,
		prefix: "blogd:",
	}
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	if val, found := c.l1.Get(key); found {
		return val, true, nil
	}
	if c.l2 == nil {
		return "", false, nil
	}

	val, err := c.l2.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}

	c.l1.Set(key, val)
	return val, true, nil
}

func (c *Cache) Set(ctx context.Context, key, value string) error {
	c.l1.Set(key, value)
	if c.l2 == nil {
		return nil
	}
	if err := c.l2.Set(ctx, c.prefix+key, value, c.l2TTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.l1.Delete(key)
	if c.l2 == nil {
		return nil
	}
	if err := c.l2.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// GetJSON decodes a cached value into dest. A miss returns false with no error.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, found, err := c.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		c.l1.Delete(key)
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}

	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.Set(ctx, key, string(data))
}
