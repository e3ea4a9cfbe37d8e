package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/liamcoop/carmatch/matching"
)

const activeKey = "active"

// RedisCache shares the active inventory between server instances. The cars
// are stored as one JSON document that expires after ttl.
type RedisCache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCache creates a Redis-backed Cache. keyPrefix defaults to "inventory:".
func NewRedisCache(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = "inventory:"
	}
	return &RedisCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and checks the server is reachable.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func (c *RedisCache) key() string { return c.keyPrefix + activeKey }

func (c *RedisCache) Get(ctx context.Context) ([]matching.Car, bool, error) {
	val, err := c.client.Get(ctx, c.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get error: %w", err)
	}

	var cars []matching.Car
	if err := json.Unmarshal(val, &cars); err != nil {
		return nil, false, fmt.Errorf("decode cached inventory: %w", err)
	}
	return cars, true, nil
}

func (c *RedisCache) Set(ctx context.Context, cars []matching.Car) error {
	if cars == nil {
		cars = []matching.Car{}
	}
	payload, err := json.Marshal(cars)
	if err != nil {
		return fmt.Errorf("encode inventory: %w", err)
	}
	if err := c.client.Set(ctx, c.key(), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key()).Err(); err != nil {
		return fmt.Errorf("redis del error: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
