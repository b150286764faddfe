package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "cars:"

var ErrCacheMiss = errors.New("cache miss")

// ResultCache stores evaluated results by their canonical query key.
type ResultCache interface {
	Get(ctx context.Context, key string) (Result, error)
	Set(ctx context.Context, key string, res Result) error
	Ping(ctx context.Context) error
}

// CacheKey is stable for equal queries: url.Values.Encode sorts by key.
func CacheKey(q Query) string {
	return cacheKeyPrefix + q.Values().Encode()
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

var _ ResultCache = (*RedisCache)(nil)

func NewRedisCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("component", "cache")),
	}
}

type cachedResult struct {
	Cars        []Item `json:"cars"`
	TotalCars   int    `json:"totalCars"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	ByID        bool   `json:"byId"`
}

func (c *RedisCache) Get(ctx context.Context, key string) (Result, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Result{}, ErrCacheMiss
	}
	if err != nil {
		return Result{}, fmt.Errorf("redis get: %w", err)
	}

	var cr cachedResult
	if err := json.Unmarshal(data, &cr); err != nil {
		c.log.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, key).Err()
		return Result{}, ErrCacheMiss
	}

	return Result{
		Cars:        cr.Cars,
		TotalCars:   cr.TotalCars,
		TotalPages:  cr.TotalPages,
		CurrentPage: cr.CurrentPage,
		ByID:        cr.ByID,
	}, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, res Result) error {
	data, err := json.Marshal(cachedResult{
		Cars:        res.Cars,
		TotalCars:   res.TotalCars,
		TotalPages:  res.TotalPages,
		CurrentPage: res.CurrentPage,
		ByID:        res.ByID,
	})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return c.client.Ping(ctx).Err()
	})
}
