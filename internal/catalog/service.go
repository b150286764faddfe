package catalog

import (
	"context"
	"errors"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Service answers catalog lookups against a fixed repository.
// It holds no state between calls.
type Service struct {
	Repo         Repository
	DefaultLimit int

	// Delay is waited before every answer to mimic network latency.
	Delay time.Duration

	Cache   ResultCache
	Metrics *Metrics
	Log     *zap.Logger
}

// Handle parses params, waits Delay and evaluates the query. The only
// error is the context's, when it ends during the wait.
func (s *Service) Handle(ctx context.Context, params url.Values) (Result, error) {
	q := ParseQuery(params, s.DefaultLimit)
	return s.Query(ctx, q)
}

func (s *Service) Query(ctx context.Context, q Query) (Result, error) {
	if err := sleep(ctx, s.Delay); err != nil {
		return Result{}, err
	}

	res, cached := s.fromCache(ctx, q)
	if !cached {
		res = Evaluate(s.Repo, q)
		s.toCache(ctx, q, res)
	}

	s.Metrics.observe(q, res)
	return res, nil
}

func (s *Service) Facets() Facets {
	return BuildFacets(s.Repo)
}

func (s *Service) fromCache(ctx context.Context, q Query) (Result, bool) {
	if s.Cache == nil {
		return Result{}, false
	}

	res, err := s.Cache.Get(ctx, CacheKey(q))
	switch {
	case err == nil:
		s.Metrics.cache(cacheHit)
		return res, true
	case errors.Is(err, ErrCacheMiss):
		s.Metrics.cache(cacheMiss)
	default:
		s.Metrics.cache(cacheError)
		s.logger().Warn("cache get failed", zap.Error(err))
	}
	return Result{}, false
}

func (s *Service) toCache(ctx context.Context, q Query, res Result) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, CacheKey(q), res); err != nil {
		s.logger().Warn("cache set failed", zap.Error(err))
	}
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
