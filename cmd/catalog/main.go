package main

import (
	"context"
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"CarShelf/internal/catalog"
	"CarShelf/internal/config"
	"CarShelf/pkg/kit"
)

func main() {
	service := "catalog"

	cfg, err := config.Load()
	if err != nil {
		log := kit.NewLogger(service, "info")
		log.Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	repo, db, err := openRepository(ctx, cfg.Catalog)
	if err != nil {
		log.Fatal("load inventory failed", zap.Error(err), zap.String("source", cfg.Catalog.Source))
	}
	if db != nil {
		defer db.Close()
	}
	log.Info("inventory loaded", zap.String("source", cfg.Catalog.Source), zap.Int("items", len(repo.All())))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := &catalog.Service{
		Repo:         repo,
		DefaultLimit: cfg.Catalog.DefaultLimit,
		Delay:        cfg.Catalog.Delay,
		Metrics:      catalog.NewMetrics(reg),
		Log:          log,
	}

	s := &catalog.Server{
		Service: svc,
		Log:     log,
		Ready:   []catalog.Pinger{repo},
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		cache := catalog.NewRedisCache(rdb, cfg.Redis.TTL, log)
		svc.Cache = cache
		s.Ready = append(s.Ready, cache)
	}

	if cfg.HTTP.RateLimitRPS > 0 {
		s.Limiter = kit.NewIPRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.HTTP.MetricsEnabled,
		MetricsToken:   cfg.HTTP.MetricsToken,
		CORSOrigin:     cfg.HTTP.CORSOrigin,
		Tracing:        cfg.HTTP.Tracing,
	})

	if err := kit.RunHTTPServer(ctx, cfg.Addr(), h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

type repository interface {
	catalog.Repository
	catalog.Pinger
}

func openRepository(ctx context.Context, cfg config.CatalogConfig) (repository, *sql.DB, error) {
	switch cfg.Source {
	case config.SourceFile:
		r, err := catalog.LoadFile(cfg.File)
		if err != nil {
			return nil, nil, err
		}
		return r, nil, nil
	case config.SourcePostgres:
		db, err := catalog.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		r, err := catalog.LoadPostgres(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return r, db, nil
	default:
		return catalog.NewSeedRepository(), nil, nil
	}
}
