package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/vladislavprovich/nft-indexer/internal/observability"
	"github.com/vladislavprovich/nft-indexer/internal/service"
	"github.com/vladislavprovich/nft-indexer/internal/storage"
	"github.com/vladislavprovich/nft-indexer/pkg/cache"
	"github.com/vladislavprovich/nft-indexer/pkg/client/alchemy"
	"github.com/vladislavprovich/nft-indexer/pkg/logger"
)

// app holds the dependencies shared by every command.
type app struct {
	cfg     *Config
	logger  *logger.Logger
	metrics *observability.Metrics
	rdb     *redis.Client
	service *service.Service
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(ctx, cfg.Logger)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: log}
	a.metrics = initMetrics()

	cacheService, err := a.initCache(ctx)
	if err != nil {
		return nil, err
	}

	baseClient := initBasicClient(ctx, log.Logger, cfg)
	a.service = initService(ctx, log.Logger, baseClient, cacheService, a.metrics, cfg)

	return a, nil
}

func (a *app) close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("close redis", slog.Any("error", err))
		}
	}
}

func initMetrics() *observability.Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return observability.NewMetrics("nft_indexer", reg)
}

// initCache connects to Redis when configured; without it metadata is
// never cached.
func (a *app) initCache(ctx context.Context) (cache.Service, error) {
	if !a.cfg.Cache.Enabled() {
		a.logger.InfoContext(ctx, "redis not configured, metadata cache disabled")
		return cache.Nop{}, nil
	}

	rdb, err := cache.NewRedisClient(ctx, &a.cfg.Cache)
	if err != nil {
		return nil, err
	}
	a.rdb = rdb
	a.logger.InfoContext(ctx, "connected to redis", slog.String("addr", a.cfg.Cache.RedisAddr))

	return cache.NewRedis(rdb, a.cfg.Cache.KeyPrefix), nil
}

func (a *app) queryStore() storage.QueryStore {
	if a.rdb == nil {
		return storage.NewMemoryStore()
	}
	return storage.NewRedisStore(a.rdb, a.cfg.Worker.ResultTTL)
}

func initBasicClient(ctx context.Context, logger *slog.Logger, cfg *Config) *alchemy.BasicClient {
	logger.InfoContext(ctx, "initializing basic client")
	httpClient := &http.Client{
		Timeout: cfg.Server.HTTPClientTimeout,
	}

	return alchemy.NewBasicClient(httpClient, &cfg.Client, logger)
}

func initService(
	ctx context.Context,
	logger *slog.Logger,
	basicClient alchemy.Client,
	cacheService cache.Service,
	metrics *observability.Metrics,
	cfg *Config,
) *service.Service {
	logger.InfoContext(ctx, "initializing service")

	return service.NewNFTService(ctx, logger, basicClient, cacheService, metrics, cfg.Service)
}
