package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cryptoprices-service/internal/application"
	"cryptoprices-service/internal/config"
	"cryptoprices-service/internal/infrastructure/httpx"
	"cryptoprices-service/internal/infrastructure/logx"
	"cryptoprices-service/internal/infrastructure/pg"
	"cryptoprices-service/internal/infrastructure/provider"
	redisstore "cryptoprices-service/internal/infrastructure/redis"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrMissingDBURL = errors.New("DATABASE_URL is required")

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

func ProvideDB(ctx context.Context, log *zap.Logger, cfg config.Config) (*pg.DB, func(), error) {
	if cfg.DatabaseURL == "" {
		return nil, func() {}, ErrMissingDBURL
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, func() {}, err
	}
	if err := pg.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, func() {}, err
	}
	cleanup := func() {
		if log != nil {
			log.Info("closing pg")
		}
		db.Close()
	}
	return db, cleanup, nil
}

func ProvidePriceRepo(db *pg.DB) application.PriceRepo { return pg.NewPriceRepo(db) }

// ProvideSummaryCache returns the Redis-backed cache, or a noop when
// CACHE_BACKEND is not "redis".
func ProvideSummaryCache(cfg config.Config) (application.SummaryCache, func(), error) {
	if cfg.CacheBackend != "redis" {
		return application.NoopCache{}, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return redisstore.New(client, cfg.CacheTTL), func() { _ = client.Close() }, nil
}

func ProvidePriceProvider(cfg config.Config) application.PriceProvider {
	switch cfg.Provider {
	case "coingecko":
		interval := time.Duration(0)
		if cfg.RatePerMinute > 0 {
			interval = time.Minute / time.Duration(cfg.RatePerMinute)
		}
		return &provider.CoinGeckoProvider{
			BaseURL:    cfg.CoinGeckoBase,
			VsCurrency: cfg.VsCurrency,
			Client: &httpx.Client{
				HTTP:      &http.Client{Timeout: cfg.RequestTimeout},
				APIKey:    cfg.CoinGeckoAPIKey,
				KeyHeader: "x-cg-demo-api-key",
			},
			MinRequestInterval: interval,
		}
	default:
		return provider.NewFake(100.0)
	}
}

func ProvideAnalysisService(repo application.PriceRepo, cache application.SummaryCache, cfg config.Config) *application.AnalysisService {
	return application.NewAnalysisService(repo, cache, application.WithWindow(cfg.MovingAvgWindow))
}

func ProvideCollectorService(p application.PriceProvider, repo application.PriceRepo, cache application.SummaryCache, log *zap.Logger) *application.CollectorService {
	return &application.CollectorService{Provider: p, Prices: repo, Cache: cache, Log: log}
}
