package main

import (
	"context"
	"os"

	"cryptoprices-service/internal/bootstrap"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

// Runs one collection cycle over the configured coin list and window.
// Coins fail independently; all coins are attempted before the process
// exits, non-zero if any coin's cycle failed.
func main() {
	ctx := context.Background()
	logger := bootstrap.ProvideLogger()
	cfg := bootstrap.ProvideConfig()

	db, closeDB, err := bootstrap.ProvideDB(ctx, logger, cfg)
	if err != nil {
		logger.Fatal("bootstrap db", zap.Error(err))
	}

	cache, closeCache, err := bootstrap.ProvideSummaryCache(cfg)
	if err != nil {
		closeDB()
		logger.Fatal("bootstrap cache", zap.Error(err))
	}

	repo := bootstrap.ProvidePriceRepo(db)
	priceProvider := bootstrap.ProvidePriceProvider(cfg)
	collector := bootstrap.ProvideCollectorService(priceProvider, repo, cache, logger)

	logger.Info("collection_cycle_started",
		zap.Strings("coins", cfg.Coins),
		zap.Time("from", cfg.WindowStart),
		zap.Time("to", cfg.WindowEnd),
	)

	results := collector.RunCycle(ctx, cfg.Coins, cfg.WindowStart, cfg.WindowEnd)
	var failed, written int
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		written += res.Written
	}
	logger.Info("collection_cycle_finished",
		zap.Int("coins", len(results)),
		zap.Int("failed", failed),
		zap.Int("points_written", written),
	)

	closeCache()
	closeDB()
	if failed > 0 {
		os.Exit(1)
	}
}
