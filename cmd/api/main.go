package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptoprices-service/internal/bootstrap"
	httpserver "cryptoprices-service/internal/infrastructure/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	ctx := context.Background()
	logger := bootstrap.ProvideLogger()
	cfg := bootstrap.ProvideConfig()
	addr := ":" + cfg.Port

	db, closeDB, err := bootstrap.ProvideDB(ctx, logger, cfg)
	if err != nil {
		logger.Fatal("bootstrap db", zap.Error(err))
	}
	defer closeDB()

	cache, closeCache, err := bootstrap.ProvideSummaryCache(cfg)
	if err != nil {
		logger.Fatal("bootstrap cache", zap.Error(err))
	}
	defer closeCache()

	repo := bootstrap.ProvidePriceRepo(db)
	priceProvider := bootstrap.ProvidePriceProvider(cfg)
	analysis := bootstrap.ProvideAnalysisService(repo, cache, cfg)
	collector := bootstrap.ProvideCollectorService(priceProvider, repo, cache, logger)

	srv := httpserver.NewServer(analysis, collector, httpserver.Defaults{
		From:   cfg.WindowStart,
		To:     cfg.WindowEnd,
		Window: cfg.MovingAvgWindow,
	}, httpserver.WithPing(db.Ping))
	mux := httpserver.NewRouter(srv)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
