package application

import (
	"context"
	"fmt"
	"time"

	"cryptoprices-service/internal/domain"
	"go.uber.org/zap"
)

// CollectorService runs the fetch -> upsert cycle: one provider call
// and one batched write per coin, sequentially. A failed coin aborts
// only that coin's cycle; remaining coins proceed.
type CollectorService struct {
	Provider PriceProvider
	Prices   PriceRepo
	Cache    SummaryCache
	Log      *zap.Logger
}

type CoinResult struct {
	CoinID  string
	Written int
	Err     error
}

// CoinResolver is implemented by providers that can map a human coin
// name ("Bitcoin") to the identifier their API expects ("bitcoin").
type CoinResolver interface {
	ResolveCoinID(ctx context.Context, name string) (string, error)
}

func (c *CollectorService) CollectCoin(ctx context.Context, coinID string, from, to time.Time) (int, error) {
	if !domain.ValidateCoinID(coinID) {
		resolver, ok := c.Provider.(CoinResolver)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrInvalidRequest, coinID)
		}
		resolved, err := resolver.ResolveCoinID(ctx, coinID)
		if err != nil {
			return 0, err
		}
		coinID = resolved
	}
	pts, err := c.Provider.FetchRange(ctx, coinID, from, to)
	if err != nil {
		return 0, err
	}
	n, err := c.Prices.UpsertBatch(ctx, pts)
	if err != nil {
		return 0, err
	}
	if c.Cache != nil {
		_ = c.Cache.InvalidateCoin(ctx, coinID)
	}
	return n, nil
}

// RunCycle processes the coin list in order and reports per coin.
func (c *CollectorService) RunCycle(ctx context.Context, coinIDs []string, from, to time.Time) []CoinResult {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}

	results := make([]CoinResult, 0, len(coinIDs))
	for _, id := range coinIDs {
		n, err := c.CollectCoin(ctx, id, from, to)
		results = append(results, CoinResult{CoinID: id, Written: n, Err: err})
		if err != nil {
			log.Warn("coin_cycle_failed", zap.String("coin_id", id), zap.Error(err))
			continue
		}
		log.Info("coin_collected",
			zap.String("coin_id", id),
			zap.Int("points", n),
			zap.Time("from", from),
			zap.Time("to", to),
		)
	}
	return results
}
