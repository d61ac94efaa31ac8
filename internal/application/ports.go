package application

import (
	"context"
	"time"

	"cryptoprices-service/internal/domain"
)

type PriceRepo interface {
	// UpsertBatch writes all points in one transaction and returns the
	// number of rows written. Last write wins on (coin_id, ts).
	UpsertBatch(ctx context.Context, points []domain.PricePoint) (int, error)
	// ReadRange returns the points for coinID with from <= ts <= to,
	// ascending by timestamp.
	ReadRange(ctx context.Context, coinID string, from, to time.Time) ([]domain.PricePoint, error)
	ListCoins(ctx context.Context) ([]domain.CoinInfo, error)
}

type PriceProvider interface {
	FetchRange(ctx context.Context, coinID string, from, to time.Time) ([]domain.PricePoint, error)
}

// SummaryCache holds computed summaries keyed by coin and range.
// A miss is (Summary{}, false, nil); cache failures are non-fatal to
// callers, which fall back to recomputing.
type SummaryCache interface {
	Get(ctx context.Context, coinID string, from, to time.Time) (domain.Summary, bool, error)
	Set(ctx context.Context, coinID string, from, to time.Time, s domain.Summary) error
	InvalidateCoin(ctx context.Context, coinID string) error
}
