package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cryptoprices-service/internal/domain"
)

const defaultWindow = 5

// AnalysisService answers the dashboard's read path: Store -> stats.
type AnalysisService struct {
	prices PriceRepo
	cache  SummaryCache
	window int
}

type Option func(*AnalysisService)

// WithWindow overrides the default moving-average window.
func WithWindow(w int) Option { return func(s *AnalysisService) { s.window = w } }

func NewAnalysisService(prices PriceRepo, cache SummaryCache, opts ...Option) *AnalysisService {
	s := &AnalysisService{prices: prices, cache: cache}
	for _, opt := range opts {
		opt(s)
	}
	if s.window <= 0 {
		s.window = defaultWindow
	}
	if s.cache == nil {
		s.cache = NoopCache{}
	}
	return s
}

type Series struct {
	CoinID    string
	Window    int
	Points    []domain.PricePoint
	MovingAvg []domain.AveragePoint
}

type Comparison struct {
	Summaries map[string]domain.Summary
	Best      string
	Worst     string
}

func (s *AnalysisService) Coins(ctx context.Context) ([]domain.CoinInfo, error) {
	return s.prices.ListCoins(ctx)
}

// Series returns the stored points for a coin plus its moving average.
// window <= 0 selects the configured default.
func (s *AnalysisService) Series(ctx context.Context, coinID string, from, to time.Time, window int) (Series, error) {
	if !domain.ValidateCoinID(coinID) {
		return Series{}, fmt.Errorf("%w: %s", ErrInvalidRequest, coinID)
	}
	if window <= 0 {
		window = s.window
	}
	pts, err := s.prices.ReadRange(ctx, coinID, from, to)
	if err != nil {
		return Series{}, err
	}
	if len(pts) == 0 {
		return Series{}, fmt.Errorf("%w: no data for %s", ErrNotFound, coinID)
	}
	return Series{
		CoinID:    coinID,
		Window:    window,
		Points:    pts,
		MovingAvg: domain.MovingAverage(pts, window),
	}, nil
}

// Summary computes the aggregate statistics for a coin over a range,
// read-through via the summary cache.
func (s *AnalysisService) Summary(ctx context.Context, coinID string, from, to time.Time) (domain.Summary, error) {
	if !domain.ValidateCoinID(coinID) {
		return domain.Summary{}, fmt.Errorf("%w: %s", ErrInvalidRequest, coinID)
	}
	if cached, ok, err := s.cache.Get(ctx, coinID, from, to); err == nil && ok {
		return cached, nil
	}
	pts, err := s.prices.ReadRange(ctx, coinID, from, to)
	if err != nil {
		return domain.Summary{}, err
	}
	sum, err := domain.Summarize(pts)
	if err != nil {
		return domain.Summary{}, err
	}
	_ = s.cache.Set(ctx, coinID, from, to, sum)
	return sum, nil
}

// Compare summarizes each requested coin; coins without data in the
// range are skipped. All coins empty is an ErrInsufficientData.
func (s *AnalysisService) Compare(ctx context.Context, coinIDs []string, from, to time.Time) (Comparison, error) {
	if len(coinIDs) == 0 {
		return Comparison{}, fmt.Errorf("%w: no coins requested", ErrInvalidRequest)
	}
	cmp := Comparison{Summaries: make(map[string]domain.Summary, len(coinIDs))}
	for _, id := range coinIDs {
		sum, err := s.Summary(ctx, id, from, to)
		if err != nil {
			if isEmptySeries(err) {
				continue
			}
			return Comparison{}, err
		}
		cmp.Summaries[id] = sum
		if cmp.Best == "" || sum.PctChange > cmp.Summaries[cmp.Best].PctChange {
			cmp.Best = id
		}
		if cmp.Worst == "" || sum.PctChange < cmp.Summaries[cmp.Worst].PctChange {
			cmp.Worst = id
		}
	}
	if len(cmp.Summaries) == 0 {
		return Comparison{}, fmt.Errorf("%w: no data for any of the requested coins", domain.ErrInsufficientData)
	}
	return cmp, nil
}

func isEmptySeries(err error) bool {
	return errors.Is(err, domain.ErrInsufficientData) || errors.Is(err, ErrNotFound)
}
