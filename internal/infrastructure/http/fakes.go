package httpserver

import (
	"context"
	"time"

	"cryptoprices-service/internal/application"
	"cryptoprices-service/internal/domain"
)

var _ application.PriceRepo = (*fakePriceRepo)(nil)
var _ application.PriceProvider = (*fakeProvider)(nil)

type fakePriceRepo struct {
	store map[string][]domain.PricePoint
}

func (f *fakePriceRepo) UpsertBatch(_ context.Context, pts []domain.PricePoint) (int, error) {
	if f.store == nil {
		f.store = map[string][]domain.PricePoint{}
	}
	for _, p := range pts {
		f.store[p.CoinID] = append(f.store[p.CoinID], p)
	}
	return len(pts), nil
}

func (f *fakePriceRepo) ReadRange(_ context.Context, coinID string, from, to time.Time) ([]domain.PricePoint, error) {
	var out []domain.PricePoint
	for _, p := range f.store[coinID] {
		if !p.Ts.Before(from) && !p.Ts.After(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePriceRepo) ListCoins(_ context.Context) ([]domain.CoinInfo, error) {
	var out []domain.CoinInfo
	for id, pts := range f.store {
		out = append(out, domain.CoinInfo{CoinID: id, Points: len(pts), From: pts[0].Ts, To: pts[len(pts)-1].Ts})
	}
	return out, nil
}

type fakeProvider struct {
	pts []domain.PricePoint
	err error
}

func (f *fakeProvider) FetchRange(_ context.Context, coinID string, _, _ time.Time) ([]domain.PricePoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.PricePoint, len(f.pts))
	for i, p := range f.pts {
		p.CoinID = coinID
		out[i] = p
	}
	return out, nil
}

// NewInMemoryServer builds a Server over in-memory fakes, preloaded
// with the given points.
func NewInMemoryServer(defaults Defaults, points ...domain.PricePoint) (*Server, *fakePriceRepo, *fakeProvider) {
	repo := &fakePriceRepo{}
	_, _ = repo.UpsertBatch(context.Background(), points)
	provider := &fakeProvider{}
	analysis := application.NewAnalysisService(repo, nil, application.WithWindow(defaults.Window))
	collector := &application.CollectorService{Provider: provider, Prices: repo}
	return NewServer(analysis, collector, defaults), repo, provider
}
