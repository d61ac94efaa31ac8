package application

import (
	"context"
	"time"

	"cryptoprices-service/internal/domain"
)

type fakePriceRepo struct {
	store map[string][]domain.PricePoint
	err   error
	reads int
}

func (f *fakePriceRepo) UpsertBatch(_ context.Context, pts []domain.PricePoint) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.store == nil {
		f.store = map[string][]domain.PricePoint{}
	}
	for _, p := range pts {
		replaced := false
		for i, old := range f.store[p.CoinID] {
			if old.Ts.Equal(p.Ts) {
				f.store[p.CoinID][i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			f.store[p.CoinID] = append(f.store[p.CoinID], p)
		}
	}
	return len(pts), nil
}

func (f *fakePriceRepo) ReadRange(_ context.Context, coinID string, from, to time.Time) ([]domain.PricePoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.reads++
	var out []domain.PricePoint
	for _, p := range f.store[coinID] {
		if !p.Ts.Before(from) && !p.Ts.After(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePriceRepo) ListCoins(_ context.Context) ([]domain.CoinInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.CoinInfo
	for id, pts := range f.store {
		info := domain.CoinInfo{CoinID: id, Points: len(pts)}
		for _, p := range pts {
			if info.From.IsZero() || p.Ts.Before(info.From) {
				info.From = p.Ts
			}
			if p.Ts.After(info.To) {
				info.To = p.Ts
			}
		}
		out = append(out, info)
	}
	return out, nil
}

type fakeProvider struct {
	out map[string][]domain.PricePoint
	err error
}

func (f *fakeProvider) FetchRange(_ context.Context, coinID string, _, _ time.Time) ([]domain.PricePoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	pts, ok := f.out[coinID]
	if !ok {
		return nil, ErrInvalidRequest
	}
	return pts, nil
}

type memCache struct {
	entries     map[string]domain.Summary
	invalidated []string
}

func cacheKey(coinID string, from, to time.Time) string {
	return coinID + ":" + from.UTC().Format(time.RFC3339) + ":" + to.UTC().Format(time.RFC3339)
}

func (m *memCache) Get(_ context.Context, coinID string, from, to time.Time) (domain.Summary, bool, error) {
	s, ok := m.entries[cacheKey(coinID, from, to)]
	return s, ok, nil
}

func (m *memCache) Set(_ context.Context, coinID string, from, to time.Time, s domain.Summary) error {
	if m.entries == nil {
		m.entries = map[string]domain.Summary{}
	}
	m.entries[cacheKey(coinID, from, to)] = s
	return nil
}

func (m *memCache) InvalidateCoin(_ context.Context, coinID string) error {
	m.invalidated = append(m.invalidated, coinID)
	for k := range m.entries {
		if len(k) >= len(coinID) && k[:len(coinID)] == coinID {
			delete(m.entries, k)
		}
	}
	return nil
}

func daily(coinID string, start time.Time, prices ...float64) []domain.PricePoint {
	pts := make([]domain.PricePoint, len(prices))
	for i, p := range prices {
		pts[i] = domain.PricePoint{CoinID: coinID, Ts: start.AddDate(0, 0, i), Price: p}
	}
	return pts
}
