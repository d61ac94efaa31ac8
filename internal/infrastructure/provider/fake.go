package provider

import (
	"context"
	"time"

	"cryptoprices-service/internal/application"
	"cryptoprices-service/internal/domain"
)

// Ensure Fake implements application.PriceProvider.
var _ application.PriceProvider = (*Fake)(nil)

// Fake emits one deterministic point per day across the range, drifting
// upward from the base price. Used when PROVIDER=fake.
type Fake struct {
	base float64
}

func NewFake(base float64) *Fake { return &Fake{base: base} }

func (f *Fake) FetchRange(_ context.Context, coinID string, from, to time.Time) ([]domain.PricePoint, error) {
	if !domain.ValidateCoinID(coinID) {
		return nil, application.ErrInvalidRequest
	}
	var pts []domain.PricePoint
	day := from.UTC().Truncate(24 * time.Hour)
	for i := 0; !day.After(to); i++ {
		pts = append(pts, domain.PricePoint{
			CoinID: coinID,
			Ts:     day,
			Price:  f.base * (1 + 0.01*float64(i%7)),
		})
		day = day.AddDate(0, 0, 1)
	}
	return pts, nil
}
