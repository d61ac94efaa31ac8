package application

import (
	"context"
	"time"

	"cryptoprices-service/internal/domain"
)

// NoopCache never hits; useful for tests/dev when Redis is disabled.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, time.Time, time.Time) (domain.Summary, bool, error) {
	return domain.Summary{}, false, nil
}

func (NoopCache) Set(context.Context, string, time.Time, time.Time, domain.Summary) error {
	return nil
}

func (NoopCache) InvalidateCoin(context.Context, string) error { return nil }
