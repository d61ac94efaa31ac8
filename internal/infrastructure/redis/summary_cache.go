package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cryptoprices-service/internal/application"
	"cryptoprices-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

var _ application.SummaryCache = (*SummaryCache)(nil)

// SummaryCache keeps computed summaries keyed by coin and range so the
// dashboard does not recompute on every render. Entries expire by TTL
// and are dropped per coin after a collection cycle.
type SummaryCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{Client: client, TTL: ttl}
}

func key(coinID string, from, to time.Time) string {
	return fmt.Sprintf("summary:%s:%d:%d", coinID, from.Unix(), to.Unix())
}

func (c *SummaryCache) Get(ctx context.Context, coinID string, from, to time.Time) (domain.Summary, bool, error) {
	raw, err := c.Client.Get(ctx, key(coinID, from, to)).Bytes()
	if err == redis.Nil {
		return domain.Summary{}, false, nil
	}
	if err != nil {
		return domain.Summary{}, false, err
	}
	var s domain.Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Summary{}, false, err
	}
	return s, true, nil
}

func (c *SummaryCache) Set(ctx context.Context, coinID string, from, to time.Time, s domain.Summary) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key(coinID, from, to), raw, c.TTL).Err()
}

func (c *SummaryCache) InvalidateCoin(ctx context.Context, coinID string) error {
	iter := c.Client.Scan(ctx, 0, "summary:"+coinID+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.Client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
