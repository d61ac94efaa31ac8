package pg

import (
	"context"
	"fmt"
	"time"

	"cryptoprices-service/internal/application"
	"cryptoprices-service/internal/domain"
)

type PriceRepo struct{ db *DB }

func NewPriceRepo(db *DB) *PriceRepo { return &PriceRepo{db: db} }

var _ application.PriceRepo = (*PriceRepo)(nil)

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", application.ErrStorage, op, err)
}

// UpsertBatch writes all points inside one transaction so a failed
// cycle never leaves a partially visible series.
func (r *PriceRepo) UpsertBatch(ctx context.Context, points []domain.PricePoint) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}
	const up = `
        INSERT INTO price_points(coin_id, ts, price, market_cap, volume)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (coin_id, ts) DO UPDATE
          SET price=EXCLUDED.price, market_cap=EXCLUDED.market_cap, volume=EXCLUDED.volume`

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, storageErr("begin", err)
	}
	defer tx.Rollback(ctx)

	for _, p := range points {
		if _, err := tx.Exec(ctx, up, p.CoinID, p.Ts, p.Price, p.MarketCap, p.Volume); err != nil {
			return 0, storageErr("upsert", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, storageErr("commit", err)
	}
	return len(points), nil
}

func (r *PriceRepo) ReadRange(ctx context.Context, coinID string, from, to time.Time) ([]domain.PricePoint, error) {
	const q = `
        SELECT coin_id, ts, price::float8, market_cap::float8, volume::float8
        FROM price_points
        WHERE coin_id=$1 AND ts>=$2 AND ts<=$3
        ORDER BY ts ASC`
	rows, err := r.db.Pool.Query(ctx, q, coinID, from, to)
	if err != nil {
		return nil, storageErr("read range", err)
	}
	defer rows.Close()

	var out []domain.PricePoint
	for rows.Next() {
		var p domain.PricePoint
		if err := rows.Scan(&p.CoinID, &p.Ts, &p.Price, &p.MarketCap, &p.Volume); err != nil {
			return nil, storageErr("scan", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("read range", err)
	}
	return out, nil
}

func (r *PriceRepo) ListCoins(ctx context.Context) ([]domain.CoinInfo, error) {
	const q = `
        SELECT coin_id, COUNT(*)::int, MIN(ts), MAX(ts)
        FROM price_points
        GROUP BY coin_id
        ORDER BY coin_id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, storageErr("list coins", err)
	}
	defer rows.Close()

	var out []domain.CoinInfo
	for rows.Next() {
		var c domain.CoinInfo
		if err := rows.Scan(&c.CoinID, &c.Points, &c.From, &c.To); err != nil {
			return nil, storageErr("scan", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list coins", err)
	}
	return out, nil
}
