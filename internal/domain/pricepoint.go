package domain

import "time"

// PricePoint is one observation of a coin's market state. The natural
// key is (CoinID, Ts); the store upserts on it with last write wins.
type PricePoint struct {
	CoinID    string
	Ts        time.Time
	Price     float64
	MarketCap float64
	Volume    float64
}

// CoinInfo describes the stored coverage for one coin.
type CoinInfo struct {
	CoinID string
	Points int
	From   time.Time
	To     time.Time
}
