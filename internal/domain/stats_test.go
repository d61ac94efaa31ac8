package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func series(prices ...float64) []PricePoint {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]PricePoint, len(prices))
	for i, p := range prices {
		pts[i] = PricePoint{CoinID: "bitcoin", Ts: base.AddDate(0, 0, i), Price: p}
	}
	return pts
}

func TestMovingAverage(t *testing.T) {
	t.Parallel()
	pts := series(10, 12, 11, 13, 14, 16)

	out := MovingAverage(pts, 5)
	require.Len(t, out, 2)
	require.Equal(t, pts[4].Ts, out[0].Ts)
	require.InDelta(t, 12.0, out[0].Avg, 1e-9)
	require.Equal(t, pts[5].Ts, out[1].Ts)
	require.InDelta(t, 13.2, out[1].Avg, 1e-9)
}

func TestMovingAverage_Length(t *testing.T) {
	t.Parallel()
	pts := series(1, 2, 3, 4, 5, 6, 7, 8, 9)
	for _, w := range []int{1, 3, 5, 9} {
		out := MovingAverage(pts, w)
		require.Len(t, out, len(pts)-w+1, "window %d", w)
		for i, ap := range out {
			var sum float64
			for _, p := range pts[i : i+w] {
				sum += p.Price
			}
			require.InDelta(t, sum/float64(w), ap.Avg, 1e-9)
			require.Equal(t, pts[i+w-1].Ts, ap.Ts)
		}
	}
}

func TestMovingAverage_TooFewPoints(t *testing.T) {
	t.Parallel()
	require.Empty(t, MovingAverage(series(10, 12, 11), 5))
	require.Empty(t, MovingAverage(nil, 5))
}

func TestSummarize_SinglePoint(t *testing.T) {
	t.Parallel()
	s, err := Summarize(series(42.5))
	require.NoError(t, err)
	require.InDelta(t, 42.5, s.Mean, 1e-9)
	require.InDelta(t, 42.5, s.Min, 1e-9)
	require.InDelta(t, 42.5, s.Max, 1e-9)
	require.Zero(t, s.StdDev)
	require.Zero(t, s.PctChange)
	require.Equal(t, 1, s.Points)
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()
	_, err := Summarize(nil)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	s, err := Summarize(series(10, 20, 30))
	require.NoError(t, err)
	require.InDelta(t, 20.0, s.Mean, 1e-9)
	require.InDelta(t, 8.164965809, s.StdDev, 1e-6) // population stddev
	require.InDelta(t, 10.0, s.Min, 1e-9)
	require.InDelta(t, 30.0, s.Max, 1e-9)
	require.InDelta(t, 200.0, s.PctChange, 1e-9)
}

func TestValidateCoinID(t *testing.T) {
	t.Parallel()
	require.True(t, ValidateCoinID("bitcoin"))
	require.True(t, ValidateCoinID("usd-coin"))
	require.True(t, ValidateCoinID("0x"))
	require.False(t, ValidateCoinID(""))
	require.False(t, ValidateCoinID("Bitcoin"))
	require.False(t, ValidateCoinID("-bitcoin"))
	require.False(t, ValidateCoinID("bit coin"))
}
