package domain

import (
	"math"
	"time"
)

// AveragePoint is one value of a trailing moving average, stamped with
// the timestamp of the last point in its window.
type AveragePoint struct {
	Ts  time.Time
	Avg float64
}

// Summary holds the aggregate statistics for one coin's series.
type Summary struct {
	Mean      float64
	StdDev    float64
	Min       float64
	Max       float64
	PctChange float64
	Points    int
}

// MovingAverage computes the trailing mean of the last window prices,
// inclusive of the current point. No partial windows: the first
// window-1 points produce no output, and fewer than window points
// produce an empty result.
func MovingAverage(points []PricePoint, window int) []AveragePoint {
	if window <= 0 || len(points) < window {
		return nil
	}
	out := make([]AveragePoint, 0, len(points)-window+1)
	var sum float64
	for i, p := range points {
		sum += p.Price
		if i >= window {
			sum -= points[i-window].Price
		}
		if i >= window-1 {
			out = append(out, AveragePoint{Ts: p.Ts, Avg: sum / float64(window)})
		}
	}
	return out
}

// Summarize computes mean, population standard deviation, min, max and
// percent change from first to last point. An empty series is an
// ErrInsufficientData; a single point yields stddev 0 and change 0.
func Summarize(points []PricePoint) (Summary, error) {
	if len(points) == 0 {
		return Summary{}, ErrInsufficientData
	}

	s := Summary{
		Min:    points[0].Price,
		Max:    points[0].Price,
		Points: len(points),
	}
	var sum float64
	for _, p := range points {
		sum += p.Price
		if p.Price < s.Min {
			s.Min = p.Price
		}
		if p.Price > s.Max {
			s.Max = p.Price
		}
	}
	s.Mean = sum / float64(len(points))

	var sq float64
	for _, p := range points {
		d := p.Price - s.Mean
		sq += d * d
	}
	s.StdDev = math.Sqrt(sq / float64(len(points)))

	first, last := points[0].Price, points[len(points)-1].Price
	if first != 0 {
		s.PctChange = (last - first) / first * 100
	}
	return s, nil
}
