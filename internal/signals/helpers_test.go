package signals

import (
	"time"

	"github.com/ternarybob/tradepilot/internal/models"
)

var testStart = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// barsFromCloses builds daily bars around each close with a ±spread band
func barsFromCloses(closes []float64, spread float64) []models.Bar {
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		bars[i] = models.Bar{
			Timestamp: testStart.AddDate(0, 0, i),
			Open:      open,
			High:      c * (1 + spread),
			Low:       c * (1 - spread),
			Close:     c,
			Volume:    1_000_000,
		}
	}
	return bars
}

// geometric returns n closes compounding at rate per bar
func geometric(n int, start, rate float64) []float64 {
	out := make([]float64, n)
	c := start
	for i := range out {
		out[i] = c
		c *= 1 + rate
	}
	return out
}

// zigzag alternates +up and -down moves so losses are never zero
func zigzag(n int, start, up, down float64) []float64 {
	out := make([]float64, n)
	c := start
	for i := range out {
		out[i] = c
		if i%2 == 0 {
			c += up
		} else {
			c -= down
		}
	}
	return out
}

// trendWithPullbacks rises steadily with a small dip every fifth bar
func trendWithPullbacks(n int, start, end float64) []float64 {
	out := make([]float64, n)
	step := (end - start) / float64(n-1) * 1.1
	c := start
	for i := range out {
		out[i] = c
		if i%5 == 3 {
			c -= step * 0.4
		} else {
			c += step
		}
	}
	return out
}
