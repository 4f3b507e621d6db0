package models

import (
	"fmt"
	"math"
	"time"
)

// Bar is a single OHLCV observation
type Bar struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp" validate:"required"`
	Open      float64   `json:"open" yaml:"open" validate:"gt=0"`
	High      float64   `json:"high" yaml:"high" validate:"gt=0"`
	Low       float64   `json:"low" yaml:"low" validate:"gt=0"`
	Close     float64   `json:"close" yaml:"close" validate:"gt=0"`
	Volume    float64   `json:"volume" yaml:"volume" validate:"gte=0"`
}

// TypicalPrice returns (high + low + close) / 3
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

func (b Bar) finite() bool {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ValidateBars rejects sequences that would corrupt every derived series:
// empty input, non-positive or non-finite prices, negative volume, and
// timestamps that are not strictly increasing. Bars are never re-sorted.
func ValidateBars(bars []Bar) error {
	if len(bars) == 0 {
		return fmt.Errorf("%w: bar sequence is empty", ErrMalformedInput)
	}
	for i := range bars {
		b := bars[i]
		if !b.finite() {
			return fmt.Errorf("%w: bar %d has a non-finite field", ErrMalformedInput, i)
		}
		if err := validate.Struct(b); err != nil {
			return fmt.Errorf("%w: bar %d: %v", ErrMalformedInput, i, err)
		}
		if i > 0 && !b.Timestamp.After(bars[i-1].Timestamp) {
			if b.Timestamp.Equal(bars[i-1].Timestamp) {
				return fmt.Errorf("%w: bar %d duplicates timestamp %s", ErrMalformedInput, i, b.Timestamp.Format(time.RFC3339))
			}
			return fmt.Errorf("%w: bar %d is out of order (%s before %s)", ErrMalformedInput, i,
				b.Timestamp.Format(time.RFC3339), bars[i-1].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}

// Closes extracts the close column
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
