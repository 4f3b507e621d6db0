package signals

import "math"

// clamp restricts a value to a range
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// round rounds to specified decimal places
func round(value float64, places int) float64 {
	mult := math.Pow(10, float64(places))
	return math.Round(value*mult) / mult
}

// valid reports whether a series value is present
func valid(v float64) bool {
	return !math.IsNaN(v)
}

// ptr returns a rounded pointer, or nil for a missing value
func ptr(v float64, places int) *float64 {
	if !valid(v) {
		return nil
	}
	r := round(v, places)
	return &r
}

// pctChange calculates the percentage change from old to new
func pctChange(old, newVal float64) float64 {
	if old == 0 {
		return 0
	}
	return ((newVal - old) / old) * 100
}

// avg calculates the average of all values
func avg(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev calculates the sample standard deviation
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := avg(values)
	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)-1))
}

// last returns the final element of a series, NaN when empty
func last(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

// crossedAbove reports a strict flip from a<b on the previous bar to a>b on the latest
func crossedAbove(prevA, prevB, a, b float64) bool {
	if !valid(prevA) || !valid(prevB) || !valid(a) || !valid(b) {
		return false
	}
	return prevA < prevB && a > b
}

// crossedBelow reports a strict flip from a>b on the previous bar to a<b on the latest
func crossedBelow(prevA, prevB, a, b float64) bool {
	if !valid(prevA) || !valid(prevB) || !valid(a) || !valid(b) {
		return false
	}
	return prevA > prevB && a < b
}
