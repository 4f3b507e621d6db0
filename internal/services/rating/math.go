package rating

import "github.com/shopspring/decimal"

// ClampFloat64 constrains a value to a range
func ClampFloat64(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// clampScore restricts a component score to 0-100
func clampScore(score float64) float64 {
	return ClampFloat64(score, 0, 100)
}

// RoundTo rounds half away from zero in decimal arithmetic, so 80.45
// rounds to 80.5 regardless of its binary representation
func RoundTo(value float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(value).Round(places).Float64()
	return f
}
