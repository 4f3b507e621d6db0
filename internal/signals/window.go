package signals

import "math"

// Sliding-window primitives. Every helper runs one forward pass and marks a
// position NaN when its window is incomplete or contains a missing value.

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// ewm applies the adjust-free recurrence out[t] = out[t-1] + alpha*(v[t]-out[t-1]),
// seeded with the first present value. Missing inputs yield missing outputs
// without resetting the recurrence.
func ewm(values []float64, alpha float64) []float64 {
	out := make([]float64, len(values))
	seeded := false
	prev := 0.0
	for i, v := range values {
		if !valid(v) {
			out[i] = math.NaN()
			continue
		}
		if !seeded {
			prev = v
			seeded = true
		} else {
			prev += alpha * (v - prev)
		}
		out[i] = prev
	}
	return out
}

// ema is ewm with alpha = 2/(span+1)
func ema(values []float64, span int) []float64 {
	return ewm(values, 2/(float64(span)+1))
}

// requireBars masks every position before the bar count reaches minBars.
// The slice is modified in place and returned.
func requireBars(values []float64, minBars int) []float64 {
	for i := 0; i < len(values) && i < minBars-1; i++ {
		values[i] = math.NaN()
	}
	return values
}

// rollingSum sums a trailing window using a running accumulator
func rollingSum(values []float64, window int) []float64 {
	out := nanSeries(len(values))
	if window <= 0 {
		return out
	}
	sum := 0.0
	missing := 0
	for i, v := range values {
		if valid(v) {
			sum += v
		} else {
			missing++
		}
		if i >= window {
			old := values[i-window]
			if valid(old) {
				sum -= old
			} else {
				missing--
			}
		}
		if i >= window-1 && missing == 0 {
			out[i] = sum
		}
	}
	return out
}

// rollingMean is the simple moving average over a trailing window
func rollingMean(values []float64, window int) []float64 {
	out := rollingSum(values, window)
	for i, v := range out {
		if valid(v) {
			out[i] = v / float64(window)
		}
	}
	return out
}

// rollingStd is the sample standard deviation over a trailing window.
// Each window is evaluated in two passes around its mean to avoid the
// cancellation error of a running sum of squares.
func rollingStd(values []float64, window int) []float64 {
	out := nanSeries(len(values))
	means := rollingMean(values, window)
	if window < 2 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		mean := means[i]
		if !valid(mean) {
			continue
		}
		ss := 0.0
		for _, v := range values[i-window+1 : i+1] {
			d := v - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}

// rollingMin returns the trailing-window minimum using a monotonic deque
func rollingMin(values []float64, window int) []float64 {
	return rollingExtreme(values, window, func(a, b float64) bool { return a < b })
}

// rollingMax returns the trailing-window maximum using a monotonic deque
func rollingMax(values []float64, window int) []float64 {
	return rollingExtreme(values, window, func(a, b float64) bool { return a > b })
}

func rollingExtreme(values []float64, window int, better func(a, b float64) bool) []float64 {
	out := nanSeries(len(values))
	if window <= 0 {
		return out
	}
	deque := make([]int, 0, window)
	missing := 0
	for i, v := range values {
		if !valid(v) {
			missing++
		}
		if i >= window && !valid(values[i-window]) {
			missing--
		}
		for len(deque) > 0 && deque[0] <= i-window {
			deque = deque[1:]
		}
		if valid(v) {
			for len(deque) > 0 && !better(values[deque[len(deque)-1]], v) {
				deque = deque[:len(deque)-1]
			}
			deque = append(deque, i)
		}
		if i >= window-1 && missing == 0 && len(deque) > 0 {
			out[i] = values[deque[0]]
		}
	}
	return out
}
