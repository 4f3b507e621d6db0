package signals

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// divergenceFixture returns flat high/low/rsi arrays of n bars
func divergenceFixture(n int) (high, low, rsi []float64) {
	high = make([]float64, n)
	low = make([]float64, n)
	rsi = make([]float64, n)
	for i := 0; i < n; i++ {
		high[i] = 10
		low[i] = 5
		rsi[i] = 50
	}
	return high, low, rsi
}

func TestDetectDivergence(t *testing.T) {
	const n = divergenceMinBars
	recent := func(i int) bool { return i >= n-divergenceRecent }

	tests := []struct {
		name  string
		setup func(high, low, rsi []float64)
		want  DivergenceLabel
	}{
		{
			name:  "flat",
			setup: func(high, low, rsi []float64) {},
			want:  DivergenceNone,
		},
		{
			name: "bullish",
			setup: func(high, low, rsi []float64) {
				for i := range low {
					if recent(i) {
						low[i] = 4
						rsi[i] = 40
					} else {
						rsi[i] = 30
					}
				}
			},
			want: DivergenceBullish,
		},
		{
			name: "bearish",
			setup: func(high, low, rsi []float64) {
				for i := range high {
					if recent(i) {
						high[i] = 11
						rsi[i] = 50
					} else {
						rsi[i] = 60
					}
				}
			},
			want: DivergenceBearish,
		},
		{
			name: "bearish wins when both hold",
			setup: func(high, low, rsi []float64) {
				for i := range high {
					switch {
					case recent(i):
						high[i] = 11
						low[i] = 4
						rsi[i] = 50
					case i%2 == 0:
						rsi[i] = 20
					default:
						rsi[i] = 80
					}
				}
			},
			want: DivergenceBearish,
		},
		{
			name: "lower low on first recent bar",
			setup: func(high, low, rsi []float64) {
				for i := range rsi {
					if !recent(i) {
						rsi[i] = 30
					}
				}
				low[n-divergenceRecent] = 4
				rsi[n-divergenceRecent] = 40
			},
			want: DivergenceBullish,
		},
		{
			name: "lower low on last prior bar",
			setup: func(high, low, rsi []float64) {
				for i := range rsi {
					if !recent(i) {
						rsi[i] = 30
					}
				}
				low[n-1-divergenceRecent] = 4
			},
			want: DivergenceNone,
		},
		{
			name: "higher high on first recent bar",
			setup: func(high, low, rsi []float64) {
				for i := range rsi {
					if !recent(i) {
						rsi[i] = 70
					}
				}
				high[n-divergenceRecent] = 11
				rsi[n-divergenceRecent] = 60
			},
			want: DivergenceBearish,
		},
		{
			name: "higher high on last prior bar",
			setup: func(high, low, rsi []float64) {
				for i := range rsi {
					if !recent(i) {
						rsi[i] = 70
					}
				}
				high[n-1-divergenceRecent] = 11
			},
			want: DivergenceNone,
		},
		{
			name: "missing rsi at window start",
			setup: func(high, low, rsi []float64) {
				for i := range low {
					if recent(i) {
						low[i] = 4
						rsi[i] = 40
					} else {
						rsi[i] = 30
					}
				}
				rsi[n-1-divergenceLookback] = math.NaN()
			},
			want: DivergenceNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			high, low, rsi := divergenceFixture(n)
			tt.setup(high, low, rsi)
			out := detectDivergence(high, low, rsi)
			assert.Equal(t, tt.want, out[n-1])
			for i := 0; i < n-1; i++ {
				assert.Equal(t, DivergenceNone, out[i])
			}
		})
	}
}

func TestDetectDivergence_ShortSeries(t *testing.T) {
	high, low, rsi := divergenceFixture(divergenceMinBars - 1)
	for i := range low {
		low[i] = float64(100 - i)
	}
	out := detectDivergence(high, low, rsi)
	assert.Len(t, out, divergenceMinBars-1)
	for _, label := range out {
		assert.Equal(t, DivergenceNone, label)
	}
}

func TestDetectDivergence_LaterBar(t *testing.T) {
	const n, at = 40, 30
	high, low, rsi := divergenceFixture(n)
	for i := at - divergenceLookback; i <= at-divergenceRecent; i++ {
		rsi[i] = 30
	}
	for i := at - divergenceRecent + 1; i <= at; i++ {
		low[i] = 4
		rsi[i] = 40
	}

	out := detectDivergence(high, low, rsi)
	assert.Equal(t, DivergenceBullish, out[at])
	for i := 0; i < at-divergenceRecent; i++ {
		assert.Equal(t, DivergenceNone, out[i], "bar %d", i)
	}
}
