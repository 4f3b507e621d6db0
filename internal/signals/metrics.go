package signals

import (
	"fmt"
	"math"
	"strings"

	"github.com/ternarybob/tradepilot/internal/models"
)

const (
	metricsMinBars   = 10
	metricsRSIPeriod = 14
	volatilityWindow = 20
	tradingYear      = 252
)

// Instrument describes a cross-asset proxy
type Instrument struct {
	Ticker      string `json:"ticker"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Instruments returns the fixed cross-asset catalogue
func Instruments() []Instrument {
	return []Instrument{
		{"TLT", "20+ Year Treasury Bond", "bonds", "Long-duration treasuries, flight to safety and rate expectations"},
		{"IEF", "7-10 Year Treasury Bond", "bonds", "Intermediate treasuries, the belly of the curve"},
		{"SHY", "1-3 Year Treasury Bond", "bonds", "Short-duration treasuries, policy rate proxy"},
		{"HYG", "High Yield Corporate Bond", "credit", "Junk bonds, credit stress barometer"},
		{"LQD", "Investment Grade Corporate Bond", "credit", "Investment grade corporates, credit quality flight"},
		{"GLD", "Gold", "commodities", "Inflation hedge, fear trade, dollar inverse"},
		{"USO", "US Oil Fund", "commodities", "Crude oil, growth proxy and geopolitical risk"},
		{"UUP", "US Dollar Index (Bull)", "dollar", "Dollar strength, inverse risk"},
		{"IWM", "Russell 2000 Small Cap", "breadth", "Small caps, risk appetite and domestic economy"},
		{"RSP", "S&P 500 Equal Weight", "breadth", "Equal weight index, breadth vs concentration"},
	}
}

var instrumentCategories = []struct{ key, label string }{
	{"bonds", "BONDS & RATES"},
	{"credit", "CREDIT MARKETS"},
	{"commodities", "COMMODITIES"},
	{"dollar", "US DOLLAR"},
	{"breadth", "BREADTH & RISK APPETITE"},
}

// InstrumentTrend is the close relative to EMA20 and EMA50
type InstrumentTrend string

const (
	TrendBullish InstrumentTrend = "bullish"
	TrendBearish InstrumentTrend = "bearish"
	TrendMixed   InstrumentTrend = "mixed"
)

// InstrumentMetrics summarises one cross-asset instrument
type InstrumentMetrics struct {
	Ticker         string          `json:"ticker" yaml:"ticker"`
	Name           string          `json:"name" yaml:"name"`
	Category       string          `json:"category" yaml:"category"`
	Price          float64         `json:"price" yaml:"price"`
	Change1D       float64         `json:"change_1d" yaml:"change_1d"`
	Change1W       float64         `json:"change_1w" yaml:"change_1w"`
	Change1M       *float64        `json:"change_1m" yaml:"change_1m"`
	Change3M       *float64        `json:"change_3m" yaml:"change_3m"`
	Trend          InstrumentTrend `json:"trend" yaml:"trend"`
	AboveEMA20     *bool           `json:"above_ema20" yaml:"above_ema20"`
	AboveEMA50     *bool           `json:"above_ema50" yaml:"above_ema50"`
	AboveEMA200    *bool           `json:"above_ema200" yaml:"above_ema200"`
	RSI14          *float64        `json:"rsi_14" yaml:"rsi_14"`
	Volatility20D  *float64        `json:"volatility_20d" yaml:"volatility_20d"` // annualised, percent
	PctFrom52WHigh float64         `json:"pct_from_52w_high" yaml:"pct_from_52w_high"`
	PctFrom52WLow  float64         `json:"pct_from_52w_low" yaml:"pct_from_52w_low"`
}

// ComputeInstrumentMetrics derives the cross-asset metrics from daily bars.
// It returns nil without error when fewer than ten bars are supplied.
func ComputeInstrumentMetrics(ticker string, bars []models.Bar) (*InstrumentMetrics, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if len(bars) < metricsMinBars {
		return nil, nil
	}
	if err := models.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("instrument %s: %w", ticker, err)
	}

	closes := models.Closes(bars)
	n := len(closes)
	price := closes[n-1]

	m := &InstrumentMetrics{
		Ticker:   ticker,
		Name:     ticker,
		Category: "unknown",
		Price:    round(price, 2),
		Change1D: round(pctChange(closes[n-2], price), 2),
		Change1W: round(pctChange(closes[n-5], price), 2),
	}
	for _, inst := range Instruments() {
		if inst.Ticker == ticker {
			m.Name = inst.Name
			m.Category = inst.Category
		}
	}
	if n >= 21 {
		v := round(pctChange(closes[n-21], price), 2)
		m.Change1M = &v
	}
	if n >= 63 {
		v := round(pctChange(closes[n-63], price), 2)
		m.Change3M = &v
	}

	aboveAt := func(span int) *bool {
		if n < span {
			return nil
		}
		above := price > last(ema(closes, span))
		return &above
	}
	m.AboveEMA20 = aboveAt(20)
	m.AboveEMA50 = aboveAt(50)
	m.AboveEMA200 = aboveAt(200)
	m.Trend = TrendMixed
	if m.AboveEMA20 != nil && m.AboveEMA50 != nil {
		switch {
		case *m.AboveEMA20 && *m.AboveEMA50:
			m.Trend = TrendBullish
		case !*m.AboveEMA20 && !*m.AboveEMA50:
			m.Trend = TrendBearish
		}
	}

	m.RSI14 = ptr(simpleRSI(closes, metricsRSIPeriod), 1)
	m.Volatility20D = annualisedVolatility(closes, volatilityWindow)

	window := closes
	if n > tradingYear {
		window = closes[n-tradingYear:]
	}
	hi, lo := window[0], window[0]
	for _, c := range window {
		hi = math.Max(hi, c)
		lo = math.Min(lo, c)
	}
	m.PctFrom52WHigh = round(pctChange(hi, price), 1)
	m.PctFrom52WLow = round(pctChange(lo, price), 1)
	return m, nil
}

// simpleRSI uses simple averages of gains and losses over the trailing period
func simpleRSI(closes []float64, period int) float64 {
	n := len(closes)
	if n < period+1 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := n - period; i < n; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return math.NaN()
	}
	rs := gain / loss
	return 100 - 100/(1+rs)
}

// annualisedVolatility is the sample stddev of the last 20 daily returns scaled to a year
func annualisedVolatility(closes []float64, window int) *float64 {
	if len(closes) < window+1 {
		return nil
	}
	returns := make([]float64, 0, window)
	for i := len(closes) - window; i < len(closes); i++ {
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	v := round(stddev(returns)*math.Sqrt(tradingYear)*100, 1)
	return &v
}
