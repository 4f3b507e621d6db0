// Package common provides shared utilities across the application.
package common

import (
	"strings"
)

// Ticker represents a parsed, optionally exchange-qualified ticker.
// Format: EXCHANGE:CODE (e.g., "NASDAQ:AAPL", "CBOE:VIX") or a bare code.
type Ticker struct {
	// Exchange is the exchange prefix when one was given (e.g., "NASDAQ")
	Exchange string
	// Code is the symbol without exchange or index marker (e.g., "AAPL", "VIX")
	Code string
	// Index is true when the raw symbol carried a leading "^" (e.g., "^VIX")
	Index bool
	// Raw is the original ticker string
	Raw string
}

// ParseTicker parses a ticker string.
// Supports formats:
//   - "NASDAQ:AAPL" -> Exchange="NASDAQ", Code="AAPL"
//   - "^VIX" -> Code="VIX", Index=true
//   - "brk.b" -> Code="BRK.B" (dots are part of the code)
func ParseTicker(ticker string) Ticker {
	raw := ticker
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return Ticker{}
	}

	t := Ticker{Raw: raw}
	if idx := strings.Index(ticker, ":"); idx > 0 {
		t.Exchange = ticker[:idx]
		ticker = ticker[idx+1:]
	}
	if strings.HasPrefix(ticker, "^") {
		t.Index = true
		ticker = strings.TrimPrefix(ticker, "^")
	}
	t.Code = strings.TrimSpace(ticker)
	return t
}

// String returns the exchange-qualified ticker string.
func (t Ticker) String() string {
	if t.Exchange == "" || t.Code == "" {
		return t.Code
	}
	return t.Exchange + ":" + t.Code
}

// NormalizeTicker returns the bare upper-case code for a ticker string
func NormalizeTicker(ticker string) string {
	return ParseTicker(ticker).Code
}

// ParseTickers parses a list of ticker strings, skipping empty entries.
func ParseTickers(tickers []string) []Ticker {
	result := make([]Ticker, 0, len(tickers))
	for _, t := range tickers {
		parsed := ParseTicker(t)
		if parsed.Code != "" {
			result = append(result, parsed)
		}
	}
	return result
}
