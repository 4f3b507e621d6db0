// Package ingest reads OHLCV bars from broker chart exports and JSON files
// and catalyst contexts from JSON or YAML.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/tradepilot/internal/models"
)

// Source identifies the platform a chart export came from
type Source string

const (
	SourceAuto        Source = "auto"
	SourceThinkorSwim Source = "thinkorswim"
	SourceTradingView Source = "tradingview"
)

// ParseSource maps a user supplied name onto a Source, empty meaning auto
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return SourceAuto, nil
	case "thinkorswim", "tos":
		return SourceThinkorSwim, nil
	case "tradingview", "tv":
		return SourceTradingView, nil
	}
	return "", fmt.Errorf("%w: csv source %q", models.ErrUnknownEnum, s)
}

const headerSearchLines = 20

// ParseCSV reads a ThinkorSwim or TradingView chart export. Metadata lines
// above the header are skipped, rows with an unparseable price are dropped and
// the result is sorted by timestamp. Duplicate timestamps are kept so the
// indicator engine can reject them.
func ParseCSV(r io.Reader, source Source) ([]models.Bar, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	headerIdx := 0
	if source != SourceTradingView {
		headerIdx = findHeaderRow(lines)
		if headerIdx < 0 {
			return nil, fmt.Errorf("%w: no OHLC header found in the first %d lines", models.ErrMalformedInput, headerSearchLines)
		}
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines[headerIdx:], "\n")))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	if strings.Contains(lines[headerIdx], "\t") {
		reader.Comma = '\t'
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedInput, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: csv has no data rows", models.ErrMalformedInput)
	}

	cols := columnIndex(records[0])
	for _, required := range []string{"open", "high", "low", "close"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: csv is missing the %s column", models.ErrMalformedInput, required)
		}
	}
	timeCol, ok := cols["date"]
	if !ok {
		if timeCol, ok = cols["time"]; !ok {
			return nil, fmt.Errorf("%w: csv has no date or time column", models.ErrMalformedInput)
		}
	}

	bars := make([]models.Bar, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		ts, err := ParseTimestamp(field(rec, timeCol))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", models.ErrMalformedInput, i+1, err)
		}
		bar := models.Bar{Timestamp: ts}
		var okOHLC bool
		if bar.Open, okOHLC = parseNumber(field(rec, cols["open"])); !okOHLC {
			continue
		}
		if bar.High, okOHLC = parseNumber(field(rec, cols["high"])); !okOHLC {
			continue
		}
		if bar.Low, okOHLC = parseNumber(field(rec, cols["low"])); !okOHLC {
			continue
		}
		if bar.Close, okOHLC = parseNumber(field(rec, cols["close"])); !okOHLC {
			continue
		}
		if idx, ok := cols["volume"]; ok {
			bar.Volume, _ = parseNumber(field(rec, idx))
		}
		bars = append(bars, bar)
	}

	sortBars(bars)
	return bars, nil
}

// findHeaderRow returns the first line naming at least three of open, high, low and close
func findHeaderRow(lines []string) int {
	for i := 0; i < len(lines) && i < headerSearchLines; i++ {
		lower := strings.ToLower(lines[i])
		matches := 0
		for _, col := range []string{"open", "high", "low", "close"} {
			if strings.Contains(lower, col) {
				matches++
			}
		}
		if matches >= 3 {
			return i
		}
	}
	return -1
}

// columnIndex maps normalised header names to their positions. The first
// occurrence wins.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := normalizeColumn(h)
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}
	return cols
}

func normalizeColumn(col string) string {
	lower := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))), " ", "_")
	hasDate := strings.Contains(lower, "date")
	hasTime := strings.Contains(lower, "time")
	switch {
	case hasDate:
		return "date"
	case hasTime:
		return "time"
	}
	switch lower {
	case "open", "o":
		return "open"
	case "high", "h":
		return "high"
	case "low", "l":
		return "low"
	case "close", "c", "last", "adj_close":
		return "close"
	case "volume", "vol", "v":
		return "volume"
	}
	return lower
}

func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

// parseNumber accepts thousands separators and a leading dollar sign
func parseNumber(s string) (float64, bool) {
	s = strings.TrimPrefix(strings.ReplaceAll(s, ",", ""), "$")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"1/2/06",
}

// ParseTimestamp accepts ISO dates, US dates and unix seconds or milliseconds.
// Zone-less values are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if isDigits(s) && len(s) >= 10 {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		if len(s) >= 13 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func sortBars(bars []models.Bar) {
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})
}
