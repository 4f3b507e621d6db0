package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ternarybob/tradepilot/internal/models"
)

type jsonBar struct {
	Timestamp json.RawMessage `json:"timestamp"`
	Date      json.RawMessage `json:"date"`
	Time      json.RawMessage `json:"time"`
	Open      float64         `json:"open"`
	High      float64         `json:"high"`
	Low       float64         `json:"low"`
	Close     float64         `json:"close"`
	Volume    float64         `json:"volume"`
}

type jsonSeries struct {
	Ticker string    `json:"ticker"`
	Bars   []jsonBar `json:"bars"`
}

// ParseJSON reads either a bare array of bars or an object with a "bars"
// array. Each bar carries its time under timestamp, date or time, as a
// string or a unix number. The result is sorted by timestamp.
func ParseJSON(r io.Reader) ([]models.Bar, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read json: %w", err)
	}
	data = bytes.TrimSpace(data)

	var raw []jsonBar
	if len(data) > 0 && data[0] == '[' {
		err = json.Unmarshal(data, &raw)
	} else {
		var series jsonSeries
		err = json.Unmarshal(data, &series)
		raw = series.Bars
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedInput, err)
	}

	bars := make([]models.Bar, 0, len(raw))
	for i, jb := range raw {
		ts, err := jsonTimestamp(jb)
		if err != nil {
			return nil, fmt.Errorf("%w: bar %d: %v", models.ErrMalformedInput, i, err)
		}
		bars = append(bars, models.Bar{
			Timestamp: ts,
			Open:      jb.Open,
			High:      jb.High,
			Low:       jb.Low,
			Close:     jb.Close,
			Volume:    jb.Volume,
		})
	}
	sortBars(bars)
	return bars, nil
}

func jsonTimestamp(jb jsonBar) (t time.Time, err error) {
	for _, raw := range []json.RawMessage{jb.Timestamp, jb.Date, jb.Time} {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) != nil {
			s = string(raw) // bare number
		}
		return ParseTimestamp(s)
	}
	return t, fmt.Errorf("no timestamp")
}
