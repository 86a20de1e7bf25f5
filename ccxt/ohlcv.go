package ccxt

import (
	"encoding/json"
	"sort"
)

// timeframes maps unified timeframe strings to GMX API periods.
var timeframes = map[string]string{
	"1m":  "1m",
	"5m":  "5m",
	"15m": "15m",
	"1h":  "1h",
	"4h":  "4h",
	"1d":  "1d",
}

// timeframeSeconds maps unified timeframe strings to their duration.
var timeframeSeconds = map[string]int64{
	"1m":  60,
	"5m":  300,
	"15m": 900,
	"1h":  3600,
	"4h":  14400,
	"1d":  86400,
}

// Candle is one OHLCV row. Volume is always nil, the GMX API does not
// provide volume data.
type Candle struct {
	TimestampMs int64
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Volume      *float64
}

// MarshalJSON renders the CCXT array form [ts, o, h, l, c, volume].
func (c Candle) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{
		c.TimestampMs, c.Open, c.High, c.Low, c.Close, c.Volume,
	})
}

// ParseTimeframe converts a unified timeframe string to seconds.
func ParseTimeframe(timeframe string) (int64, error) {
	seconds, ok := timeframeSeconds[timeframe]
	if !ok {
		return 0, &UnsupportedTimeframeError{Timeframe: timeframe}
	}
	return seconds, nil
}

// FetchOHLCV returns recent candles of one symbol, ascending by timestamp.
// sinceMs filters client-side (0 means no lower bound), the upstream API has
// no since parameter. limit keeps the most recent candles (0 means all).
// The catalog is loaded implicitly when still empty.
func (e *Exchange) FetchOHLCV(symbol, timeframe string, sinceMs int64, limit int) ([]Candle, error) {
	cached, err := e.ensureMarkets()
	if err != nil {
		return nil, err
	}
	market, ok := cached.markets[symbol]
	if !ok {
		return nil, &UnsupportedSymbolError{Symbol: symbol}
	}
	period, ok := timeframes[timeframe]
	if !ok {
		return nil, &UnsupportedTimeframeError{Timeframe: timeframe}
	}

	resp, err := e.api.GetCandlesticks(market.BaseID, period)
	if err != nil {
		return nil, &NetworkError{Endpoint: "gmx rest api", Err: err}
	}
	return parseCandles(resp.Candles, sinceMs, limit)
}

// parseCandles converts raw [ts_seconds, o, h, l, c] rows to Candle values,
// sorted ascending, filtered by sinceMs, tail-limited.
func parseCandles(rows [][]float64, sinceMs int64, limit int) ([]Candle, error) {
	parsed := make([]Candle, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			return nil, &ProtocolDataError{
				Detail: "candle row has fewer than 5 fields"}
		}
		parsed = append(parsed, Candle{
			TimestampMs: int64(row[0] * 1000),
			Open:        row[1],
			High:        row[2],
			Low:         row[3],
			Close:       row[4],
		})
	}
	sort.Slice(parsed, func(i, j int) bool {
		return parsed[i].TimestampMs < parsed[j].TimestampMs
	})
	if sinceMs > 0 {
		filtered := parsed[:0]
		for _, candle := range parsed {
			if candle.TimestampMs >= sinceMs {
				filtered = append(filtered, candle)
			}
		}
		parsed = filtered
	}
	if limit > 0 && len(parsed) > limit {
		// keep the most recent candles
		parsed = parsed[len(parsed)-limit:]
	}
	return parsed, nil
}
