package ccxt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTimeframe(t *testing.T) {
	seconds, err := ParseTimeframe("1h")
	require.NoError(t, err)
	require.Equal(t, int64(3600), seconds)

	seconds, err = ParseTimeframe("1d")
	require.NoError(t, err)
	require.Equal(t, int64(86400), seconds)

	_, err = ParseTimeframe("30m")
	var unsupported *UnsupportedTimeframeError
	require.True(t, errors.As(err, &unsupported))
}

func TestFetchOHLCV(t *testing.T) {
	exchange, _, _ := newTestExchange()

	// markets load implicitly
	candles, err := exchange.FetchOHLCV("ETH/USD", "1h", 0, 0)
	require.NoError(t, err)
	require.Len(t, candles, 3)

	// seconds to milliseconds, ascending order, volume always nil
	require.Equal(t, int64(1704286800000), candles[0].TimestampMs)
	require.Equal(t, int64(1704294000000), candles[2].TimestampMs)
	require.Equal(t, 2247.9, candles[0].Open)
	require.Equal(t, 2262.1, candles[2].Close)
	for _, candle := range candles {
		require.Nil(t, candle.Volume)
	}
}

func TestFetchOHLCV_SinceFilter(t *testing.T) {
	exchange, _, _ := newTestExchange()

	candles, err := exchange.FetchOHLCV("ETH/USD", "1h", 1704290400000, 0)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	require.Equal(t, int64(1704290400000), candles[0].TimestampMs)
}

func TestFetchOHLCV_LimitKeepsTail(t *testing.T) {
	exchange, _, _ := newTestExchange()

	candles, err := exchange.FetchOHLCV("ETH/USD", "1h", 0, 2)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	require.Equal(t, int64(1704290400000), candles[0].TimestampMs)
	require.Equal(t, int64(1704294000000), candles[1].TimestampMs)
}

func TestFetchOHLCV_Errors(t *testing.T) {
	exchange, api, _ := newTestExchange()

	_, err := exchange.FetchOHLCV("ETH/USD", "30m", 0, 0)
	var unsupportedTf *UnsupportedTimeframeError
	require.True(t, errors.As(err, &unsupportedTf))

	_, err = exchange.FetchOHLCV("DOGE/USD", "1h", 0, 0)
	var unsupportedSym *UnsupportedSymbolError
	require.True(t, errors.As(err, &unsupportedSym))

	api.Candles["ETH"] = [][]float64{{1704286800, 2247.9}}
	_, err = exchange.FetchOHLCV("ETH/USD", "1h", 0, 0)
	var protocolErr *ProtocolDataError
	require.True(t, errors.As(err, &protocolErr))
}

func TestCandleJSON(t *testing.T) {
	candle := Candle{TimestampMs: 1704286800000, Open: 1, High: 2, Low: 0.5, Close: 1.5}
	out, err := candle.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `[1704286800000, 1, 2, 0.5, 1.5, null]`, string(out))
}
