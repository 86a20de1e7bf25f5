package ccxt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arbikit/gmx-ccxt/graph/squid"
)

func withMarketInfos(graph *MockGraph) {
	graph.MarketInfos = []squid.MarketInfo{
		{
			ID:                 ethMarketAddr + ":200",
			MarketTokenAddress: ethMarketAddr,
			// 1e-6 per second at the 1e30 fixed-point scale
			FundingFactorPerSecond: mustDecimal("1000000000000000000000000"),
			LongsPayShorts:         true,
			LongOpenInterestUsd:    mustDecimal("2000000000000000000000000000000000"),
			ShortOpenInterestUsd:   mustDecimal("1000000000000000000000000000000000"),
		},
		{
			ID:                     ethMarketAddr + ":100",
			MarketTokenAddress:     ethMarketAddr,
			FundingFactorPerSecond: mustDecimal("2000000000000000000000000"),
			LongsPayShorts:         false,
			LongOpenInterestUsd:    mustDecimal("1500000000000000000000000000000000"),
			ShortOpenInterestUsd:   mustDecimal("500000000000000000000000000000000"),
		},
	}
}

func TestFetchFundingRate(t *testing.T) {
	exchange, _, graph := newTestExchange()
	withMarketInfos(graph)

	rate, err := exchange.FetchFundingRate("ETH/USD")
	require.NoError(t, err)
	require.Equal(t, "ETH/USD", rate.Symbol)
	require.True(t, rate.LongsPayShorts)
	require.True(t, rate.LongRatePerHour.Equal(mustDecimal("0.0036")),
		"long rate = %s", rate.LongRatePerHour)
	require.True(t, rate.ShortRatePerHour.Equal(mustDecimal("-0.0036")))
}

func TestFetchFundingRateHistory(t *testing.T) {
	exchange, _, graph := newTestExchange()
	withMarketInfos(graph)

	history, err := exchange.FetchFundingRateHistory("ETH/USD", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// oldest first, shorts pay in the older snapshot
	require.Equal(t, ethMarketAddr+":100", history[0].SnapshotID)
	require.False(t, history[0].LongsPayShorts)
	require.True(t, history[0].LongRatePerHour.Equal(mustDecimal("-0.0072")))
	require.Equal(t, ethMarketAddr+":200", history[1].SnapshotID)
}

func TestFetchOpenInterest(t *testing.T) {
	exchange, _, graph := newTestExchange()
	withMarketInfos(graph)

	oi, err := exchange.FetchOpenInterest("ETH/USD")
	require.NoError(t, err)
	require.True(t, oi.LongUsd.Equal(mustDecimal("2000")))
	require.True(t, oi.ShortUsd.Equal(mustDecimal("1000")))
	require.True(t, oi.TotalUsd.Equal(mustDecimal("3000")))
}

func TestFetchOpenInterestHistory(t *testing.T) {
	exchange, _, graph := newTestExchange()
	withMarketInfos(graph)

	history, err := exchange.FetchOpenInterestHistory("ETH/USD", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.True(t, history[0].TotalUsd.Equal(mustDecimal("2000")))
	require.True(t, history[1].TotalUsd.Equal(mustDecimal("3000")))
}

func TestFetchBorrowingRateHistory(t *testing.T) {
	exchange, _, graph := newTestExchange()
	graph.BorrowSnapshots = []squid.BorrowingRateSnapshot{
		{
			ID:            "2",
			MarketAddress: ethMarketAddr,
			IsLong:        true,
			BorrowingRate: mustDecimal("1000000000000000000000000"),
			Timestamp:     1704290400,
		},
		{
			ID:            "1",
			MarketAddress: ethMarketAddr,
			IsLong:        true,
			BorrowingRate: mustDecimal("2000000000000000000000000"),
			Timestamp:     1704286800,
		},
	}

	isLong := true
	history, err := exchange.FetchBorrowingRateHistory("ETH/USD", &isLong, 0, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// oldest first, millisecond timestamps
	require.Equal(t, int64(1704286800000), history[0].TimestampMs)
	require.True(t, history[0].RatePerHour.Equal(mustDecimal("0.0072")))

	// since filter forwarded upstream in seconds
	history, err = exchange.FetchBorrowingRateHistory("ETH/USD", &isLong, 1704290400000, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, int64(1704290400000), history[0].TimestampMs)
}

func TestFetchFundingRate_NoSnapshot(t *testing.T) {
	exchange, _, _ := newTestExchange()

	_, err := exchange.FetchFundingRate("ETH/USD")
	require.Error(t, err)
	require.IsType(t, &ProtocolDataError{}, err)
}
