package ccxt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arbikit/gmx-ccxt/graph/squid"
)

func withPositions(graph *MockGraph) {
	graph.Positions = []squid.Position{
		{
			ID:              "pos-eth",
			Account:         "0xTrader1",
			Market:          ethMarketAddr,
			CollateralToken: wethAddr,
			IsLong:          true,
			// $10 size, 0.001 ETH collateral
			SizeInUsd:        mustDecimal("10000000000000000000000000000000"),
			SizeInTokens:     mustDecimal("4400000000000000"),
			CollateralAmount: mustDecimal("1000000000000000"),
			// entry $2250 at the 1e12 price scale of an 18-decimals index
			EntryPrice: mustDecimal("2250000000000000"),
			// the indexer-reported raw figure carries the historical
			// defect: $10 size over 0.001 tokens, at the 1e12 scale
			Leverage: mustDecimal("10000000000000000"),
			OpenedAt: "2024-01-03T13:00:00.000Z",
		},
		{
			ID:              "pos-usdc",
			Account:         "0xTrader2",
			Market:          ethMarketAddr,
			CollateralToken: usdcAddr,
			IsLong:          false,
			SizeInUsd:        mustDecimal("10000000000000000000000000000000"),
			SizeInTokens:     mustDecimal("4400000000000000"),
			CollateralAmount: mustDecimal("5000000"), // 5 USDC
			EntryPrice:       mustDecimal("2250000000000000"),
			Leverage:         mustDecimal("2000000000000000000000000"),
			OpenedAt:         "2024-01-03T13:05:00.000Z",
		},
	}
}

func TestFetchPositions_RecomputesLeverageInUsd(t *testing.T) {
	exchange, _, graph := newTestExchange()
	withPositions(graph)

	positions, err := exchange.FetchPositions("0xTrader1", "", 0)
	require.NoError(t, err)
	require.Len(t, positions, 1)

	position := positions[0]
	require.Equal(t, "ETH/USD", position.Symbol)
	require.True(t, position.SizeUsd.Equal(mustDecimal("10")))
	require.True(t, position.CollateralAmountTokens.Equal(mustDecimal("0.001")))

	// collateral priced via latest ETH close 2262.1
	require.True(t, position.CollateralAmountUsd.Equal(mustDecimal("2.2621")),
		"collateral USD = %s", position.CollateralAmountUsd)
	leverage, _ := position.Leverage.Float64()
	require.InDelta(t, 4.4207, leverage, 0.001)

	// never the indexer's token-amount-based figure
	require.False(t, position.Leverage.Equal(mustDecimal("10000")))

	require.True(t, position.EntryPriceUsd.Equal(mustDecimal("2250")))
}

func TestFetchPositions_StablecoinFallback(t *testing.T) {
	exchange, _, graph := newTestExchange()
	withPositions(graph)

	// USDC has no candle feed, the $1 assumption applies
	positions, err := exchange.FetchPositions("0xTrader2", "", 0)
	require.NoError(t, err)
	require.Len(t, positions, 1)

	position := positions[0]
	require.True(t, position.CollateralAmountUsd.Equal(mustDecimal("5")))
	require.True(t, position.Leverage.Equal(mustDecimal("2")))
}

func TestFetchPositions_StrictPricing(t *testing.T) {
	exchange, _, graph := newTestExchange()
	withPositions(graph)
	exchange.strictPricing = true

	_, err := exchange.FetchPositions("0xTrader2", "", 0)
	require.Error(t, err)
	require.IsType(t, &ProtocolDataError{}, err)
}

func TestFetchPositions_MarketFilter(t *testing.T) {
	exchange, _, graph := newTestExchange()
	withPositions(graph)

	positions, err := exchange.FetchPositions("", ethMarketAddr, 0)
	require.NoError(t, err)
	require.Len(t, positions, 2)

	positions, err = exchange.FetchPositions("", swapMarket, 0)
	require.NoError(t, err)
	require.Len(t, positions, 0)
}
