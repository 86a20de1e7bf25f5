package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func ethPosition(sizeUsd string, collateralRaw string) *PositionReading {
	return &PositionReading{
		PositionSizeUsd:         decimal.RequireFromString(sizeUsd),
		CollateralAmountRaw:     decimal.RequireFromString(collateralRaw),
		CollateralTokenAddress:  "0xWETH",
		CollateralTokenDecimals: 18,
		IndexTokenAddress:       "0xWETH",
		IsLong:                  true,
	}
}

func TestComputeLeverageMetrics_CollateralInUsd(t *testing.T) {
	// size $10, collateral 0.001 ETH at $3450
	position := ethPosition("10000000000000000000000000000000", "1000000000000000")
	quote := &OracleQuote{TokenAddress: "0xWETH", PriceUsd: decimal.NewFromInt(3450)}

	metrics := ComputeLeverageMetrics(nil, position, *quote, quote)

	require.True(t, metrics.CollateralAmountUsd.Equal(decimal.RequireFromString("3.45")),
		"collateral USD = %s", metrics.CollateralAmountUsd)
	leverage, _ := metrics.Leverage.Float64()
	require.InDelta(t, 2.899, leverage, 0.001)
	require.False(t, metrics.PriceAssumed)

	// dividing by the raw token amount instead must give a wildly different
	// figure, the historical defect produced 10000x here
	defective := decimal.NewFromInt(10).Div(decimal.RequireFromString("0.001"))
	require.False(t, metrics.Leverage.Equal(defective))
	require.True(t, defective.Equal(decimal.NewFromInt(10000)))
}

func TestComputeLeverageMetrics_ReferenceScenario(t *testing.T) {
	// size $9.73, collateral 0.001 ETH at $3892
	position := ethPosition("9730000000000000000000000000000", "1000000000000000")
	quote := &OracleQuote{TokenAddress: "0xWETH", PriceUsd: decimal.NewFromInt(3892)}

	metrics := ComputeLeverageMetrics(nil, position, *quote, quote)

	require.True(t, metrics.CollateralAmountUsd.Equal(decimal.RequireFromString("3.892")))
	leverage, _ := metrics.Leverage.Float64()
	require.InDelta(t, 2.5, leverage, 0.001)
}

func TestResolveCollateralPrice_IndexFallback(t *testing.T) {
	position := ethPosition("10000000000000000000000000000000", "1000000000000000")
	indexQuote := OracleQuote{TokenAddress: "0xWETH", PriceUsd: decimal.NewFromInt(3450)}

	price, assumed := ResolveCollateralPrice(nil, position, indexQuote, nil)
	require.True(t, price.Equal(indexQuote.PriceUsd))
	require.False(t, assumed)
}

func TestResolveCollateralPrice_StablecoinFallback(t *testing.T) {
	position := ethPosition("10000000000000000000000000000000", "5000000")
	position.CollateralTokenAddress = "0xUSDC"
	position.CollateralTokenDecimals = 6
	indexQuote := OracleQuote{TokenAddress: "0xWETH", PriceUsd: decimal.NewFromInt(3450)}

	price, assumed := ResolveCollateralPrice(nil, position, indexQuote, nil)
	require.True(t, price.Equal(decimal.NewFromInt(1)))
	require.True(t, assumed)

	metrics := ComputeLeverageMetrics(nil, position, indexQuote, nil)
	require.True(t, metrics.CollateralAmountUsd.Equal(decimal.NewFromInt(5)))
	require.True(t, metrics.Leverage.Equal(decimal.NewFromInt(2)))
	require.True(t, metrics.PriceAssumed)
}

func TestComputeLeverageMetrics_ZeroCollateral(t *testing.T) {
	position := ethPosition("10000000000000000000000000000000", "0")
	quote := &OracleQuote{TokenAddress: "0xWETH", PriceUsd: decimal.NewFromInt(3450)}

	metrics := ComputeLeverageMetrics(nil, position, *quote, quote)
	require.True(t, metrics.CollateralAmountUsd.IsZero())
	require.True(t, metrics.Leverage.IsZero())
}

func TestUnitHelpers(t *testing.T) {
	usd := UsdFromFixed30(decimal.RequireFromString("2500000000000000000000000000000000"))
	require.True(t, usd.Equal(decimal.NewFromInt(2500)))

	tokens := TokensFromRaw(decimal.RequireFromString("1500000"), 6)
	require.True(t, tokens.Equal(decimal.RequireFromString("1.5")))

	hourly := PerSecondToHourly(decimal.RequireFromString("1000000000000000000000000"))
	require.True(t, hourly.Equal(decimal.RequireFromString("0.0036")))
}
