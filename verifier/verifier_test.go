package verifier

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/arbikit/gmx-ccxt/ccxt"
	"github.com/arbikit/gmx-ccxt/common/logging"
	"github.com/arbikit/gmx-ccxt/gmxapi"
	"github.com/arbikit/gmx-ccxt/graph/squid"
)

const (
	wethAddr      = "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"
	usdcAddr      = "0xaf88d065e77c8cC2239327C5EDb3A432268e5831"
	ethMarketAddr = "0x70d95587d40A2caf56bd97485aB3Eec10Bee6336"
)

// newTestVerifier builds a verifier over one long ETH position with the
// given raw collateral amount and the indexer's raw leverage figure
// (scale 1e12 for the 18-decimals WETH collateral).
func newTestVerifier(collateralAmount string, rawReportedLeverage decimal.Decimal) *Verifier {
	api := &ccxt.MockAPI{
		Tokens: []gmxapi.Token{
			{Symbol: "ETH", Address: wethAddr, Decimals: 18},
			{Symbol: "USDC", Address: usdcAddr, Decimals: 6},
		},
		Candles: map[string][][]float64{
			"ETH": {{1704294000, 2258.3, 2265.0, 2255.0, 2262.1}},
		},
	}
	graph := &ccxt.MockGraph{
		Markets: []squid.Market{
			{ID: ethMarketAddr, IndexToken: wethAddr, LongToken: wethAddr, ShortToken: usdcAddr},
		},
		Positions: []squid.Position{
			{
				ID:               "pos-eth",
				Account:          "0xTrader1",
				Market:           ethMarketAddr,
				CollateralToken:  wethAddr,
				IsLong:           true,
				SizeInUsd:        decimal.RequireFromString("10000000000000000000000000000000"),
				SizeInTokens:     decimal.RequireFromString("4400000000000000"),
				CollateralAmount: decimal.RequireFromString(collateralAmount),
				EntryPrice:       decimal.RequireFromString("2250000000000000"),
				Leverage:         rawReportedLeverage,
			},
		},
	}
	logger := logging.NewLoggerTag("test")
	exchange := ccxt.NewExchange(logger, api, graph, nil)
	return NewVerifier(&Config{}, logger, exchange, graph)
}

func TestVerifyOnce_CatchesDefectiveLeverage(t *testing.T) {
	// the defective formula divides $10 size by 0.001 raw tokens, on raw
	// fixed-point values that is 1e31 / 1e15 = 1e16
	verifier := newTestVerifier("1000000000000000",
		decimal.RequireFromString("10000000000000000"))

	drifts, err := verifier.VerifyOnce()
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	require.Equal(t, "pos-eth", drifts[0].PositionID)

	computed, _ := drifts[0].ComputedLeverage.Float64()
	require.InDelta(t, 4.4207, computed, 0.001)
	// normalized back to human units for the report
	require.True(t, drifts[0].ReportedLeverage.Equal(decimal.NewFromInt(10000)))
}

func TestVerifyOnce_AgreesWithinTolerance(t *testing.T) {
	// the correct figure: $10 over 0.001 ETH priced at the latest close,
	// stored by the indexer at the 1e12 collateral scale
	correct := decimal.NewFromInt(10).Div(decimal.RequireFromString("2.2621"))
	verifier := newTestVerifier("1000000000000000", correct.Shift(12))

	drifts, err := verifier.VerifyOnce()
	require.NoError(t, err)
	require.Len(t, drifts, 0)
}

func TestVerifyOnce_ZeroCollateralPosition(t *testing.T) {
	// zero collateral computes to leverage 0; a nonzero reported figure is
	// a drift with the absolute difference, not a division by zero
	verifier := newTestVerifier("0", decimal.New(5, 12))

	drifts, err := verifier.VerifyOnce()
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	require.True(t, drifts[0].ComputedLeverage.IsZero())
	require.True(t, drifts[0].ReportedLeverage.Equal(decimal.NewFromInt(5)))
	require.True(t, drifts[0].Relative.Equal(decimal.NewFromInt(5)))
}

func TestVerifyOnce_ZeroCollateralAgreesWithZeroReported(t *testing.T) {
	verifier := newTestVerifier("0", decimal.Zero)

	drifts, err := verifier.VerifyOnce()
	require.NoError(t, err)
	require.Len(t, drifts, 0)
}
