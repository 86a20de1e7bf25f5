package ccxt

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arbikit/gmx-ccxt/common/logging"
	"github.com/arbikit/gmx-ccxt/gmxapi"
	"github.com/arbikit/gmx-ccxt/graph/squid"
)

const (
	wethAddr      = "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"
	usdcAddr      = "0xaf88d065e77c8cC2239327C5EDb3A432268e5831"
	ethMarketAddr = "0x70d95587d40A2caf56bd97485aB3Eec10Bee6336"
	zeroAddr      = "0x0000000000000000000000000000000000000000"
	swapMarket    = "0x9C2433dFD71096C435Be9465220BB2B189375eA7"
)

var testCandles = [][]float64{
	{1704286800, 2247.9, 2250.0, 2240.0, 2245.5},
	{1704290400, 2245.5, 2260.0, 2243.0, 2258.3},
	{1704294000, 2258.3, 2265.0, 2255.0, 2262.1},
}

func newTestExchange() (*Exchange, *MockAPI, *MockGraph) {
	api := &MockAPI{
		Tokens: []gmxapi.Token{
			{Symbol: "ETH", Address: wethAddr, Decimals: 18},
			{Symbol: "USDC", Address: usdcAddr, Decimals: 6},
		},
		Candles: map[string][][]float64{
			"ETH": testCandles,
		},
	}
	graph := &MockGraph{
		Markets: []squid.Market{
			{ID: ethMarketAddr, IndexToken: wethAddr, LongToken: wethAddr, ShortToken: usdcAddr},
			// swap-only market, zero index token
			{ID: swapMarket, IndexToken: zeroAddr, LongToken: usdcAddr, ShortToken: usdcAddr},
		},
	}
	exchange := NewExchange(logging.NewLoggerTag("test"), api, graph, nil)
	return exchange, api, graph
}

func TestLoadMarkets_Memoization(t *testing.T) {
	exchange, api, graph := newTestExchange()

	first, err := exchange.LoadMarkets(false)
	require.NoError(t, err)
	second, err := exchange.LoadMarkets(false)
	require.NoError(t, err)

	// same map instance, not just equal contents
	require.Equal(t,
		reflect.ValueOf(first).Pointer(), reflect.ValueOf(second).Pointer())
	require.Equal(t, 1, api.GetTokensCount)
	require.Equal(t, 1, graph.GetMarketsCount)

	third, err := exchange.LoadMarkets(true)
	require.NoError(t, err)
	require.NotEqual(t,
		reflect.ValueOf(first).Pointer(), reflect.ValueOf(third).Pointer())
	require.Equal(t, 2, api.GetTokensCount)
	require.Equal(t, 2, graph.GetMarketsCount)
}

func TestLoadMarkets_Catalog(t *testing.T) {
	exchange, _, _ := newTestExchange()

	markets, err := exchange.LoadMarkets(false)
	require.NoError(t, err)
	require.Len(t, markets, 1) // swap-only market is skipped

	market := markets["ETH/USD"]
	require.NotNil(t, market)
	require.Equal(t, "ETH", market.Base)
	require.Equal(t, "USD", market.Quote)
	require.Equal(t, ethMarketAddr, market.MarketTokenAddress)
	require.Equal(t, int32(18), market.IndexTokenDecimals)
	require.Equal(t, int32(18), market.LongTokenDecimals)
	require.Equal(t, int32(6), market.ShortTokenDecimals)
}

func TestLoadMarkets_UpstreamFailure(t *testing.T) {
	exchange, api, _ := newTestExchange()
	api.Fail = true

	_, err := exchange.LoadMarkets(false)
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))

	// no partial catalog is visible
	_, err = exchange.MarketBySymbol("ETH/USD")
	var notLoaded *MarketsNotLoadedError
	require.True(t, errors.As(err, &notLoaded))
}

func TestMarketBySymbol(t *testing.T) {
	exchange, _, _ := newTestExchange()

	_, err := exchange.MarketBySymbol("ETH/USD")
	var notLoaded *MarketsNotLoadedError
	require.True(t, errors.As(err, &notLoaded))

	_, err = exchange.LoadMarkets(false)
	require.NoError(t, err)

	market, err := exchange.MarketBySymbol("ETH/USD")
	require.NoError(t, err)
	require.Equal(t, "ETH/USD", market.Symbol)

	_, err = exchange.MarketBySymbol("DOGE/USD")
	var unsupported *UnsupportedSymbolError
	require.True(t, errors.As(err, &unsupported))
}
