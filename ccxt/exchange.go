// Package ccxt is a CCXT-style read-only wrapper over GMX v2 on Arbitrum.
// Market data comes from the GMX REST API and the Subsquid indexer, token
// metadata optionally from chain.
package ccxt

import (
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arbikit/gmx-ccxt/chain"
	"github.com/arbikit/gmx-ccxt/common/config"
	"github.com/arbikit/gmx-ccxt/common/logging"
	"github.com/arbikit/gmx-ccxt/gmxapi"
	"github.com/arbikit/gmx-ccxt/graph/squid"
)

// Market is one tradable instrument of the unified catalog.
type Market struct {
	ID     string `json:"id"` // market token address
	Symbol string `json:"symbol"`
	Base   string `json:"base"`
	Quote  string `json:"quote"`
	BaseID string `json:"baseId"` // GMX token symbol of the index token
	Active bool   `json:"active"`

	MarketTokenAddress string `json:"marketTokenAddress"`
	IndexTokenAddress  string `json:"indexTokenAddress"`
	LongTokenAddress   string `json:"longTokenAddress"`
	ShortTokenAddress  string `json:"shortTokenAddress"`

	IndexTokenDecimals int32 `json:"indexTokenDecimals"`
	LongTokenDecimals  int32 `json:"longTokenDecimals"`
	ShortTokenDecimals int32 `json:"shortTokenDecimals"`
}

// ChainReader is the optional on-chain metadata source of the catalog loader.
type ChainReader interface {
	GetLatestBlock() (*chain.Block, error)
	TokenSymbol(token common.Address) (string, error)
	TokenDecimals(token common.Address) (int32, error)
}

// catalog is one immutable snapshot of the loaded markets. Reload swaps the
// whole snapshot, readers never see a partially built one.
type catalog struct {
	markets   map[string]*Market
	byAddress map[string]*Market      // lowercase market token address
	tokens    map[string]gmxapi.Token // lowercase token address
}

type Exchange struct {
	logger logging.Logger
	api    gmxapi.APIInterface
	graph  squid.GraphInterface
	chain  ChainReader // may be nil

	strictPricing bool

	mu      sync.RWMutex
	catalog *catalog
}

// NewExchange wires an exchange from its three data sources. chainReader is
// optional and only fills token metadata missing from the REST token list.
func NewExchange(
	logger logging.Logger,
	api gmxapi.APIInterface,
	graph squid.GraphInterface,
	chainReader ChainReader,
) *Exchange {
	return &Exchange{
		logger:        logger,
		api:           api,
		graph:         graph,
		chain:         chainReader,
		strictPricing: config.GetBool("STRICT_COLLATERAL_PRICING", false),
	}
}

// LoadMarkets builds the unified market catalog, joining the indexer's
// market registry with the REST token list. The result is memoized: without
// forceReload repeated calls return the exact same map, no refetch.
func (e *Exchange) LoadMarkets(forceReload bool) (map[string]*Market, error) {
	e.mu.RLock()
	cached := e.catalog
	e.mu.RUnlock()
	if cached != nil && !forceReload {
		return cached.markets, nil
	}

	tokensResp, err := e.api.GetTokens()
	if err != nil {
		return nil, &NetworkError{Endpoint: "gmx rest api", Err: err}
	}
	squidMarkets, err := e.graph.GetMarkets()
	if err != nil {
		return nil, &NetworkError{Endpoint: "gmx squid graph", Err: err}
	}

	tokens := make(map[string]gmxapi.Token, len(tokensResp.Tokens))
	for _, token := range tokensResp.Tokens {
		tokens[strings.ToLower(token.Address)] = token
	}

	built := &catalog{
		markets:   make(map[string]*Market),
		byAddress: make(map[string]*Market),
		tokens:    tokens,
	}
	for _, m := range squidMarkets {
		indexToken, ok := e.resolveToken(tokens, m.IndexToken)
		if !ok {
			// swap-only markets have a zero index token, skip
			e.logger.Debug("skip market %s, no index token metadata for %s",
				m.ID, m.IndexToken)
			continue
		}
		symbol := indexToken.Symbol + "/USD"
		market := &Market{
			ID:                 m.ID,
			Symbol:             symbol,
			Base:               indexToken.Symbol,
			Quote:              "USD",
			BaseID:             indexToken.Symbol,
			Active:             true,
			MarketTokenAddress: m.ID,
			IndexTokenAddress:  m.IndexToken,
			LongTokenAddress:   m.LongToken,
			ShortTokenAddress:  m.ShortToken,
			IndexTokenDecimals: int32(indexToken.Decimals),
			LongTokenDecimals:  e.tokenDecimals(tokens, m.LongToken),
			ShortTokenDecimals: e.tokenDecimals(tokens, m.ShortToken),
		}
		built.markets[symbol] = market
		built.byAddress[strings.ToLower(m.ID)] = market
	}
	if len(built.markets) == 0 {
		return nil, &ProtocolDataError{Detail: "no markets could be built from upstream data"}
	}

	if e.chain != nil {
		if block, err := e.chain.GetLatestBlock(); err == nil {
			e.logger.Info("loaded %d markets at block %d", len(built.markets), block.BlockNumber)
		}
	}

	e.mu.Lock()
	e.catalog = built
	e.mu.Unlock()
	return built.markets, nil
}

// MarketBySymbol returns the catalog entry of one unified symbol. Unlike
// FetchOHLCV it does not load the catalog implicitly.
func (e *Exchange) MarketBySymbol(symbol string) (*Market, error) {
	e.mu.RLock()
	cached := e.catalog
	e.mu.RUnlock()
	if cached == nil {
		return nil, &MarketsNotLoadedError{Op: "MarketBySymbol"}
	}
	market, ok := cached.markets[symbol]
	if !ok {
		return nil, &UnsupportedSymbolError{Symbol: symbol}
	}
	return market, nil
}

// Milliseconds returns the current Unix timestamp in milliseconds.
func (e *Exchange) Milliseconds() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

// ensureMarkets loads the catalog when it is still empty.
func (e *Exchange) ensureMarkets() (*catalog, error) {
	e.mu.RLock()
	cached := e.catalog
	e.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}
	if _, err := e.LoadMarkets(false); err != nil {
		return nil, err
	}
	e.mu.RLock()
	cached = e.catalog
	e.mu.RUnlock()
	return cached, nil
}

func (e *Exchange) resolveToken(tokens map[string]gmxapi.Token, address string) (gmxapi.Token, bool) {
	token, ok := tokens[strings.ToLower(address)]
	if ok {
		return token, true
	}
	if e.chain == nil || address == "" || isZeroAddress(address) {
		return gmxapi.Token{}, false
	}
	// fall back to on-chain metadata for tokens the REST list misses
	addr := common.HexToAddress(address)
	symbol, err := e.chain.TokenSymbol(addr)
	if err != nil {
		return gmxapi.Token{}, false
	}
	decimals, err := e.chain.TokenDecimals(addr)
	if err != nil {
		return gmxapi.Token{}, false
	}
	token = gmxapi.Token{Symbol: symbol, Address: address, Decimals: int(decimals)}
	tokens[strings.ToLower(address)] = token
	return token, true
}

func (e *Exchange) tokenDecimals(tokens map[string]gmxapi.Token, address string) int32 {
	if token, ok := e.resolveToken(tokens, address); ok {
		return int32(token.Decimals)
	}
	e.logger.Warn("no decimals metadata for token %s, assuming 18", address)
	return 18
}

func isZeroAddress(address string) bool {
	return common.HexToAddress(address) == (common.Address{})
}
