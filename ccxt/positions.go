package ccxt

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/arbikit/gmx-ccxt/calc"
)

// Position is one indexer position with the USD collateral value and the
// leverage recomputed locally. The indexer's own leverage field is never
// trusted, see the verifier.
type Position struct {
	ID                     string          `json:"id"`
	Account                string          `json:"account"`
	Symbol                 string          `json:"symbol"`
	MarketAddress          string          `json:"marketAddress"`
	CollateralTokenAddress string          `json:"collateralTokenAddress"`
	IsLong                 bool            `json:"isLong"`
	SizeUsd                decimal.Decimal `json:"sizeUsd"`
	SizeInTokens           decimal.Decimal `json:"sizeInTokens"`
	EntryPriceUsd          decimal.Decimal `json:"entryPriceUsd"`
	CollateralAmountTokens decimal.Decimal `json:"collateralAmountTokens"`
	CollateralAmountUsd    decimal.Decimal `json:"collateralAmountUsd"`
	Leverage               decimal.Decimal `json:"leverage"`
	RealizedPnlUsd         decimal.Decimal `json:"realizedPnlUsd"`
	UnrealizedPnlUsd       decimal.Decimal `json:"unrealizedPnlUsd"`
	OpenedAt               string          `json:"openedAt"`
}

// FetchPositions returns positions from the indexer, optionally filtered by
// account and market address. Collateral USD value and leverage are
// recomputed from raw amounts and oracle quotes. In strict pricing mode a
// position whose collateral price had to be assumed fails the whole call.
func (e *Exchange) FetchPositions(account, marketAddress string, limit int) ([]Position, error) {
	cached, err := e.ensureMarkets()
	if err != nil {
		return nil, err
	}
	rawPositions, err := e.graph.GetPositions(account, marketAddress, limit)
	if err != nil {
		return nil, &NetworkError{Endpoint: "gmx squid graph", Err: err}
	}

	quotes := make(map[string]*calc.OracleQuote) // token symbol -> quote
	positions := make([]Position, 0, len(rawPositions))
	for i := range rawPositions {
		raw := &rawPositions[i]
		market, ok := cached.byAddress[strings.ToLower(raw.Market)]
		if !ok {
			e.logger.Warn("position %s references unknown market %s, skipped",
				raw.ID, raw.Market)
			continue
		}

		indexQuote, err := e.quoteForToken(quotes, market.BaseID, market.IndexTokenAddress)
		if err != nil {
			return nil, err
		}
		if indexQuote == nil {
			return nil, &ProtocolDataError{
				Detail: "no price available for index token " + market.IndexTokenAddress}
		}
		collateralQuote, err := e.collateralQuote(cached, quotes, raw.CollateralToken)
		if err != nil {
			return nil, err
		}

		reading := &calc.PositionReading{
			PositionSizeUsd:         raw.SizeInUsd,
			CollateralAmountRaw:     raw.CollateralAmount,
			CollateralTokenAddress:  strings.ToLower(raw.CollateralToken),
			CollateralTokenDecimals: e.collateralDecimals(market, raw.CollateralToken),
			IndexTokenAddress:       strings.ToLower(market.IndexTokenAddress),
			IsLong:                  raw.IsLong,
		}
		metrics := calc.ComputeLeverageMetrics(e.logger, reading, *indexQuote, collateralQuote)
		if metrics.PriceAssumed && e.strictPricing {
			return nil, &ProtocolDataError{
				Detail: "no oracle quote for collateral token " + raw.CollateralToken}
		}

		entryPriceScale := int32(30) - market.IndexTokenDecimals
		positions = append(positions, Position{
			ID:                     raw.ID,
			Account:                raw.Account,
			Symbol:                 market.Symbol,
			MarketAddress:          raw.Market,
			CollateralTokenAddress: raw.CollateralToken,
			IsLong:                 raw.IsLong,
			SizeUsd:                calc.UsdFromFixed30(raw.SizeInUsd),
			SizeInTokens:           calc.TokensFromRaw(raw.SizeInTokens, market.IndexTokenDecimals),
			EntryPriceUsd:          raw.EntryPrice.Shift(-entryPriceScale),
			CollateralAmountTokens: calc.TokensFromRaw(raw.CollateralAmount, reading.CollateralTokenDecimals),
			CollateralAmountUsd:    metrics.CollateralAmountUsd,
			Leverage:               metrics.Leverage,
			RealizedPnlUsd:         calc.UsdFromFixed30(raw.RealizedPnl),
			UnrealizedPnlUsd:       calc.UsdFromFixed30(raw.UnrealizedPnl),
			OpenedAt:               raw.OpenedAt,
		})
	}
	return positions, nil
}

// quoteForToken fetches the latest 1m close of one token symbol as its USD
// quote, memoized per call. A token without candles yields a nil quote.
func (e *Exchange) quoteForToken(
	quotes map[string]*calc.OracleQuote, tokenSymbol, tokenAddress string,
) (*calc.OracleQuote, error) {
	if quote, ok := quotes[tokenSymbol]; ok {
		return quote, nil
	}
	resp, err := e.api.GetCandlesticks(tokenSymbol, "1m")
	if err != nil || len(resp.Candles) == 0 {
		e.logger.Debug("no candles for token %s", tokenSymbol)
		quotes[tokenSymbol] = nil
		return nil, nil
	}
	latest := resp.Candles[0]
	for _, row := range resp.Candles {
		if len(row) >= 5 && row[0] > latest[0] {
			latest = row
		}
	}
	if len(latest) < 5 {
		return nil, &ProtocolDataError{Detail: "candle row has fewer than 5 fields"}
	}
	quote := &calc.OracleQuote{
		TokenAddress: strings.ToLower(tokenAddress),
		PriceUsd:     decimal.NewFromFloat(latest[4]),
	}
	quotes[tokenSymbol] = quote
	return quote, nil
}

// collateralQuote resolves an oracle quote for a collateral token, nil when
// none is obtainable. The nil triggers the calculator's fallback chain.
func (e *Exchange) collateralQuote(
	cached *catalog, quotes map[string]*calc.OracleQuote, collateralAddress string,
) (*calc.OracleQuote, error) {
	token, ok := cached.tokens[strings.ToLower(collateralAddress)]
	if !ok {
		return nil, nil
	}
	return e.quoteForToken(quotes, token.Symbol, collateralAddress)
}

// collateralDecimals matches the collateral token to the market's long or
// short side to find its decimals.
func (e *Exchange) collateralDecimals(market *Market, collateralAddress string) int32 {
	switch strings.ToLower(collateralAddress) {
	case strings.ToLower(market.LongTokenAddress):
		return market.LongTokenDecimals
	case strings.ToLower(market.ShortTokenAddress):
		return market.ShortTokenDecimals
	}
	e.logger.Warn("collateral token %s is neither side of market %s, assuming 18 decimals",
		collateralAddress, market.Symbol)
	return 18
}
