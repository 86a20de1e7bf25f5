package ccxt

import (
	"github.com/shopspring/decimal"

	"github.com/arbikit/gmx-ccxt/calc"
	"github.com/arbikit/gmx-ccxt/graph/squid"
)

// FundingRate is the funding state of one market. Hourly rates are signed
// from the payer's point of view: the long rate is positive when longs pay.
type FundingRate struct {
	Symbol           string          `json:"symbol"`
	SnapshotID       string          `json:"snapshotId,omitempty"`
	LongRatePerHour  decimal.Decimal `json:"longRatePerHour"`
	ShortRatePerHour decimal.Decimal `json:"shortRatePerHour"`
	LongsPayShorts   bool            `json:"longsPayShorts"`
}

// OpenInterest is the open interest of one market in USD.
type OpenInterest struct {
	Symbol     string          `json:"symbol"`
	SnapshotID string          `json:"snapshotId,omitempty"`
	LongUsd    decimal.Decimal `json:"longUsd"`
	ShortUsd   decimal.Decimal `json:"shortUsd"`
	TotalUsd   decimal.Decimal `json:"totalUsd"`
}

// BorrowingRate is one timestamped borrowing rate reading of one market side.
type BorrowingRate struct {
	Symbol      string          `json:"symbol"`
	IsLong      bool            `json:"isLong"`
	RatePerHour decimal.Decimal `json:"ratePerHour"`
	TimestampMs int64           `json:"timestampMs"`
}

// FetchFundingRate returns the current funding rates of one symbol, derived
// from the latest market info snapshot.
func (e *Exchange) FetchFundingRate(symbol string) (*FundingRate, error) {
	infos, market, err := e.fetchMarketInfos(symbol, 1)
	if err != nil {
		return nil, err
	}
	rate := fundingFromInfo(market.Symbol, &infos[0])
	return &rate, nil
}

// FetchFundingRateHistory returns funding snapshots of one symbol, oldest
// first. The marketInfos entity carries no timestamp, entries are identified
// by snapshot id only.
func (e *Exchange) FetchFundingRateHistory(symbol string, limit int) ([]FundingRate, error) {
	infos, market, err := e.fetchMarketInfos(symbol, limit)
	if err != nil {
		return nil, err
	}
	history := make([]FundingRate, 0, len(infos))
	// squid returns newest first
	for i := len(infos) - 1; i >= 0; i-- {
		history = append(history, fundingFromInfo(market.Symbol, &infos[i]))
	}
	return history, nil
}

// FetchOpenInterest returns the current open interest of one symbol.
func (e *Exchange) FetchOpenInterest(symbol string) (*OpenInterest, error) {
	infos, market, err := e.fetchMarketInfos(symbol, 1)
	if err != nil {
		return nil, err
	}
	oi := openInterestFromInfo(market.Symbol, &infos[0])
	return &oi, nil
}

// FetchOpenInterestHistory returns open interest snapshots of one symbol,
// oldest first.
func (e *Exchange) FetchOpenInterestHistory(symbol string, limit int) ([]OpenInterest, error) {
	infos, market, err := e.fetchMarketInfos(symbol, limit)
	if err != nil {
		return nil, err
	}
	history := make([]OpenInterest, 0, len(infos))
	for i := len(infos) - 1; i >= 0; i-- {
		history = append(history, openInterestFromInfo(market.Symbol, &infos[i]))
	}
	return history, nil
}

// FetchBorrowingRateHistory returns timestamped borrowing rate snapshots of
// one symbol, oldest first. isLong nil means both sides, sinceMs 0 means no
// lower bound. The since filter is served upstream, the entity supports it.
func (e *Exchange) FetchBorrowingRateHistory(
	symbol string, isLong *bool, sinceMs int64, limit int,
) ([]BorrowingRate, error) {
	cached, err := e.ensureMarkets()
	if err != nil {
		return nil, err
	}
	market, ok := cached.markets[symbol]
	if !ok {
		return nil, &UnsupportedSymbolError{Symbol: symbol}
	}
	sinceSeconds := int64(0)
	if sinceMs > 0 {
		sinceSeconds = sinceMs / 1000
	}
	snapshots, err := e.graph.GetBorrowingRateSnapshots(
		market.MarketTokenAddress, isLong, sinceSeconds, limit)
	if err != nil {
		return nil, &NetworkError{Endpoint: "gmx squid graph", Err: err}
	}
	history := make([]BorrowingRate, 0, len(snapshots))
	for i := len(snapshots) - 1; i >= 0; i-- {
		snapshot := snapshots[i]
		history = append(history, BorrowingRate{
			Symbol:      market.Symbol,
			IsLong:      snapshot.IsLong,
			RatePerHour: calc.PerSecondToHourly(snapshot.BorrowingRate),
			TimestampMs: snapshot.Timestamp * 1000,
		})
	}
	return history, nil
}

func (e *Exchange) fetchMarketInfos(symbol string, limit int) ([]squid.MarketInfo, *Market, error) {
	cached, err := e.ensureMarkets()
	if err != nil {
		return nil, nil, err
	}
	market, ok := cached.markets[symbol]
	if !ok {
		return nil, nil, &UnsupportedSymbolError{Symbol: symbol}
	}
	if limit <= 0 {
		limit = 1
	}
	infos, err := e.graph.GetMarketInfos(market.MarketTokenAddress, limit)
	if err != nil {
		return nil, nil, &NetworkError{Endpoint: "gmx squid graph", Err: err}
	}
	if len(infos) == 0 {
		return nil, nil, &ProtocolDataError{
			Detail: "no market info snapshot for " + market.MarketTokenAddress}
	}
	return infos, market, nil
}

func fundingFromInfo(symbol string, info *squid.MarketInfo) FundingRate {
	hourly := calc.PerSecondToHourly(info.FundingFactorPerSecond)
	rate := FundingRate{
		Symbol:         symbol,
		SnapshotID:     info.ID,
		LongsPayShorts: info.LongsPayShorts,
	}
	if info.LongsPayShorts {
		rate.LongRatePerHour = hourly
		rate.ShortRatePerHour = hourly.Neg()
	} else {
		rate.LongRatePerHour = hourly.Neg()
		rate.ShortRatePerHour = hourly
	}
	return rate
}

func openInterestFromInfo(symbol string, info *squid.MarketInfo) OpenInterest {
	longUsd := calc.UsdFromFixed30(info.LongOpenInterestUsd)
	shortUsd := calc.UsdFromFixed30(info.ShortOpenInterestUsd)
	return OpenInterest{
		Symbol:     symbol,
		SnapshotID: info.ID,
		LongUsd:    longUsd,
		ShortUsd:   shortUsd,
		TotalUsd:   longUsd.Add(shortUsd),
	}
}
