package ccxt

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/arbikit/gmx-ccxt/graph/squid"
)

var errMockGraph = errors.New("mock graph error")

// MockGraph is a canned squid graph for tests. Set Fail to make every call
// error. GetMarketsCount counts catalog fetches.
type MockGraph struct {
	Fail            bool
	Markets         []squid.Market
	MarketInfos     []squid.MarketInfo
	BorrowSnapshots []squid.BorrowingRateSnapshot
	Positions       []squid.Position

	GetMarketsCount int
}

func (m *MockGraph) GetMarkets() ([]squid.Market, error) {
	m.GetMarketsCount++
	if m.Fail {
		return nil, errMockGraph
	}
	return m.Markets, nil
}

func (m *MockGraph) GetMarketInfos(marketAddress string, limit int) ([]squid.MarketInfo, error) {
	if m.Fail {
		return nil, errMockGraph
	}
	var out []squid.MarketInfo
	for _, info := range m.MarketInfos {
		if marketAddress != "" && info.MarketTokenAddress != marketAddress {
			continue
		}
		out = append(out, info)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockGraph) GetBorrowingRateSnapshots(
	marketAddress string, isLong *bool, sinceTimestamp int64, limit int,
) ([]squid.BorrowingRateSnapshot, error) {
	if m.Fail {
		return nil, errMockGraph
	}
	var out []squid.BorrowingRateSnapshot
	for _, snapshot := range m.BorrowSnapshots {
		if marketAddress != "" && snapshot.MarketAddress != marketAddress {
			continue
		}
		if isLong != nil && snapshot.IsLong != *isLong {
			continue
		}
		if sinceTimestamp > 0 && snapshot.Timestamp < sinceTimestamp {
			continue
		}
		out = append(out, snapshot)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockGraph) GetPositions(account string, market string, limit int) ([]squid.Position, error) {
	if m.Fail {
		return nil, errMockGraph
	}
	var out []squid.Position
	for _, position := range m.Positions {
		if account != "" && position.Account != account {
			continue
		}
		if market != "" && position.Market != market {
			continue
		}
		out = append(out, position)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// mustDecimal is a test-data helper.
func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
