package ccxt

import (
	"errors"

	"github.com/arbikit/gmx-ccxt/gmxapi"
)

var errMockAPI = errors.New("mock api error")

// MockAPI is a canned GMX REST API for tests. Candles maps token symbol to
// raw candle rows. GetTokensCount counts token list fetches.
type MockAPI struct {
	Fail    bool
	Tokens  []gmxapi.Token
	Candles map[string][][]float64

	GetTokensCount int
}

func (m *MockAPI) GetTokens() (*gmxapi.TokensResponse, error) {
	m.GetTokensCount++
	if m.Fail {
		return nil, errMockAPI
	}
	return &gmxapi.TokensResponse{Tokens: m.Tokens}, nil
}

func (m *MockAPI) GetCandlesticks(tokenSymbol string, period string) (*gmxapi.CandlesticksResponse, error) {
	if m.Fail {
		return nil, errMockAPI
	}
	rows, ok := m.Candles[tokenSymbol]
	if !ok {
		return nil, errors.New("no candles for " + tokenSymbol)
	}
	return &gmxapi.CandlesticksResponse{Period: period, Candles: rows}, nil
}
