package gmxapi

import (
	"encoding/json"
	"fmt"

	"github.com/arbikit/gmx-ccxt/common/logging"
	utils "github.com/arbikit/gmx-ccxt/utils/http"
)

// Token is one entry of the GMX tokens endpoint.
type Token struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals int    `json:"decimals"`
}

// TokensResponse is the body of GET /tokens.
type TokensResponse struct {
	Tokens []Token `json:"tokens"`
}

// CandlesticksResponse is the body of GET /prices/candles. Each candle row is
// [timestamp seconds, open, high, low, close].
type CandlesticksResponse struct {
	Period  string      `json:"period"`
	Candles [][]float64 `json:"candles"`
}

// APIInterface is the query surface of the GMX REST client.
type APIInterface interface {
	GetTokens() (*TokensResponse, error)
	GetCandlesticks(tokenSymbol string, period string) (*CandlesticksResponse, error)
}

type Client struct {
	logger logging.Logger
	client *utils.Client
}

func assertAPIInterface() {
	var _ APIInterface = (*Client)(nil)
}

func NewClient(logger logging.Logger, url string) *Client {
	logger.Info("New GMX REST client with url %s", url)
	return &Client{
		logger: logger,
		client: utils.NewHttpClient(utils.DefaultTransport, logger, url),
	}
}

// GetTokens returns the tokens tradable on GMX.
func (c *Client) GetTokens() (*TokensResponse, error) {
	c.logger.Debug("Get tokens")
	var resp TokensResponse
	if err := c.get("/tokens", nil, &resp); err != nil {
		return nil, fmt.Errorf("fail to get tokens, err=%s", err)
	}
	return &resp, nil
}

// GetCandlesticks returns recent candles for one token symbol and period.
// The period string is a GMX API period, not a unified timeframe.
func (c *Client) GetCandlesticks(tokenSymbol string, period string) (*CandlesticksResponse, error) {
	c.logger.Debug("Get candlesticks token=%s period=%s", tokenSymbol, period)
	params := []utils.KeyValue{
		{Key: "tokenSymbol", Value: tokenSymbol},
		{Key: "period", Value: period},
	}
	var resp CandlesticksResponse
	if err := c.get("/prices/candles", params, &resp); err != nil {
		return nil, fmt.Errorf(
			"fail to get candlesticks token=%s period=%s, err=%s", tokenSymbol, period, err)
	}
	return &resp, nil
}

// get tries three times to fetch and decode one endpoint.
func (c *Client) get(path string, params []utils.KeyValue, resp interface{}) error {
	for i := 0; i < 3; i++ {
		err, code, res := c.client.Get(path, params, nil, nil)
		if err != nil {
			c.logger.Error("fail to get http path=%s err=%s", path, err)
			continue
		} else if code/100 != 2 {
			c.logger.Error("unexpected http path=%s, response=%v", path, code)
			continue
		}
		err = json.Unmarshal(res, resp)
		if err != nil {
			c.logger.Error("fail to unmarshal result=%s, err=%s", string(res), err)
			continue
		}
		// success
		return nil
	}
	return fmt.Errorf("fail to query GMX REST API %s in three times", path)
}
