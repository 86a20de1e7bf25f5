package squid

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/arbikit/gmx-ccxt/common/logging"
	utils "github.com/arbikit/gmx-ccxt/utils/http"
	"github.com/shopspring/decimal"
)

// Market is one entry of the markets entity.
type Market struct {
	ID         string `json:"id"`
	IndexToken string `json:"indexToken"`
	LongToken  string `json:"longToken"`
	ShortToken string `json:"shortToken"`
}

// MarketInfo is one snapshot of the marketInfos entity. USD amounts are raw
// fixed-point values scaled by 1e30, token amounts are raw native units.
type MarketInfo struct {
	ID                                string          `json:"id"`
	MarketTokenAddress                string          `json:"marketTokenAddress"`
	IndexTokenAddress                 string          `json:"indexTokenAddress"`
	LongTokenAddress                  string          `json:"longTokenAddress"`
	ShortTokenAddress                 string          `json:"shortTokenAddress"`
	LongOpenInterestUsd               decimal.Decimal `json:"longOpenInterestUsd"`
	ShortOpenInterestUsd              decimal.Decimal `json:"shortOpenInterestUsd"`
	LongOpenInterestInTokens          decimal.Decimal `json:"longOpenInterestInTokens"`
	ShortOpenInterestInTokens         decimal.Decimal `json:"shortOpenInterestInTokens"`
	FundingFactorPerSecond            decimal.Decimal `json:"fundingFactorPerSecond"`
	LongsPayShorts                    bool            `json:"longsPayShorts"`
	BorrowingFactorPerSecondForLongs  decimal.Decimal `json:"borrowingFactorPerSecondForLongs"`
	BorrowingFactorPerSecondForShorts decimal.Decimal `json:"borrowingFactorPerSecondForShorts"`
}

// BorrowingRateSnapshot is one entry of the borrowingRateSnapshots entity.
type BorrowingRateSnapshot struct {
	ID            string          `json:"id"`
	MarketAddress string          `json:"marketAddress"`
	IsLong        bool            `json:"isLong"`
	BorrowingRate decimal.Decimal `json:"borrowingRate"`
	Timestamp     int64           `json:"timestamp"`
}

// Position is one entry of the positions entity. Amounts are raw, see MarketInfo.
type Position struct {
	ID               string          `json:"id"`
	PositionKey      string          `json:"positionKey"`
	Account          string          `json:"account"`
	Market           string          `json:"market"`
	CollateralToken  string          `json:"collateralToken"`
	IsLong           bool            `json:"isLong"`
	CollateralAmount decimal.Decimal `json:"collateralAmount"`
	SizeInUsd        decimal.Decimal `json:"sizeInUsd"`
	SizeInTokens     decimal.Decimal `json:"sizeInTokens"`
	EntryPrice       decimal.Decimal `json:"entryPrice"`
	RealizedPnl      decimal.Decimal `json:"realizedPnl"`
	UnrealizedPnl    decimal.Decimal `json:"unrealizedPnl"`
	RealizedFees     decimal.Decimal `json:"realizedFees"`
	UnrealizedFees   decimal.Decimal `json:"unrealizedFees"`
	// Leverage is the indexer's own figure, the raw fixed-point ratio
	// sizeInUsd / collateralAmount, scale 10^(30 - collateral decimals).
	// Never use it as a leverage value, see the verifier.
	Leverage decimal.Decimal `json:"leverage"`
	OpenedAt string          `json:"openedAt"`
}

// GraphInterface is the query surface of the squid client.
type GraphInterface interface {
	GetMarkets() ([]Market, error)
	GetMarketInfos(marketAddress string, limit int) ([]MarketInfo, error)
	GetBorrowingRateSnapshots(
		marketAddress string, isLong *bool, sinceTimestamp int64, limit int,
	) ([]BorrowingRateSnapshot, error)
	GetPositions(account string, market string, limit int) ([]Position, error)
}

type Client struct {
	logger logging.Logger
	client *utils.Client
}

func assertGraphInterface() {
	var _ GraphInterface = (*Client)(nil)
}

func NewClient(logger logging.Logger, url string) *Client {
	logger.Info("New GMX squid graph client with url %s", url)
	return &Client{
		logger: logger,
		client: utils.NewHttpClient(utils.DefaultTransport, logger, url),
	}
}

// GetMarkets returns all markets, following id_gt pagination.
func (c *Client) GetMarkets() ([]Market, error) {
	c.logger.Debug("Get markets")
	var retMarkets []Market
	idFilter := ""
	for {
		markets, err := c.getMarketsWithID(idFilter)
		if err != nil {
			return nil, err
		}
		retMarkets = append(retMarkets, markets...)
		length := len(markets)
		if length == 1000 {
			// means there are more markets, update idFilter
			idFilter = markets[length-1].ID
		} else {
			// means got all markets
			return retMarkets, nil
		}
	}
}

func (c *Client) getMarketsWithID(id string) ([]Market, error) {
	query := `{
		markets(limit: 1000, orderBy: [id_ASC], where: { id_gt: "%s" }) {
			id
			indexToken
			longToken
			shortToken
		}
	}`
	var resp struct {
		Data struct {
			Markets []Market
		}
	}
	if err := c.queryGraph(&resp, query, id); err != nil {
		return nil, fmt.Errorf("fail to get markets with ID=%s, err=%s", id, err)
	}
	return resp.Data.Markets, nil
}

// GetMarketInfos returns the most recent market info snapshots, newest first.
// An empty marketAddress means no market filter.
func (c *Client) GetMarketInfos(marketAddress string, limit int) ([]MarketInfo, error) {
	c.logger.Debug("Get market infos market=%s limit=%d", marketAddress, limit)
	whereClause := ""
	if marketAddress != "" {
		whereClause = fmt.Sprintf(`where: { marketTokenAddress_eq: "%s" }`, marketAddress)
	}
	query := `{
		marketInfos(%s orderBy: [id_DESC], limit: %d) {
			id
			marketTokenAddress
			indexTokenAddress
			longTokenAddress
			shortTokenAddress
			longOpenInterestUsd
			shortOpenInterestUsd
			longOpenInterestInTokens
			shortOpenInterestInTokens
			fundingFactorPerSecond
			longsPayShorts
			borrowingFactorPerSecondForLongs
			borrowingFactorPerSecondForShorts
		}
	}`
	var resp struct {
		Data struct {
			MarketInfos []MarketInfo
		}
	}
	if err := c.queryGraph(&resp, query, whereClause, limit); err != nil {
		return nil, fmt.Errorf(
			"fail to get market infos market=%s, err=%s", marketAddress, err)
	}
	return resp.Data.MarketInfos, nil
}

// GetBorrowingRateSnapshots returns borrowing rate history, newest first.
// A nil isLong means both sides, sinceTimestamp 0 means no lower bound.
func (c *Client) GetBorrowingRateSnapshots(
	marketAddress string, isLong *bool, sinceTimestamp int64, limit int,
) ([]BorrowingRateSnapshot, error) {
	c.logger.Debug("Get borrowing rate snapshots market=%s since=%d limit=%d",
		marketAddress, sinceTimestamp, limit)
	var conditions []string
	if marketAddress != "" {
		conditions = append(conditions, fmt.Sprintf(`marketAddress_eq: "%s"`, marketAddress))
	}
	if isLong != nil {
		conditions = append(conditions, fmt.Sprintf("isLong_eq: %v", *isLong))
	}
	if sinceTimestamp > 0 {
		conditions = append(conditions, fmt.Sprintf("timestamp_gte: %d", sinceTimestamp))
	}
	whereClause := ""
	if len(conditions) > 0 {
		whereClause = fmt.Sprintf("where: { %s }", strings.Join(conditions, ", "))
	}
	query := `{
		borrowingRateSnapshots(%s orderBy: [timestamp_DESC], limit: %d) {
			id
			marketAddress
			isLong
			borrowingRate
			timestamp
		}
	}`
	var resp struct {
		Data struct {
			BorrowingRateSnapshots []BorrowingRateSnapshot
		}
	}
	if err := c.queryGraph(&resp, query, whereClause, limit); err != nil {
		return nil, fmt.Errorf(
			"fail to get borrowing rate snapshots market=%s, err=%s", marketAddress, err)
	}
	return resp.Data.BorrowingRateSnapshots, nil
}

// GetPositions returns positions, newest first. Empty account or market
// means no filter on that field.
func (c *Client) GetPositions(account string, market string, limit int) ([]Position, error) {
	c.logger.Debug("Get positions account=%s market=%s limit=%d", account, market, limit)
	var conditions []string
	if account != "" {
		conditions = append(conditions, fmt.Sprintf(`account_eq: "%s"`, account))
	}
	if market != "" {
		conditions = append(conditions, fmt.Sprintf(`market_eq: "%s"`, market))
	}
	whereClause := ""
	if len(conditions) > 0 {
		whereClause = fmt.Sprintf("where: { %s }", strings.Join(conditions, ", "))
	}
	query := `{
		positions(%s orderBy: [openedAt_DESC], limit: %d) {
			id
			positionKey
			account
			market
			collateralToken
			isLong
			collateralAmount
			sizeInUsd
			sizeInTokens
			entryPrice
			realizedPnl
			unrealizedPnl
			realizedFees
			unrealizedFees
			leverage
			openedAt
		}
	}`
	var resp struct {
		Data struct {
			Positions []Position
		}
	}
	if err := c.queryGraph(&resp, query, whereClause, limit); err != nil {
		return nil, fmt.Errorf(
			"fail to get positions account=%s market=%s, err=%s", account, market, err)
	}
	return resp.Data.Positions, nil
}

// queryGraph return err if failed to get response from graph in three times
func (c *Client) queryGraph(resp interface{}, query string, args ...interface{}) error {
	var params struct {
		Query string `json:"query"`
	}
	params.Query = fmt.Sprintf(query, args...)
	for i := 0; i < 3; i++ {
		err, code, res := c.client.Post("", nil, params, nil)
		if err != nil {
			c.logger.Error("fail to post http params=%+v err=%s", params, err)
			continue
		} else if code/100 != 2 {
			c.logger.Error("unexpected http params=%+v, response=%v", params, code)
			continue
		}
		var probe struct {
			Errors []struct {
				Message string `json:"message"`
			} `json:"errors"`
		}
		if err = json.Unmarshal(res, &probe); err == nil && len(probe.Errors) > 0 {
			c.logger.Error("graph query error: %s", probe.Errors[0].Message)
			continue
		}
		err = json.Unmarshal(res, &resp)
		if err != nil {
			c.logger.Error("fail to unmarshal result=%+v, err=%s", res, err)
			continue
		}
		// success
		return nil
	}
	return errors.New("fail to query GMX squid graph in three times")
}
