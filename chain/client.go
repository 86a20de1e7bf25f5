package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/arbikit/gmx-ccxt/common/logging"
)

type Block struct {
	Timestamp   int64
	BlockNumber int64
}

// MarketProps mirrors the GMX Reader Market.Props tuple.
type MarketProps struct {
	MarketToken common.Address
	IndexToken  common.Address
	LongToken   common.Address
	ShortToken  common.Address
}

const erc20ABI = `[
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"}
]`

const readerABI = `[
	{"inputs":[
		{"name":"dataStore","type":"address"},
		{"name":"start","type":"uint256"},
		{"name":"end","type":"uint256"}],
	"name":"getMarkets",
	"outputs":[{"components":[
		{"name":"marketToken","type":"address"},
		{"name":"indexToken","type":"address"},
		{"name":"longToken","type":"address"},
		{"name":"shortToken","type":"address"}],
	"name":"","type":"tuple[]"}],
	"stateMutability":"view","type":"function"}
]`

type Client struct {
	client    *ethclient.Client
	logger    logging.Logger
	ctx       context.Context
	url       string
	erc20Abi  abi.ABI
	readerAbi abi.ABI
}

func NewClient(logger logging.Logger, rpcURL string, ctx context.Context) (*Client, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("rpcURL is empty")
	}
	logger.Info("New chain client with rpcUrl=%s", rpcURL)
	c, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, err
	}
	erc20Abi, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("fail to parse erc20 abi err=%s", err)
	}
	readerAbi, err := abi.JSON(strings.NewReader(readerABI))
	if err != nil {
		return nil, fmt.Errorf("fail to parse reader abi err=%s", err)
	}
	return &Client{
		client:    c,
		logger:    logger,
		ctx:       ctx,
		url:       rpcURL,
		erc20Abi:  erc20Abi,
		readerAbi: readerAbi,
	}, nil
}

func (c *Client) GetLatestBlock() (*Block, error) {
	ctx30, cancel := context.WithTimeout(c.ctx, 30*time.Second)
	defer cancel()
	header, err := c.client.HeaderByNumber(ctx30, nil)
	if err != nil {
		return nil, fmt.Errorf("fail to get header err=%s", err)
	}
	return &Block{
		BlockNumber: header.Number.Int64(),
		Timestamp:   int64(header.Time),
	}, nil
}

func (c *Client) GetTimestampWithBN(blockNumber int64) (int64, error) {
	ctx30, cancel := context.WithTimeout(c.ctx, 30*time.Second)
	defer cancel()
	header, err := c.client.HeaderByNumber(ctx30, big.NewInt(blockNumber))
	if err != nil {
		return -1, fmt.Errorf("fail to get header err=%s", err)
	}
	return int64(header.Time), nil
}

// TokenSymbol reads symbol() of an ERC-20. Tokens with bytes32 symbols fail
// to decode and return an error.
func (c *Client) TokenSymbol(token common.Address) (string, error) {
	res, err := c.call(token, c.erc20Abi, "symbol")
	if err != nil {
		return "", err
	}
	var symbol string
	if err := c.erc20Abi.Unpack(&symbol, "symbol", res); err != nil {
		return "", fmt.Errorf("fail to unpack symbol of %s err=%s", token.Hex(), err)
	}
	return symbol, nil
}

// TokenDecimals reads decimals() of an ERC-20.
func (c *Client) TokenDecimals(token common.Address) (int32, error) {
	res, err := c.call(token, c.erc20Abi, "decimals")
	if err != nil {
		return 0, err
	}
	var decimals uint8
	if err := c.erc20Abi.Unpack(&decimals, "decimals", res); err != nil {
		return 0, fmt.Errorf("fail to unpack decimals of %s err=%s", token.Hex(), err)
	}
	return int32(decimals), nil
}

// GetReaderMarkets calls Reader.getMarkets on chain and returns the market
// token tuples in [start, end).
func (c *Client) GetReaderMarkets(
	reader common.Address, dataStore common.Address, start, end int64,
) ([]MarketProps, error) {
	res, err := c.call(reader, c.readerAbi, "getMarkets",
		dataStore, big.NewInt(start), big.NewInt(end))
	if err != nil {
		return nil, err
	}
	var markets []MarketProps
	if err := c.readerAbi.Unpack(&markets, "getMarkets", res); err != nil {
		return nil, fmt.Errorf("fail to unpack getMarkets err=%s", err)
	}
	return markets, nil
}

func (c *Client) call(to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]byte, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("fail to pack %s err=%s", method, err)
	}
	ctx30, cancel := context.WithTimeout(c.ctx, 30*time.Second)
	defer cancel()
	res, err := c.client.CallContract(ctx30, ethereum.CallMsg{
		To:   &to,
		Data: data,
	}, nil)
	if err != nil {
		c.logger.Error("fail to eth_call %s on %s err=%s", method, to.Hex(), err)
		return nil, err
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("empty eth_call result for %s on %s", method, to.Hex())
	}
	return res, nil
}
