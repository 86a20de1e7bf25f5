package main

import (
	"github.com/alexflint/go-arg"

	"github.com/arbikit/gmx-ccxt/ccxt"
	"github.com/arbikit/gmx-ccxt/common/logging"
	"github.com/arbikit/gmx-ccxt/gmxapi"
	"github.com/arbikit/gmx-ccxt/graph/squid"
)

const defaultGraphURL = "https://gmx.squids.live/gmx-synthetics-arbitrum:prod/api/graphql"
const defaultRestURL = "https://arbitrum-api.gmxinfra.io"

type config struct {
	Symbol    string `arg:"positional" default:"ETH/USD"`
	Timeframe string `arg:"-t" default:"1h"`
	Limit     int    `arg:"-l" default:"10"`
	GraphURL  string `arg:"env:GMX_SQUID_GRAPH_URL"`
	RestURL   string `arg:"env:GMX_REST_URL"`
}

func main() {
	name := "check-ohlcv"
	logging.Initialize(name)
	defer logging.Finalize()
	logger := logging.NewLoggerTag(name)

	args := new(config)
	arg.MustParse(args)
	if args.GraphURL == "" {
		args.GraphURL = defaultGraphURL
	}
	if args.RestURL == "" {
		args.RestURL = defaultRestURL
	}

	exchange := ccxt.NewExchange(
		logger,
		gmxapi.NewClient(logger, args.RestURL),
		squid.NewClient(logger, args.GraphURL),
		nil,
	)

	markets, err := exchange.LoadMarkets(false)
	if err != nil {
		logger.Error("fail to load markets err=%s", err)
		return
	}
	logger.Info("loaded %d markets", len(markets))

	candles, err := exchange.FetchOHLCV(args.Symbol, args.Timeframe, 0, args.Limit)
	if err != nil {
		logger.Error("fail to fetch ohlcv of %s err=%s", args.Symbol, err)
		return
	}
	for _, candle := range candles {
		logger.Info("%s %s ts=%d o=%.4f h=%.4f l=%.4f c=%.4f volume=nil",
			args.Symbol, args.Timeframe,
			candle.TimestampMs, candle.Open, candle.High, candle.Low, candle.Close)
	}

	funding, err := exchange.FetchFundingRate(args.Symbol)
	if err != nil {
		logger.Error("fail to fetch funding rate of %s err=%s", args.Symbol, err)
		return
	}
	logger.Info("%s funding: long %s/h short %s/h longsPayShorts=%v",
		args.Symbol, funding.LongRatePerHour, funding.ShortRatePerHour, funding.LongsPayShorts)

	oi, err := exchange.FetchOpenInterest(args.Symbol)
	if err != nil {
		logger.Error("fail to fetch open interest of %s err=%s", args.Symbol, err)
		return
	}
	logger.Info("%s open interest: long $%s short $%s total $%s",
		args.Symbol, oi.LongUsd, oi.ShortUsd, oi.TotalUsd)
}
