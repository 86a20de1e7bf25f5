package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"

	"github.com/arbikit/gmx-ccxt/ccxt"
	"github.com/arbikit/gmx-ccxt/common/logging"
	"github.com/arbikit/gmx-ccxt/gmxapi"
	"github.com/arbikit/gmx-ccxt/graph/squid"
	"github.com/arbikit/gmx-ccxt/verifier"
)

const defaultGraphURL = "https://gmx.squids.live/gmx-synthetics-arbitrum:prod/api/graphql"
const defaultRestURL = "https://arbitrum-api.gmxinfra.io"

func main() {
	name := "gmx-verifier"
	// Initialize logger.
	logging.Initialize(name)
	defer logging.Finalize()
	logger := logging.NewLoggerTag(name)

	args := new(verifier.Config)
	arg.MustParse(args)
	if args.GraphURL == "" {
		args.GraphURL = defaultGraphURL
	}
	if args.RestURL == "" {
		args.RestURL = defaultRestURL
	}
	logger.Info("using config %+v", args)

	graph := squid.NewClient(logger, args.GraphURL)
	exchange := ccxt.NewExchange(
		logger, gmxapi.NewClient(logger, args.RestURL), graph, nil)
	v := verifier.NewVerifier(args, logger, exchange, graph)

	ctx, cancelFunc := context.WithCancel(context.Background())
	go func() {
		if err := v.Run(ctx); err != nil {
			logger.Error("verifier stopped: %s", err)
		}
	}()
	wait(cancelFunc)
}

func wait(stop context.CancelFunc) {
	var exitSignal = make(chan os.Signal, 1)
	signal.Notify(exitSignal, syscall.SIGTERM)
	signal.Notify(exitSignal, syscall.SIGINT)
	<-exitSignal
	stop()
}
