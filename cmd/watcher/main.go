package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/arbikit/gmx-ccxt/api"
	"github.com/arbikit/gmx-ccxt/ccxt"
	"github.com/arbikit/gmx-ccxt/chain"
	"github.com/arbikit/gmx-ccxt/common/config"
	cerrors "github.com/arbikit/gmx-ccxt/common/errors"
	"github.com/arbikit/gmx-ccxt/common/logging"
	"github.com/arbikit/gmx-ccxt/database/db"
	"github.com/arbikit/gmx-ccxt/gmxapi"
	"github.com/arbikit/gmx-ccxt/graph/squid"
	"github.com/arbikit/gmx-ccxt/recorder"
	"github.com/arbikit/gmx-ccxt/types"
)

const defaultGraphURL = "https://gmx.squids.live/gmx-synthetics-arbitrum:prod/api/graphql"
const defaultRestURL = "https://arbitrum-api.gmxinfra.io"

func main() {
	name := "gmx-watcher"
	// Initialize logger.
	logging.Initialize(name)
	defer logging.Finalize()

	logger := logging.NewLoggerTag(name)

	// Setup panic handler.
	cerrors.Initialize(logger)
	defer cerrors.Catch()

	logger.Info("%s service started.", name)
	logger.Info("Initializing.")

	db.Initialize()
	defer db.Finalize()

	// AutoMigrate only runs inside Reset, a fresh database needs one pass
	// before the recorder can write.
	if config.GetBool("DB_RESET", false) {
		db.Reset(db.GetDB(), types.Watcher, true)
	}

	backgroundCtx, stop := context.WithCancel(context.Background())
	go WaitExitSignal(stop, logger)
	group, ctx := errgroup.WithContext(backgroundCtx)

	var chainReader ccxt.ChainReader
	if rpcURL := config.GetString("ARB_RPC_URL", ""); rpcURL != "" {
		chainClient, err := chain.NewClient(logger, rpcURL, ctx)
		if err != nil {
			logger.Error("chain client fail: %s", err)
			os.Exit(-3)
		}
		chainReader = chainClient
	}

	exchange := ccxt.NewExchange(
		logger,
		gmxapi.NewClient(logger, config.GetString("GMX_REST_URL", defaultRestURL)),
		squid.NewClient(logger, config.GetString("GMX_SQUID_GRAPH_URL", defaultGraphURL)),
		chainReader,
	)

	intervalSec := config.GetInt64("INTERVAL_SECOND", 60)
	rec := recorder.NewRecorder(ctx, logger, exchange, intervalSec)
	group.Go(func() error {
		return rec.Run()
	})

	server := api.NewWatcherServer(ctx, logger)
	group.Go(func() error {
		return server.Run()
	})

	if err := group.Wait(); err != nil {
		logger.Critical("service stopped: %s", err)
	}
}

func WaitExitSignal(ctxStop context.CancelFunc, logger logging.Logger) {
	var exitSignal = make(chan os.Signal, 1)
	signal.Notify(exitSignal, syscall.SIGTERM)
	signal.Notify(exitSignal, syscall.SIGINT)

	sig := <-exitSignal
	logger.Info("caught sig: %+v, Stopping...\n", sig)
	ctxStop()
}
