// Package recorder polls the exchange on an interval and persists market
// snapshots for the api server to serve.
package recorder

import (
	"context"
	"time"

	"go.uber.org/atomic"
	"gorm.io/gorm"

	"github.com/arbikit/gmx-ccxt/ccxt"
	"github.com/arbikit/gmx-ccxt/common/logging"
	database "github.com/arbikit/gmx-ccxt/database/db"
	"github.com/arbikit/gmx-ccxt/database/models/gmxdata"
)

type Recorder struct {
	ctx      context.Context
	logger   logging.Logger
	db       *gorm.DB
	exchange *ccxt.Exchange
	interval time.Duration

	running atomic.Bool
}

func NewRecorder(
	ctx context.Context, logger logging.Logger, exchange *ccxt.Exchange,
	intervalSeconds int64,
) *Recorder {
	return &Recorder{
		ctx:      ctx,
		logger:   logger,
		db:       database.GetDB(),
		exchange: exchange,
		interval: time.Duration(intervalSeconds) * time.Second,
	}
}

// IsRunning reports whether the poll loop is active.
func (r *Recorder) IsRunning() bool {
	return r.running.Load()
}

// Run polls until the context is canceled. A failed round is logged and the
// loop continues, no round is retried.
func (r *Recorder) Run() error {
	r.running.Store(true)
	defer r.running.Store(false)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("recorder started, interval %s", r.interval)
	for {
		if err := r.recordOnce(); err != nil {
			r.logger.Error("record round failed: %s", err)
		}
		select {
		case <-r.ctx.Done():
			r.logger.Info("recorder stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// recordOnce snapshots funding and open interest of every cataloged market.
func (r *Recorder) recordOnce() error {
	markets, err := r.exchange.LoadMarkets(false)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	for symbol := range markets {
		funding, err := r.exchange.FetchFundingRate(symbol)
		if err != nil {
			r.logger.Error("fetch funding rate of %s failed: %s", symbol, err)
			continue
		}
		oi, err := r.exchange.FetchOpenInterest(symbol)
		if err != nil {
			r.logger.Error("fetch open interest of %s failed: %s", symbol, err)
			continue
		}
		err = database.Transaction(r.db, func(tx *gorm.DB) error {
			market := markets[symbol]
			if e := tx.Create(&gmxdata.MarketInfoSnapshot{
				Symbol:               symbol,
				MarketAddr:           market.MarketTokenAddress,
				SnapshotID:           funding.SnapshotID,
				LongOpenInterestUsd:  oi.LongUsd,
				ShortOpenInterestUsd: oi.ShortUsd,
				FundingRatePerHour:   funding.LongRatePerHour.Abs(),
				LongsPayShorts:       funding.LongsPayShorts,
				Timestamp:            now,
			}).Error; e != nil {
				return e
			}
			if e := tx.Create(&gmxdata.FundingRateSnapshot{
				Symbol:           symbol,
				LongRatePerHour:  funding.LongRatePerHour,
				ShortRatePerHour: funding.ShortRatePerHour,
				LongsPayShorts:   funding.LongsPayShorts,
				Timestamp:        now,
			}).Error; e != nil {
				return e
			}
			return tx.Create(&gmxdata.OpenInterestSnapshot{
				Symbol:    symbol,
				LongUsd:   oi.LongUsd,
				ShortUsd:  oi.ShortUsd,
				TotalUsd:  oi.TotalUsd,
				Timestamp: now,
			}).Error
		})
		if err != nil {
			r.logger.Error("persist snapshots of %s failed: %s", symbol, err)
		}
	}
	r.logger.Info("recorded snapshots for %d markets", len(markets))
	return nil
}
