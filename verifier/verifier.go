// Package verifier cross-checks locally recomputed leverage against the
// leverage figure the indexer reports. The indexer historically divided
// position size by the raw collateral token amount, which inflates leverage
// by the collateral price.
package verifier

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arbikit/gmx-ccxt/ccxt"
	"github.com/arbikit/gmx-ccxt/common/logging"
	"github.com/arbikit/gmx-ccxt/graph/squid"
)

// relTolerance is the relative drift treated as agreement.
var relTolerance = decimal.RequireFromString("0.000001")

// Drift is one disagreement between recomputed and reported leverage.
type Drift struct {
	PositionID       string
	Symbol           string
	ReportedLeverage decimal.Decimal
	ComputedLeverage decimal.Decimal
	Relative         decimal.Decimal
}

type Verifier struct {
	config   *Config
	logger   logging.Logger
	exchange *ccxt.Exchange
	graph    squid.GraphInterface
}

func NewVerifier(
	config *Config, logger logging.Logger, exchange *ccxt.Exchange,
	graph squid.GraphInterface,
) *Verifier {
	if config.PositionLimit <= 0 {
		config.PositionLimit = 100
	}
	return &Verifier{
		config:   config,
		logger:   logger,
		exchange: exchange,
		graph:    graph,
	}
}

// Run verifies on every round interval until the context is canceled.
func (v *Verifier) Run(ctx context.Context) error {
	interval := v.config.RoundInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		drifts, err := v.VerifyOnce()
		if err != nil {
			v.logger.Error("verify round failed: %s", err)
		} else if len(drifts) > 0 {
			for _, drift := range drifts {
				v.logger.Warn(
					"leverage drift on %s position %s: reported %s, computed %s, relative %s",
					drift.Symbol, drift.PositionID,
					drift.ReportedLeverage, drift.ComputedLeverage, drift.Relative)
			}
		} else {
			v.logger.Info("verify round clean")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// VerifyOnce compares one batch of positions and returns the drifts found.
func (v *Verifier) VerifyOnce() ([]Drift, error) {
	raw, err := v.graph.GetPositions(v.config.Account, "", v.config.PositionLimit)
	if err != nil {
		return nil, err
	}
	rawReported := make(map[string]decimal.Decimal, len(raw))
	for _, position := range raw {
		rawReported[position.ID] = position.Leverage
	}

	positions, err := v.exchange.FetchPositions(v.config.Account, "", v.config.PositionLimit)
	if err != nil {
		return nil, err
	}

	var drifts []Drift
	for i := range positions {
		position := &positions[i]
		rawLeverage, ok := rawReported[position.ID]
		if !ok {
			continue
		}
		reportedLeverage := v.reportedLeverage(position, rawLeverage)
		if agree(position.Leverage, reportedLeverage) {
			continue
		}
		drifts = append(drifts, Drift{
			PositionID:       position.ID,
			Symbol:           position.Symbol,
			ReportedLeverage: reportedLeverage,
			ComputedLeverage: position.Leverage,
			Relative:         relativeDrift(position.Leverage, reportedLeverage),
		})
	}
	return drifts, nil
}

// reportedLeverage converts the indexer's raw leverage figure to human
// units. The entity stores sizeInUsd divided by collateralAmount on raw
// fixed-point values, so one unit of leverage is 10^(30 - collateral token
// decimals).
func (v *Verifier) reportedLeverage(position *ccxt.Position, raw decimal.Decimal) decimal.Decimal {
	decimals := int32(18)
	if market, err := v.exchange.MarketBySymbol(position.Symbol); err == nil {
		switch strings.ToLower(position.CollateralTokenAddress) {
		case strings.ToLower(market.LongTokenAddress):
			decimals = market.LongTokenDecimals
		case strings.ToLower(market.ShortTokenAddress):
			decimals = market.ShortTokenDecimals
		}
	}
	return raw.Shift(decimals - 30)
}

// agree holds when the relative drift is within tolerance. A zero computed
// leverage only agrees with a zero reported one.
func agree(computed, reportedLeverage decimal.Decimal) bool {
	if computed.IsZero() {
		return reportedLeverage.IsZero()
	}
	return relativeDrift(computed, reportedLeverage).LessThanOrEqual(relTolerance)
}

// relativeDrift is the drift relative to the computed figure. A zero
// computed leverage has no relative scale, the absolute difference is
// reported instead.
func relativeDrift(computed, reportedLeverage decimal.Decimal) decimal.Decimal {
	diff := reportedLeverage.Sub(computed).Abs()
	if computed.IsZero() {
		return diff
	}
	return diff.Div(computed.Abs())
}
