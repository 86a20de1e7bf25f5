// Package calc holds the pure position math. Everything here works on
// decimal inputs already fetched elsewhere, no I/O.
package calc

import (
	"github.com/arbikit/gmx-ccxt/common/logging"
	"github.com/shopspring/decimal"
)

// usdFixedScale is the fixed-point exponent of USD-denominated fields in
// GMX synthetics data (raw value / 1e30 = dollars).
const usdFixedScale = 30

// secondsPerHour converts per-second protocol factors to hourly rates.
var secondsPerHour = decimal.NewFromInt(3600)

// PositionReading is one raw position as read from chain or indexer.
// PositionSizeUsd is the raw 1e30 fixed-point size, CollateralAmountRaw the
// raw collateral token amount at the token's native decimals.
type PositionReading struct {
	PositionSizeUsd         decimal.Decimal
	CollateralAmountRaw     decimal.Decimal
	CollateralTokenAddress  string
	CollateralTokenDecimals int32
	IndexTokenAddress       string
	IsLong                  bool
}

// OracleQuote is one USD price reading for a token.
type OracleQuote struct {
	TokenAddress string
	PriceUsd     decimal.Decimal
}

// LeverageMetrics is the derived view of one position. CollateralAmountUsd
// is a dollar value, never a token amount. PriceAssumed reports that the
// $1 stablecoin fallback was taken, so callers running in strict pricing
// mode can reject the result.
type LeverageMetrics struct {
	CollateralAmountUsd decimal.Decimal
	Leverage            decimal.Decimal
	PriceAssumed        bool
}

// UsdFromFixed30 converts a raw 1e30 fixed-point amount to dollars.
func UsdFromFixed30(raw decimal.Decimal) decimal.Decimal {
	return raw.Shift(-usdFixedScale)
}

// TokensFromRaw converts a raw token amount to human units.
func TokensFromRaw(raw decimal.Decimal, decimals int32) decimal.Decimal {
	return raw.Shift(-decimals)
}

// PerSecondToHourly converts a per-second rate factor (raw 1e30 fixed point)
// to an hourly decimal rate.
func PerSecondToHourly(perSecond decimal.Decimal) decimal.Decimal {
	return UsdFromFixed30(perSecond).Mul(secondsPerHour)
}

// ResolveCollateralPrice picks the collateral USD price for a position.
// Order: the collateral quote if present, then the index quote when the
// collateral token is the index token, then 1.0 (stablecoin assumption).
// The fallback to 1.0 is logged because it silently distorts leverage for
// any non-stable collateral without a feed.
func ResolveCollateralPrice(
	logger logging.Logger,
	position *PositionReading,
	indexQuote OracleQuote,
	collateralQuote *OracleQuote,
) (price decimal.Decimal, assumed bool) {
	if collateralQuote != nil {
		return collateralQuote.PriceUsd, false
	}
	if position.CollateralTokenAddress == position.IndexTokenAddress {
		return indexQuote.PriceUsd, false
	}
	if logger != nil {
		logger.Warn("no oracle quote for collateral token %s, assuming price $1",
			position.CollateralTokenAddress)
	}
	return decimal.NewFromInt(1), true
}

// ComputeLeverageMetrics derives the USD collateral value and the leverage
// of one position. Leverage is positionSizeUsd over the dollar value of the
// collateral, never over the raw token amount. Zero collateral value yields
// leverage exactly zero.
func ComputeLeverageMetrics(
	logger logging.Logger,
	position *PositionReading,
	indexQuote OracleQuote,
	collateralQuote *OracleQuote,
) LeverageMetrics {
	collateralPriceUsd, assumed := ResolveCollateralPrice(logger, position, indexQuote, collateralQuote)
	collateralAmountTokens := TokensFromRaw(
		position.CollateralAmountRaw, position.CollateralTokenDecimals)
	collateralAmountUsd := collateralAmountTokens.Mul(collateralPriceUsd)

	positionSizeUsd := UsdFromFixed30(position.PositionSizeUsd)
	leverage := decimal.Zero
	if collateralAmountUsd.IsPositive() {
		leverage = positionSizeUsd.Div(collateralAmountUsd)
	}
	return LeverageMetrics{
		CollateralAmountUsd: collateralAmountUsd,
		Leverage:            leverage,
		PriceAssumed:        assumed,
	}
}
