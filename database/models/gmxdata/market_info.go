package gmxdata

import (
	"github.com/shopspring/decimal"

	"github.com/arbikit/gmx-ccxt/database/models"
)

// MarketInfoSnapshot is one recorded market info reading. Rates are hourly
// decimals, USD columns are dollars (already unscaled from fixed point).
type MarketInfoSnapshot struct {
	ID         int64  `gorm:"column:id;primary_key;AUTO_INCREMENT;not null"`
	Symbol     string `gorm:"column:symbol;type:varchar(32);not null" json:"symbol"`
	MarketAddr string `gorm:"column:market_addr;type:varchar(128);not null" json:"market_addr"`
	SnapshotID string `gorm:"column:snapshot_id;type:varchar(128);not null" json:"snapshot_id"`

	LongOpenInterestUsd  decimal.Decimal `gorm:"column:long_oi_usd;type:decimal(38,18);not null" json:"long_oi_usd"`
	ShortOpenInterestUsd decimal.Decimal `gorm:"column:short_oi_usd;type:decimal(38,18);not null" json:"short_oi_usd"`
	FundingRatePerHour   decimal.Decimal `gorm:"column:funding_rate_hourly;type:decimal(38,18);not null" json:"funding_rate_hourly"`
	LongsPayShorts       bool            `gorm:"column:longs_pay_shorts;not null" json:"longs_pay_shorts"`

	// Timestamps.
	Timestamp int64 `gorm:"column:timestamp;type:bigint;not null" json:"timestamp"`

	models.Base
}

// Indexes returns information to create index.
func (*MarketInfoSnapshot) Indexes() []models.CustomIndex {
	return []models.CustomIndex{
		{
			Name:   "symbol_ts_idx",
			Fields: []string{"symbol", "timestamp"},
		},
	}
}
