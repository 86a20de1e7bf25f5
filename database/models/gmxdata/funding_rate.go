package gmxdata

import (
	"github.com/shopspring/decimal"

	"github.com/arbikit/gmx-ccxt/database/models"
)

// FundingRateSnapshot is one recorded funding rate reading of a market.
type FundingRateSnapshot struct {
	ID     int64  `gorm:"column:id;primary_key;AUTO_INCREMENT;not null"`
	Symbol string `gorm:"column:symbol;type:varchar(32);not null" json:"symbol"`

	LongRatePerHour  decimal.Decimal `gorm:"column:long_rate_hourly;type:decimal(38,18);not null" json:"long_rate_hourly"`
	ShortRatePerHour decimal.Decimal `gorm:"column:short_rate_hourly;type:decimal(38,18);not null" json:"short_rate_hourly"`
	LongsPayShorts   bool            `gorm:"column:longs_pay_shorts;not null" json:"longs_pay_shorts"`

	// Timestamps.
	Timestamp int64 `gorm:"column:timestamp;type:bigint;not null" json:"timestamp"`

	models.Base
}

// Indexes returns information to create index.
func (*FundingRateSnapshot) Indexes() []models.CustomIndex {
	return []models.CustomIndex{
		{
			Name:   "symbol_ts_idx",
			Fields: []string{"symbol", "timestamp"},
		},
	}
}
