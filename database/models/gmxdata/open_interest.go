package gmxdata

import (
	"github.com/shopspring/decimal"

	"github.com/arbikit/gmx-ccxt/database/models"
)

// OpenInterestSnapshot is one recorded open interest reading of a market.
type OpenInterestSnapshot struct {
	ID     int64  `gorm:"column:id;primary_key;AUTO_INCREMENT;not null"`
	Symbol string `gorm:"column:symbol;type:varchar(32);not null" json:"symbol"`

	LongUsd  decimal.Decimal `gorm:"column:long_usd;type:decimal(38,18);not null" json:"long_usd"`
	ShortUsd decimal.Decimal `gorm:"column:short_usd;type:decimal(38,18);not null" json:"short_usd"`
	TotalUsd decimal.Decimal `gorm:"column:total_usd;type:decimal(38,18);not null" json:"total_usd"`

	// Timestamps.
	Timestamp int64 `gorm:"column:timestamp;type:bigint;not null" json:"timestamp"`

	models.Base
}

// Indexes returns information to create index.
func (*OpenInterestSnapshot) Indexes() []models.CustomIndex {
	return []models.CustomIndex{
		{
			Name:   "symbol_ts_idx",
			Fields: []string{"symbol", "timestamp"},
		},
	}
}
