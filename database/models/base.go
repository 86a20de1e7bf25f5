package models

import (
	"time"

	"github.com/arbikit/gmx-ccxt/types"
)

// CustomIndex defines index information
type CustomIndex struct {
	Name      string
	Unique    bool
	Fields    []string
	Type      string
	Condition string
}

// CustomIndexer defines a interface for models that decouples creating index from Gorm tag
// functionality
type CustomIndexer interface {
	Indexes() []CustomIndex
}

// Base is the base model for all data model.
type Base struct {
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp with time zone" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp with time zone" json:"-"`
}

// TimestampFieldName return created at as our timestamp.
func (b Base) TimestampFieldName() string {
	return "CreatedAt"
}

// System defines the table to store system variables.
type System struct {
	Base

	ID    int64        `gorm:"column:id;primary_key;AUTO_INCREMENT;not null" json:"id"`
	Name  types.SysVar `gorm:"column:name;primary_key;type:varchar(50);not null" json:"-"`
	Value string       `gorm:"column:value;primary_key;type:varchar(512)" json:"-"`
}
