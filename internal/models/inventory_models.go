package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a stocked product. Stock is derived state maintained by postings.
type InventoryItem struct {
	ID                int64           `json:"id" db:"id"`
	Name              string          `json:"name" db:"name"`
	Category          string          `json:"category" db:"category"`
	Stock             int             `json:"stock" db:"stock"`
	UnitPrice         decimal.Decimal `json:"unit_price" db:"unit_price"`
	LowStockThreshold int             `json:"low_stock_threshold" db:"low_stock_threshold"`
	Description       *string         `json:"description,omitempty" db:"description"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// IsLowStock reports whether the item is at or below its replenishment threshold.
func (i InventoryItem) IsLowStock() bool {
	return i.Stock <= i.LowStockThreshold
}

// StockLevel is the post-adjustment view of an item returned by a stock update.
type StockLevel struct {
	ItemID            int64  `json:"inventory_id"`
	Name              string `json:"name"`
	Stock             int    `json:"stock"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}
