package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActivityType names the stream an activity record came from.
type ActivityType string

const (
	ActivityTransaction ActivityType = "transaction"
	ActivityInventory   ActivityType = "inventory"
)

// ActivitySubTypeUpdate is the sub type carried by inventory activity records.
const ActivitySubTypeUpdate = "update"

// ActivityRecord is one entry of the dashboard's recent activity feed.
// For inventory records Amount holds the item's current stock.
type ActivityRecord struct {
	Type        ActivityType    `json:"type"`
	SubType     string          `json:"sub_type"`
	Description *string         `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	ContactName *string         `json:"contact_name,omitempty"`
}

// DashboardStats holds key metrics for the dashboard.
type DashboardStats struct {
	TotalBalance   decimal.Decimal   `json:"total_balance"`
	ToReceive      decimal.Decimal   `json:"to_receive"`
	ToGive         decimal.Decimal   `json:"to_give"`
	TotalSales     decimal.Decimal   `json:"total_sales"`
	TotalPurchases decimal.Decimal   `json:"total_purchases"`
	TotalExpenses  decimal.Decimal   `json:"total_expenses"`
	LowStockItems  int               `json:"low_stock_items"`
	Currency       string            `json:"currency"`
	Display        map[string]string `json:"display"`
	PeriodStart    time.Time         `json:"period_start"`
	PeriodEnd      time.Time         `json:"period_end"`
}
