package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a money movement.
type TransactionKind string

const (
	KindSale      TransactionKind = "sale"
	KindPurchase  TransactionKind = "purchase"
	KindPaymentIn TransactionKind = "payment_in"
	KindExpense   TransactionKind = "expense"
)

// TransactionKinds lists every valid kind in display order.
var TransactionKinds = []TransactionKind{KindSale, KindPurchase, KindPaymentIn, KindExpense}

func (k TransactionKind) Valid() bool {
	switch k {
	case KindSale, KindPurchase, KindPaymentIn, KindExpense:
		return true
	}
	return false
}

// BalanceSign is +1 for money coming in and -1 for money going out.
func (k TransactionKind) BalanceSign() int {
	switch k {
	case KindSale, KindPaymentIn:
		return 1
	case KindPurchase, KindExpense:
		return -1
	}
	return 0
}

// StockDirection is the multiplier applied to line quantities: sales remove
// stock, purchases add it, other kinds leave it alone.
func (k TransactionKind) StockDirection() int {
	switch k {
	case KindSale:
		return -1
	case KindPurchase:
		return 1
	}
	return 0
}

// CarriesLineItems reports whether postings of this kind may list inventory lines.
func (k TransactionKind) CarriesLineItems() bool {
	return k.StockDirection() != 0
}

// TransactionStatus distinguishes settled from unsettled transactions.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusPending   TransactionStatus = "pending"
)

func (s TransactionStatus) Valid() bool {
	return s == StatusCompleted || s == StatusPending
}

// Transaction is a recorded sale, purchase, incoming payment or expense.
type Transaction struct {
	ID            int64             `json:"id" db:"id"`
	Kind          TransactionKind   `json:"type" db:"kind"`
	ContactID     *int64            `json:"contact_id,omitempty" db:"contact_id"`
	ContactName   *string           `json:"contact_name,omitempty"`
	ReceiptNumber *string           `json:"receipt_number,omitempty" db:"receipt_number"`
	Amount        decimal.Decimal   `json:"amount" db:"amount"`
	Date          time.Time         `json:"date" db:"date"`
	Description   *string           `json:"description,omitempty" db:"description"`
	Status        TransactionStatus `json:"status" db:"status"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	LineItems     []LineItem        `json:"items,omitempty"`
}

// LineItem is one inventory line of a sale or purchase.
type LineItem struct {
	ID              int64           `json:"id" db:"id"`
	TransactionID   int64           `json:"transaction_id" db:"transaction_id"`
	InventoryItemID int64           `json:"inventory_id" db:"inventory_id"`
	ItemName        string          `json:"item_name,omitempty"`
	Quantity        int             `json:"quantity" db:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// Total is quantity × unit price.
func (l LineItem) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// TransactionFilters narrows transaction listings.
type TransactionFilters struct {
	Kind   *TransactionKind
	Status *TransactionStatus
	Limit  int
}
