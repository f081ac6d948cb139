package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cashflow_backend/internal/config"
	"cashflow_backend/internal/models"
	"cashflow_backend/internal/repositories"
	"cashflow_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	defaultTransactionListLimit = 50
	maxTransactionListLimit     = 500
)

// maxMoney is the largest value a NUMERIC(12, 2) column holds.
var maxMoney = decimal.RequireFromString("9999999999.99")

// checkMoney rejects amounts finer than a cent or too large to store.
func checkMoney(field string, d decimal.Decimal) error {
	if !d.Equal(d.Round(2)) {
		return invalidf("%s must have at most two decimal places; got %s", field, d)
	}
	if d.GreaterThan(maxMoney) {
		return invalidf("%s must not exceed %s; got %s", field, maxMoney, d)
	}
	return nil
}

// WarningCode identifies a condition the posting accepted but the caller should see.
type WarningCode string

const (
	WarningNegativeStock  WarningCode = "negative_stock"
	WarningLowStock       WarningCode = "low_stock"
	WarningAmountMismatch WarningCode = "amount_mismatch"
)

// --- Data Transfer Objects (DTOs) ---

// LineItemRequest is one inventory line of a posting.
type LineItemRequest struct {
	InventoryItemID int64           `json:"inventory_id" binding:"required"`
	Quantity        int             `json:"quantity" binding:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

// PostTransactionRequest is used for recording a sale, purchase, incoming payment or expense.
type PostTransactionRequest struct {
	Kind          models.TransactionKind   `json:"type" binding:"required"`
	ContactID     *int64                   `json:"contact_id"`
	ReceiptNumber *string                  `json:"receipt_number"`
	Amount        decimal.Decimal          `json:"amount"`
	Date          string                   `json:"date" binding:"required"`
	Description   *string                  `json:"description"`
	Status        models.TransactionStatus `json:"status"`
	Items         []LineItemRequest        `json:"items"`
}

// Validate checks everything that can be checked without the store and returns the
// normalized transaction and its line items.
func (r PostTransactionRequest) Validate(loc *time.Location) (*models.Transaction, []models.LineItem, error) {
	if !r.Kind.Valid() {
		return nil, nil, invalidf("type must be one of %s; got %q", kindList(), r.Kind)
	}
	status := r.Status
	if status == "" {
		status = models.StatusCompleted
	}
	if !status.Valid() {
		return nil, nil, invalidf("status must be completed or pending; got %q", r.Status)
	}
	if !r.Amount.IsPositive() {
		return nil, nil, invalidf("amount must be greater than zero")
	}
	if err := checkMoney("amount", r.Amount); err != nil {
		return nil, nil, err
	}
	date, err := utils.ParseFlexibleTime(r.Date, loc)
	if err != nil {
		return nil, nil, invalidf("%v", err)
	}
	if r.ContactID != nil && *r.ContactID <= 0 {
		return nil, nil, invalidf("contact_id must be a positive integer")
	}
	if len(r.Items) > 0 && !r.Kind.CarriesLineItems() {
		return nil, nil, validationError(ErrLineItemsNotAllowed, "%s transactions cannot carry items", r.Kind)
	}

	lines := make([]models.LineItem, 0, len(r.Items))
	for i, it := range r.Items {
		if it.InventoryItemID <= 0 {
			return nil, nil, invalidf("items[%d]: inventory_id must be a positive integer", i)
		}
		if it.Quantity <= 0 {
			return nil, nil, invalidf("items[%d]: quantity must be greater than zero", i)
		}
		if it.UnitPrice.IsNegative() {
			return nil, nil, invalidf("items[%d]: unit_price must not be negative", i)
		}
		if err := checkMoney(fmt.Sprintf("items[%d]: unit_price", i), it.UnitPrice); err != nil {
			return nil, nil, err
		}
		lines = append(lines, models.LineItem{
			InventoryItemID: it.InventoryItemID,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
		})
	}

	t := &models.Transaction{
		Kind:          r.Kind,
		ContactID:     r.ContactID,
		ReceiptNumber: utils.TrimPtr(r.ReceiptNumber),
		Amount:        r.Amount,
		Date:          date,
		Description:   utils.TrimPtr(r.Description),
		Status:        status,
	}
	return t, lines, nil
}

// PostingWarning reports an accepted posting that left something worth attention.
type PostingWarning struct {
	Code            WarningCode `json:"code"`
	InventoryItemID int64       `json:"inventory_id,omitempty"`
	ItemName        string      `json:"item_name,omitempty"`
	Stock           *int        `json:"stock,omitempty"`
	Message         string      `json:"message"`
}

// PostingResult is returned for a committed posting.
type PostingResult struct {
	TransactionID int64            `json:"transaction_id"`
	Warnings      []PostingWarning `json:"warnings"`
}

// --- PostingService Interface ---
type PostingService interface {
	PostTransaction(ctx context.Context, req PostTransactionRequest) (*PostingResult, error)
	SettleTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, kind, status string, limit int) ([]models.Transaction, error)
}

// --- postingService Implementation ---
type postingService struct {
	transactionRepo repositories.TransactionRepository
	inventoryRepo   repositories.InventoryRepository
	contactRepo     repositories.ContactRepository
	transactor      repositories.Transactor
	policy          config.PostingConfig
	loc             *time.Location
}

// NewPostingService creates a new instance of PostingService. Dates without a zone
// are read in the server's local time.
func NewPostingService(
	tr repositories.TransactionRepository,
	ir repositories.InventoryRepository,
	cr repositories.ContactRepository,
	transactor repositories.Transactor,
	policy config.PostingConfig,
) PostingService {
	return &postingService{
		transactionRepo: tr,
		inventoryRepo:   ir,
		contactRepo:     cr,
		transactor:      transactor,
		policy:          policy,
		loc:             time.Local,
	}
}

// PostTransaction records the transaction, its line items and their stock effects as one unit.
func (s *postingService) PostTransaction(ctx context.Context, req PostTransactionRequest) (*PostingResult, error) {
	t, lines, err := req.Validate(s.loc)
	if err != nil {
		return nil, err
	}

	result := &PostingResult{Warnings: []PostingWarning{}}

	if len(lines) > 0 {
		total := decimal.Zero
		for _, li := range lines {
			total = total.Add(li.Total())
		}
		if !total.Equal(t.Amount) {
			if s.policy.AmountPolicy != config.AmountPolicyLenient {
				return nil, validationError(ErrAmountMismatch, "amount %s, line total %s", t.Amount.StringFixed(2), total.StringFixed(2))
			}
			result.Warnings = append(result.Warnings, PostingWarning{
				Code:    WarningAmountMismatch,
				Message: fmt.Sprintf("amount %s differs from line total %s", t.Amount.StringFixed(2), total.StringFixed(2)),
			})
		}
	}

	var stockWarnings []PostingWarning
	err = s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if t.ContactID != nil {
			exists, err := s.contactRepo.ContactExists(ctx, exec, *t.ContactID)
			if err != nil {
				return storageError("checking contact", err)
			}
			if !exists {
				return validationError(ErrContactNotFound, "contact %d", *t.ContactID)
			}
		}

		if _, err := s.transactionRepo.CreateTransaction(ctx, exec, t); err != nil {
			if errors.Is(err, repositories.ErrForeignKey) {
				return validationError(ErrContactNotFound, "contact %d", *t.ContactID)
			}
			return storageError("creating transaction", err)
		}

		direction := t.Kind.StockDirection()
		for i := range lines {
			li := &lines[i]
			level, err := s.inventoryRepo.AdjustStock(ctx, exec, li.InventoryItemID, direction*li.Quantity)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return validationError(ErrInventoryItemNotFound, "inventory item %d", li.InventoryItemID)
				}
				return storageError("adjusting stock", err)
			}
			li.ItemName = level.Name

			// Only removals can make stock negative; purchases may restock a negative level.
			if direction < 0 && level.Stock < 0 {
				if s.policy.StockPolicy == config.StockPolicyReject {
					return validationError(ErrInsufficientStock, "%s (ID: %d). Requested: %d, Available: %d",
						level.Name, level.ItemID, li.Quantity, level.Stock-direction*li.Quantity)
				}
				stockWarnings = append(stockWarnings, stockWarning(WarningNegativeStock, level,
					fmt.Sprintf("%s stock is now %d", level.Name, level.Stock)))
			}
			if level.Stock <= level.LowStockThreshold {
				stockWarnings = append(stockWarnings, stockWarning(WarningLowStock, level,
					fmt.Sprintf("%s is at or below its low-stock threshold of %d", level.Name, level.LowStockThreshold)))
			}

			li.TransactionID = t.ID
			if _, err := s.transactionRepo.CreateLineItem(ctx, exec, li); err != nil {
				if errors.Is(err, repositories.ErrForeignKey) {
					return validationError(ErrInventoryItemNotFound, "inventory item %d", li.InventoryItemID)
				}
				return storageError("creating transaction item", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify("posting transaction", err)
	}

	result.TransactionID = t.ID
	result.Warnings = append(result.Warnings, stockWarnings...)
	for _, w := range result.Warnings {
		utils.LogWarn("Posting accepted with warning", map[string]interface{}{
			"transaction_id": t.ID,
			"code":           w.Code,
			"inventory_id":   w.InventoryItemID,
			"detail":         w.Message,
		})
	}
	utils.LogInfo("Transaction posted", map[string]interface{}{
		"transaction_id": t.ID,
		"type":           t.Kind,
		"status":         t.Status,
		"amount":         t.Amount.StringFixed(2),
		"items":          len(lines),
	})
	return result, nil
}

func stockWarning(code WarningCode, level *models.StockLevel, message string) PostingWarning {
	stock := level.Stock
	return PostingWarning{
		Code:            code,
		InventoryItemID: level.ItemID,
		ItemName:        level.Name,
		Stock:           &stock,
		Message:         message,
	}
}

// SettleTransaction moves a pending transaction to completed. Stock is untouched;
// it moved when the transaction was posted.
func (s *postingService) SettleTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		status, err := s.transactionRepo.LockStatus(ctx, exec, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: ID %d", ErrTransactionNotFound, id)
			}
			return storageError("locking transaction", err)
		}
		if status == models.StatusCompleted {
			return validationError(ErrAlreadySettled, "transaction %d", id)
		}
		if err := s.transactionRepo.UpdateStatus(ctx, exec, id, models.StatusCompleted); err != nil {
			return storageError("settling transaction", err)
		}
		return nil
	})
	if err != nil {
		return nil, classify("settling transaction", err)
	}

	utils.LogInfo("Transaction settled", map[string]interface{}{"transaction_id": id})
	return s.GetTransaction(ctx, id)
}

// GetTransaction returns the transaction together with its line items.
func (s *postingService) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	t, err := s.transactionRepo.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrTransactionNotFound, id)
		}
		return nil, storageError("getting transaction", err)
	}
	items, err := s.transactionRepo.GetLineItems(ctx, id)
	if err != nil {
		return nil, storageError("getting transaction items", err)
	}
	t.LineItems = items
	return t, nil
}

// ListTransactions returns the newest transactions, optionally of one kind and status.
// limit falls back to 50 when not positive and is capped at 500.
func (s *postingService) ListTransactions(ctx context.Context, kind, status string, limit int) ([]models.Transaction, error) {
	filters := models.TransactionFilters{Limit: limit}
	if filters.Limit <= 0 {
		filters.Limit = defaultTransactionListLimit
	}
	if filters.Limit > maxTransactionListLimit {
		filters.Limit = maxTransactionListLimit
	}
	if kind = strings.TrimSpace(kind); kind != "" {
		k := models.TransactionKind(kind)
		if !k.Valid() {
			return nil, invalidf("unknown transaction type %q; want one of %s", kind, kindList())
		}
		filters.Kind = &k
	}
	if status = strings.TrimSpace(status); status != "" {
		st := models.TransactionStatus(status)
		if !st.Valid() {
			return nil, invalidf("unknown transaction status %q", status)
		}
		filters.Status = &st
	}

	transactions, err := s.transactionRepo.ListTransactions(ctx, filters)
	if err != nil {
		return nil, storageError("listing transactions", err)
	}
	return transactions, nil
}

// classify passes service errors through and marks anything else as a storage failure.
func classify(action string, err error) error {
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrStorage) || errors.Is(err, ErrTransactionNotFound) {
		return err
	}
	return storageError(action, err)
}

func kindList() string {
	names := make([]string, len(models.TransactionKinds))
	for i, k := range models.TransactionKinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
