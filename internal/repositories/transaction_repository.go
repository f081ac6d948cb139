package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cashflow_backend/internal/models"
)

// TransactionRepository defines the interface for transaction and line item database operations.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, executor SQLExecutor, t *models.Transaction) (int64, error)
	CreateLineItem(ctx context.Context, executor SQLExecutor, item *models.LineItem) (int64, error)
	GetTransactionByID(ctx context.Context, id int64) (*models.Transaction, error)
	GetLineItems(ctx context.Context, transactionID int64) ([]models.LineItem, error)
	ListTransactions(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, error)
	LockStatus(ctx context.Context, executor SQLExecutor, id int64) (models.TransactionStatus, error)
	UpdateStatus(ctx context.Context, executor SQLExecutor, id int64, status models.TransactionStatus) error
	RecentTransactions(ctx context.Context, limit int) ([]models.Transaction, error)
}

type transactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new instance of TransactionRepository.
func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionSelect = `
	SELECT t.id, t.kind, t.contact_id, c.name AS contact_name, t.receipt_number, t.amount,
	       t.date, t.description, t.status, t.created_at
	FROM transactions t
	LEFT JOIN contacts c ON t.contact_id = c.id`

func scanTransaction(s scanner, t *models.Transaction) error {
	return s.Scan(&t.ID, &t.Kind, &t.ContactID, &t.ContactName, &t.ReceiptNumber, &t.Amount,
		&t.Date, &t.Description, &t.Status, &t.CreatedAt)
}

// --- Transaction Methods ---

func (r *transactionRepository) CreateTransaction(ctx context.Context, executor SQLExecutor, t *models.Transaction) (int64, error) {
	query := `INSERT INTO transactions
	            (kind, contact_id, receipt_number, amount, date, description, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at`
	err := executor.QueryRowContext(ctx, query,
		t.Kind, t.ContactID, t.ReceiptNumber, t.Amount, t.Date, t.Description, t.Status,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return 0, wrapWriteError(err, "creating transaction")
	}
	return t.ID, nil
}

func (r *transactionRepository) GetTransactionByID(ctx context.Context, id int64) (*models.Transaction, error) {
	t := &models.Transaction{}
	if err := scanTransaction(r.db.QueryRowContext(ctx, transactionSelect+` WHERE t.id = $1`, id), t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting transaction by ID %d: %v", ErrDatabaseError, id, err)
	}
	return t, nil
}

// ListTransactions returns transactions newest first. A zero limit means no limit.
func (r *transactionRepository) ListTransactions(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(transactionSelect)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("t.kind = $%d", argCounter))
		args = append(args, *filters.Kind)
		argCounter++
	}
	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY t.date DESC, t.id DESC")
	if filters.Limit > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.Limit)
	}

	return r.queryTransactions(ctx, queryBuilder.String(), args...)
}

// RecentTransactions feeds the activity stream.
func (r *transactionRepository) RecentTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	return r.ListTransactions(ctx, models.TransactionFilters{Limit: limit})
}

// LockStatus reads the status and holds a row lock until the executor's transaction ends.
func (r *transactionRepository) LockStatus(ctx context.Context, executor SQLExecutor, id int64) (models.TransactionStatus, error) {
	var status models.TransactionStatus
	err := executor.QueryRowContext(ctx, `SELECT status FROM transactions WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: locking transaction ID %d: %v", ErrDatabaseError, id, err)
	}
	return status, nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, executor SQLExecutor, id int64, status models.TransactionStatus) error {
	result, err := executor.ExecContext(ctx, `UPDATE transactions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("%w: updating transaction status for ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for transaction status update ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *transactionRepository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying transactions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, fmt.Errorf("%w: scanning transaction: %v", ErrDatabaseError, err)
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating transaction rows: %v", ErrDatabaseError, err)
	}
	return transactions, nil
}

// --- LineItem Methods ---

func (r *transactionRepository) CreateLineItem(ctx context.Context, executor SQLExecutor, item *models.LineItem) (int64, error) {
	query := `INSERT INTO transaction_items (transaction_id, inventory_id, quantity, unit_price)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		item.TransactionID, item.InventoryItemID, item.Quantity, item.UnitPrice,
	).Scan(&item.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating transaction item")
	}
	return item.ID, nil
}

func (r *transactionRepository) GetLineItems(ctx context.Context, transactionID int64) ([]models.LineItem, error) {
	items := []models.LineItem{}
	query := `
		SELECT ti.id, ti.transaction_id, ti.inventory_id, i.name, ti.quantity, ti.unit_price
		FROM transaction_items ti
		JOIN inventory i ON ti.inventory_id = i.id
		WHERE ti.transaction_id = $1
		ORDER BY ti.id`

	rows, err := r.db.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying items for transaction ID %d: %v", ErrDatabaseError, transactionID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(&item.ID, &item.TransactionID, &item.InventoryItemID, &item.ItemName,
			&item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("%w: scanning item for transaction ID %d: %v", ErrDatabaseError, transactionID, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating item rows for transaction ID %d: %v", ErrDatabaseError, transactionID, err)
	}
	return items, nil
}
