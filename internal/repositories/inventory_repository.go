package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cashflow_backend/internal/models"
)

// InventoryRepository defines the interface for inventory-related database operations.
type InventoryRepository interface {
	CreateItem(ctx context.Context, executor SQLExecutor, item *models.InventoryItem) (int64, error)
	GetItemByID(ctx context.Context, id int64) (*models.InventoryItem, error)
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	UpdateItem(ctx context.Context, executor SQLExecutor, item *models.InventoryItem) error
	AdjustStock(ctx context.Context, executor SQLExecutor, itemID int64, delta int) (*models.StockLevel, error) // Returns the level after the change
	ListLowStock(ctx context.Context) ([]models.InventoryItem, error)
	CountLowStock(ctx context.Context) (int, error)
	RecentItems(ctx context.Context, limit int) ([]models.InventoryItem, error)
}

type inventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository.
func NewInventoryRepository(db *sql.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

const inventoryColumns = `id, name, category, stock, unit_price, low_stock_threshold, description, created_at, updated_at`

func scanInventoryItem(s scanner, it *models.InventoryItem) error {
	return s.Scan(&it.ID, &it.Name, &it.Category, &it.Stock, &it.UnitPrice,
		&it.LowStockThreshold, &it.Description, &it.CreatedAt, &it.UpdatedAt)
}

func (r *inventoryRepository) CreateItem(ctx context.Context, executor SQLExecutor, item *models.InventoryItem) (int64, error) {
	query := `INSERT INTO inventory (name, category, stock, unit_price, low_stock_threshold, description)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`
	err := executor.QueryRowContext(ctx, query,
		item.Name, item.Category, item.Stock, item.UnitPrice, item.LowStockThreshold, item.Description,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return 0, wrapWriteError(err, "creating inventory item")
	}
	return item.ID, nil
}

func (r *inventoryRepository) GetItemByID(ctx context.Context, id int64) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE id = $1`
	if err := scanInventoryItem(r.db.QueryRowContext(ctx, query, id), item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting inventory item by ID %d: %v", ErrDatabaseError, id, err)
	}
	return item, nil
}

func (r *inventoryRepository) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	return r.queryItems(ctx, `SELECT `+inventoryColumns+` FROM inventory ORDER BY name, id`)
}

// UpdateItem replaces every editable column of the item.
func (r *inventoryRepository) UpdateItem(ctx context.Context, executor SQLExecutor, item *models.InventoryItem) error {
	query := `UPDATE inventory SET
	            name = $1, category = $2, stock = $3, unit_price = $4,
	            low_stock_threshold = $5, description = $6, updated_at = NOW()
	          WHERE id = $7
	          RETURNING created_at, updated_at`
	err := executor.QueryRowContext(ctx, query,
		item.Name, item.Category, item.Stock, item.UnitPrice, item.LowStockThreshold, item.Description, item.ID,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return wrapWriteError(err, fmt.Sprintf("updating inventory item ID %d", item.ID))
	}
	return nil
}

// AdjustStock adds delta (negative for removals) in a single statement. The row lock it
// takes is held until the surrounding transaction ends, so concurrent postings against the
// same item are serialized and the returned stock is the value this caller produced.
func (r *inventoryRepository) AdjustStock(ctx context.Context, executor SQLExecutor, itemID int64, delta int) (*models.StockLevel, error) {
	level := &models.StockLevel{}
	query := `UPDATE inventory
	          SET stock = stock + $1, updated_at = NOW()
	          WHERE id = $2
	          RETURNING id, name, stock, low_stock_threshold`
	err := executor.QueryRowContext(ctx, query, delta, itemID).Scan(
		&level.ItemID, &level.Name, &level.Stock, &level.LowStockThreshold,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound // Item does not exist
		}
		return nil, fmt.Errorf("%w: updating stock for item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	return level, nil
}

func (r *inventoryRepository) ListLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	return r.queryItems(ctx, `SELECT `+inventoryColumns+` FROM inventory
	                          WHERE stock <= low_stock_threshold ORDER BY stock, name`)
}

func (r *inventoryRepository) CountLowStock(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory WHERE stock <= low_stock_threshold`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting low stock items: %v", ErrDatabaseError, err)
	}
	return count, nil
}

// RecentItems returns the newest items by creation time, feeding the activity stream.
func (r *inventoryRepository) RecentItems(ctx context.Context, limit int) ([]models.InventoryItem, error) {
	return r.queryItems(ctx, `SELECT `+inventoryColumns+` FROM inventory
	                          ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
}

func (r *inventoryRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]models.InventoryItem, error) {
	items := []models.InventoryItem{}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying inventory items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var it models.InventoryItem
		if err := scanInventoryItem(rows, &it); err != nil {
			return nil, fmt.Errorf("%w: scanning inventory item: %v", ErrDatabaseError, err)
		}
		items = append(items, it)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating inventory items: %v", ErrDatabaseError, err)
	}
	return items, nil
}
