package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cashflow_backend/internal/models"
	"cashflow_backend/internal/repositories"
	"cashflow_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

const defaultLowStockThreshold = 5

// InventoryItemRequest is used both to create an item and to replace one.
type InventoryItemRequest struct {
	Name              string          `json:"name" binding:"required"`
	Category          string          `json:"category" binding:"required"`
	Stock             int             `json:"stock"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	LowStockThreshold *int            `json:"low_stock_threshold"`
	Description       *string         `json:"description"`
}

func (r InventoryItemRequest) toModel() (*models.InventoryItem, error) {
	name := strings.TrimSpace(r.Name)
	category := strings.TrimSpace(r.Category)
	if name == "" || category == "" {
		return nil, invalidf("name and category are required")
	}
	if r.Stock < 0 {
		return nil, invalidf("stock must not be negative")
	}
	if r.UnitPrice.IsNegative() {
		return nil, invalidf("unit_price must not be negative")
	}
	if err := checkMoney("unit_price", r.UnitPrice); err != nil {
		return nil, err
	}
	threshold := defaultLowStockThreshold
	if r.LowStockThreshold != nil {
		threshold = *r.LowStockThreshold
	}
	if threshold < 0 {
		return nil, invalidf("low_stock_threshold must not be negative")
	}
	return &models.InventoryItem{
		Name:              name,
		Category:          category,
		Stock:             r.Stock,
		UnitPrice:         r.UnitPrice,
		LowStockThreshold: threshold,
		Description:       utils.TrimPtr(r.Description),
	}, nil
}

type InventoryService interface {
	CreateItem(ctx context.Context, req InventoryItemRequest) (*models.InventoryItem, error)
	GetItemByID(ctx context.Context, id int64) (*models.InventoryItem, error)
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	UpdateItem(ctx context.Context, id int64, req InventoryItemRequest) (*models.InventoryItem, error)
	ListLowStock(ctx context.Context) ([]models.InventoryItem, error)
}

type inventoryService struct {
	inventoryRepo repositories.InventoryRepository
	db            repositories.SQLExecutor
}

// NewInventoryService creates a new instance of InventoryService.
func NewInventoryService(ir repositories.InventoryRepository, db repositories.SQLExecutor) InventoryService {
	return &inventoryService{inventoryRepo: ir, db: db}
}

func (s *inventoryService) CreateItem(ctx context.Context, req InventoryItemRequest) (*models.InventoryItem, error) {
	item, err := req.toModel()
	if err != nil {
		return nil, err
	}
	if _, err := s.inventoryRepo.CreateItem(ctx, s.db, item); err != nil {
		return nil, storageError("creating inventory item", err)
	}
	return item, nil
}

func (s *inventoryService) GetItemByID(ctx context.Context, id int64) (*models.InventoryItem, error) {
	item, err := s.inventoryRepo.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrInventoryItemNotFound, id)
		}
		return nil, storageError("getting inventory item", err)
	}
	return item, nil
}

func (s *inventoryService) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.inventoryRepo.ListItems(ctx)
	if err != nil {
		return nil, storageError("listing inventory", err)
	}
	return items, nil
}

// UpdateItem replaces the item's editable fields, stock included.
func (s *inventoryService) UpdateItem(ctx context.Context, id int64, req InventoryItemRequest) (*models.InventoryItem, error) {
	item, err := req.toModel()
	if err != nil {
		return nil, err
	}
	item.ID = id
	if err := s.inventoryRepo.UpdateItem(ctx, s.db, item); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrInventoryItemNotFound, id)
		}
		return nil, storageError("updating inventory item", err)
	}
	utils.LogInfo("Inventory item updated", map[string]interface{}{"inventory_id": id, "stock": item.Stock})
	return item, nil
}

// ListLowStock returns items at or below their threshold, lowest stock first.
func (s *inventoryService) ListLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.inventoryRepo.ListLowStock(ctx)
	if err != nil {
		return nil, storageError("listing low stock items", err)
	}
	return items, nil
}
