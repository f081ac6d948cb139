package handlers

import (
	"net/http"

	"cashflow_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService services.InventoryService
}

func NewInventoryHandler(is services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: is}
}

// CreateItem handles creation of a new inventory item
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req services.InventoryItemRequest
	if !bindJSON(c, &req, "CreateItem") {
		return
	}
	item, err := h.inventoryService.CreateItem(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create inventory item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetItems handles fetching all inventory items
func (h *InventoryHandler) GetItems(c *gin.Context) {
	items, err := h.inventoryService.ListItems(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch inventory")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) GetItemByID(c *gin.Context) {
	id, ok := pathID(c, "inventory item")
	if !ok {
		return
	}
	item, err := h.inventoryService.GetItemByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch inventory item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateItem replaces an item. Admin only.
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, ok := pathID(c, "inventory item")
	if !ok {
		return
	}
	var req services.InventoryItemRequest
	if !bindJSON(c, &req, "UpdateItem") {
		return
	}
	item, err := h.inventoryService.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update inventory item")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) GetLowStockItems(c *gin.Context) {
	items, err := h.inventoryService.ListLowStock(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch low stock items")
		return
	}
	c.JSON(http.StatusOK, items)
}
