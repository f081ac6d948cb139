package handlers

import (
	"net/http"

	"cashflow_backend/internal/services"
	"cashflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const maxTransactionPage = 500

// TransactionHandler exposes the posting engine.
type TransactionHandler struct {
	postingService services.PostingService
}

func NewTransactionHandler(ps services.PostingService) *TransactionHandler {
	return &TransactionHandler{postingService: ps}
}

// CreateTransaction handles POST /transactions. Warnings from an accepted posting are
// returned alongside the new id.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req services.PostTransactionRequest
	if !bindJSON(c, &req, "CreateTransaction") {
		return
	}
	result, err := h.postingService.PostTransaction(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetTransactions handles GET /transactions?type=&status=&limit=.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	limit := utils.ClampLimit(c.Query("limit"), 0, maxTransactionPage)
	transactions, err := h.postingService.ListTransactions(c.Request.Context(), c.Query("type"), c.Query("status"), limit)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	id, ok := pathID(c, "transaction")
	if !ok {
		return
	}
	t, err := h.postingService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch transaction")
		return
	}
	c.JSON(http.StatusOK, t)
}

// SettleTransaction handles PATCH /transactions/:id/settle.
func (h *TransactionHandler) SettleTransaction(c *gin.Context) {
	id, ok := pathID(c, "transaction")
	if !ok {
		return
	}
	t, err := h.postingService.SettleTransaction(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to settle transaction")
		return
	}
	c.JSON(http.StatusOK, t)
}
