package handlers

import (
	"errors"
	"net/http"

	"cashflow_backend/internal/services"
	"cashflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

var notFoundErrors = []error{
	services.ErrTransactionNotFound,
	services.ErrContactNotFound,
	services.ErrInventoryItemNotFound,
	services.ErrUserNotFound,
}

// respondServiceError maps the service error taxonomy onto the API error envelope.
// Storage failures are logged and reported without internal detail.
func respondServiceError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.LogWarn(action+": validation failed", map[string]interface{}{"error": err.Error()})
		utils.RespondValidationFailed(c, err.Error())
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid credentials", ""))
		return
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, target.Error(), err.Error()))
			return
		}
	}
	utils.LogError(err, action)
	utils.RespondInternalError(c, action)
}

// bindJSON binds the request body and answers 400 on failure.
func bindJSON(c *gin.Context, dst interface{}, action string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.LogError(err, action+": Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return false
	}
	return true
}

// pathID parses the :id path parameter and answers 400 when it is not a positive integer.
func pathID(c *gin.Context, entity string) (int64, bool) {
	id, err := utils.ParsePositiveID(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid "+entity+" ID", err.Error()))
		return 0, false
	}
	return id, true
}
