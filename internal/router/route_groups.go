package router

import (
	"cashflow_backend/internal/handlers"
	"cashflow_backend/internal/middleware"
	"cashflow_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the public authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.LoginUser)
	}
}

// SetupAuthenticatedAuthRoutes sets up auth routes that need a valid token.
func SetupAuthenticatedAuthRoutes(authGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authGroup.GET("/me", authHandler.GetCurrentUser)
}

// SetupDashboardRoutes sets up the aggregation routes.
func SetupDashboardRoutes(authenticatedGroup *gin.RouterGroup, dashboardHandler *handlers.DashboardHandler) {
	authenticatedGroup.GET("/dashboard/stats", dashboardHandler.GetStats)
	authenticatedGroup.GET("/activity", dashboardHandler.GetRecentActivity)
}

// SetupContactRoutes sets up the contact routes.
func SetupContactRoutes(authenticatedGroup *gin.RouterGroup, contactHandler *handlers.ContactHandler) {
	contactRoutes := authenticatedGroup.Group("/contacts")
	{
		contactRoutes.POST("", contactHandler.CreateContact)
		contactRoutes.GET("", contactHandler.GetContacts)
		contactRoutes.GET("/:id", contactHandler.GetContactByID)
	}
}

// SetupInventoryRoutes sets up the inventory routes. Updates are admin only.
func SetupInventoryRoutes(authenticatedGroup *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler) {
	inventoryRoutes := authenticatedGroup.Group("/inventory")
	{
		inventoryRoutes.POST("", inventoryHandler.CreateItem)
		inventoryRoutes.GET("", inventoryHandler.GetItems)
		inventoryRoutes.GET("/low-stock", inventoryHandler.GetLowStockItems)
		inventoryRoutes.GET("/:id", inventoryHandler.GetItemByID)
		inventoryRoutes.PUT("/:id", middleware.RoleAuthMiddleware(string(models.RoleAdmin)), inventoryHandler.UpdateItem)
	}
}

// SetupTransactionRoutes sets up the posting routes.
func SetupTransactionRoutes(authenticatedGroup *gin.RouterGroup, transactionHandler *handlers.TransactionHandler) {
	transactionRoutes := authenticatedGroup.Group("/transactions")
	{
		transactionRoutes.POST("", transactionHandler.CreateTransaction)
		transactionRoutes.GET("", transactionHandler.GetTransactions)
		transactionRoutes.GET("/:id", transactionHandler.GetTransactionByID)
		transactionRoutes.PATCH("/:id/settle", transactionHandler.SettleTransaction)
	}
}
