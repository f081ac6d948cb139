package router

import (
	"database/sql"
	"net/http"

	"cashflow_backend/internal/config"
	"cashflow_backend/internal/handlers"
	"cashflow_backend/internal/middleware"
	"cashflow_backend/internal/ratelimit"
	"cashflow_backend/internal/repositories"
	"cashflow_backend/internal/services"
	"cashflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Dependencies are the shared resources the routes are built from.
type Dependencies struct {
	DB      *sql.DB
	JWT     *utils.JWTManager
	Limiter ratelimit.Limiter // nil disables rate limiting
	Posting config.PostingConfig
	// Currency is the ISO 4217 code used for display amounts.
	Currency string
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(deps.DB)
	contactRepo := repositories.NewContactRepository(deps.DB)
	inventoryRepo := repositories.NewInventoryRepository(deps.DB)
	transactionRepo := repositories.NewTransactionRepository(deps.DB)
	dashboardRepo := repositories.NewDashboardRepository(deps.DB)
	transactor := repositories.NewTransactor(deps.DB)

	// Initialize Services
	authService := services.NewAuthService(authRepo, deps.JWT)
	contactService := services.NewContactService(contactRepo, deps.DB)
	inventoryService := services.NewInventoryService(inventoryRepo, deps.DB)
	postingService := services.NewPostingService(transactionRepo, inventoryRepo, contactRepo, transactor, deps.Posting)
	dashboardService := services.NewDashboardService(dashboardRepo, transactionRepo, inventoryRepo, deps.Currency)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	contactHandler := handlers.NewContactHandler(contactService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	transactionHandler := handlers.NewTransactionHandler(postingService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := engine.Group("/api/v1")
	if deps.Limiter != nil {
		apiV1.Use(middleware.RateLimitMiddleware(deps.Limiter))
	}

	SetupAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(deps.JWT))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupDashboardRoutes(authenticated, dashboardHandler)
		SetupContactRoutes(authenticated, contactHandler)
		SetupInventoryRoutes(authenticated, inventoryHandler)
		SetupTransactionRoutes(authenticated, transactionHandler)
	}
}
