package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cashflow_backend/internal/config"
	"cashflow_backend/internal/database"
	"cashflow_backend/internal/middleware"
	"cashflow_backend/internal/ratelimit"
	"cashflow_backend/internal/router"
	"cashflow_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Logger
	utils.InitLogger(cfg.LogLevel, cfg.IsDevelopment())

	// Amounts travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		utils.LogError(err, "Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.ApplySchema(ctx, db, cfg.Database.SchemaPath); err != nil {
			utils.LogError(err, "Failed to apply database schema")
			os.Exit(1)
		}
	}

	limiter, closeLimiter, err := newLimiter(ctx, cfg)
	if err != nil {
		utils.LogError(err, "Failed to set up rate limiter")
		os.Exit(1)
	}
	defer closeLimiter()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestIDMiddleware())
	// Add GinLogger middleware for request logging
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	router.Setup(engine, router.Dependencies{
		DB:       db,
		JWT:      utils.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL),
		Limiter:  limiter,
		Posting:  cfg.Posting,
		Currency: cfg.Currency,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{
			"port":          cfg.Port,
			"env":           cfg.Env,
			"stock_policy":  cfg.Posting.StockPolicy,
			"amount_policy": cfg.Posting.AmountPolicy,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			stop()
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server forced to shutdown")
	}
}

// newLimiter picks the Redis-backed limiter when REDIS_ADDR is set and the
// in-process one otherwise. A zero request budget disables limiting.
func newLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, func(), error) {
	noop := func() {}
	if cfg.Limit.Requests == 0 {
		return nil, noop, nil
	}
	if cfg.Redis.Addr == "" {
		return ratelimit.NewMemoryLimiter(cfg.Limit.Requests, cfg.Limit.Window), noop, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, noop, err
	}
	utils.LogInfo("Using Redis rate limiter", map[string]interface{}{"addr": cfg.Redis.Addr})
	return ratelimit.NewRedisLimiter(client, cfg.Limit.Requests, cfg.Limit.Window), func() { client.Close() }, nil
}
