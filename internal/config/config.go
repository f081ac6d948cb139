// Package config loads server configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cashflow_backend/pkg/utils"

	"github.com/joho/godotenv"
)

// StockPolicy decides what happens when a sale would drive stock below zero.
type StockPolicy string

const (
	// StockPolicyFlag applies the adjustment and reports a warning.
	StockPolicyFlag StockPolicy = "flag"
	// StockPolicyReject fails the posting.
	StockPolicyReject StockPolicy = "reject"
)

// AmountPolicy decides whether a transaction amount must equal the sum of its line totals.
type AmountPolicy string

const (
	AmountPolicyStrict  AmountPolicy = "strict"
	AmountPolicyLenient AmountPolicy = "lenient"
)

const developmentJWTSecret = "cash-flow-dev-secret-change-me"

// Config is the complete server configuration.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	Database DatabaseConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Limit    RateLimitConfig
	Redis    RedisConfig
	Posting  PostingConfig
	Currency string
}

type DatabaseConfig struct {
	URL         string
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	SchemaPath  string
	AutoMigrate bool
}

type AuthConfig struct {
	JWTSecret string
	JWTTTL    time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostingConfig struct {
	StockPolicy  StockPolicy
	AmountPolicy AmountPolicy
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present;
// an explicit path must exist.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	jwtTTL, err := utils.GetenvDuration("JWT_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	limitRequests, err := utils.GetenvInt("RATE_LIMIT_REQUESTS", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %w", err)
	}
	limitWindow, err := utils.GetenvDuration("RATE_LIMIT_WINDOW", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}
	redisDB, err := utils.GetenvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	env := utils.Getenv("APP_ENV", "development")
	jwtSecret := utils.Getenv("JWT_SECRET", "")
	if jwtSecret == "" && env == "development" {
		jwtSecret = developmentJWTSecret
	}

	cfg := &Config{
		Env:      env,
		Port:     utils.Getenv("PORT", "8080"),
		LogLevel: utils.Getenv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			URL:         utils.Getenv("DATABASE_URL", ""),
			Host:        utils.Getenv("DB_HOST", "localhost"),
			Port:        utils.Getenv("DB_PORT", "5432"),
			User:        utils.Getenv("DB_USER", "cashflow"),
			Password:    utils.Getenv("DB_PASSWORD", "cashflow"),
			Name:        utils.Getenv("DB_NAME", "cashflow"),
			SSLMode:     utils.Getenv("DB_SSLMODE", "disable"),
			SchemaPath:  utils.Getenv("DB_SCHEMA_PATH", ""),
			AutoMigrate: utils.GetenvBool("DB_AUTO_MIGRATE", false),
		},
		Auth: AuthConfig{
			JWTSecret: jwtSecret,
			JWTTTL:    jwtTTL,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(utils.Getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Limit: RateLimitConfig{
			Requests: limitRequests,
			Window:   limitWindow,
		},
		Redis: RedisConfig{
			Addr:     utils.Getenv("REDIS_ADDR", ""),
			Password: utils.Getenv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Posting: PostingConfig{
			StockPolicy:  StockPolicy(strings.ToLower(utils.Getenv("STOCK_POLICY", string(StockPolicyFlag)))),
			AmountPolicy: AmountPolicy(strings.ToLower(utils.Getenv("AMOUNT_POLICY", string(AmountPolicyStrict)))),
		},
		Currency: strings.ToUpper(utils.Getenv("CURRENCY", "USD")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	if c.Auth.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	switch c.Posting.StockPolicy {
	case StockPolicyFlag, StockPolicyReject:
	default:
		errs = append(errs, fmt.Errorf("STOCK_POLICY must be %q or %q, got %q", StockPolicyFlag, StockPolicyReject, c.Posting.StockPolicy))
	}
	switch c.Posting.AmountPolicy {
	case AmountPolicyStrict, AmountPolicyLenient:
	default:
		errs = append(errs, fmt.Errorf("AMOUNT_POLICY must be %q or %q, got %q", AmountPolicyStrict, AmountPolicyLenient, c.Posting.AmountPolicy))
	}
	if c.Limit.Requests < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS cannot be negative"))
	}
	if c.Limit.Requests > 0 && c.Limit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	return errors.Join(errs...)
}

// IsDevelopment reports whether the server runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
