// Package dbtest opens the PostgreSQL database used by integration tests.
package dbtest

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"cashflow_backend/internal/database"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// Open connects to TEST_DATABASE_URL, applies the schema and empties every table.
// The test is skipped when the variable is not set so a live database is never touched.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	_ = godotenv.Load("../../.env")

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := database.ApplySchema(ctx, db, ""); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	if _, err := db.ExecContext(ctx, `TRUNCATE TABLE transaction_items, transactions, inventory, contacts, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}
	return db
}
