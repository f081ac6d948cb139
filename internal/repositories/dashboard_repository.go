package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cashflow_backend/internal/models"

	"github.com/shopspring/decimal"
)

// DashboardRepository computes the read-side sums behind the dashboard.
// Every method returns zero, not an error, when no rows match.
type DashboardRepository interface {
	SumBalance(ctx context.Context) (decimal.Decimal, error)
	SumByKindStatus(ctx context.Context, kind models.TransactionKind, status models.TransactionStatus) (decimal.Decimal, error)
	SumByKindInRange(ctx context.Context, kind models.TransactionKind, status models.TransactionStatus, from, to time.Time) (decimal.Decimal, error)
}

type dashboardRepository struct {
	db *sql.DB
}

// NewDashboardRepository creates a new instance of DashboardRepository.
func NewDashboardRepository(db *sql.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// SumBalance is money in minus money out over completed transactions.
func (r *dashboardRepository) SumBalance(ctx context.Context) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN kind IN ('sale', 'payment_in') THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE status = $1`
	return r.sum(ctx, "total balance", query, models.StatusCompleted)
}

func (r *dashboardRepository) SumByKindStatus(ctx context.Context, kind models.TransactionKind, status models.TransactionStatus) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE kind = $1 AND status = $2`
	return r.sum(ctx, fmt.Sprintf("%s/%s total", kind, status), query, kind, status)
}

// SumByKindInRange sums over the half-open date interval [from, to).
func (r *dashboardRepository) SumByKindInRange(ctx context.Context, kind models.TransactionKind, status models.TransactionStatus, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE kind = $1 AND status = $2 AND date >= $3 AND date < $4`
	return r.sum(ctx, fmt.Sprintf("%s total for period", kind), query, kind, status, from, to)
}

func (r *dashboardRepository) sum(ctx context.Context, label, query string, args ...interface{}) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("%w: computing %s: %v", ErrDatabaseError, label, err)
	}
	return total, nil
}
