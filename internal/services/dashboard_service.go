package services

import (
	"context"
	"slices"
	"time"

	"cashflow_backend/internal/models"
	"cashflow_backend/internal/repositories"
	"cashflow_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
)

// DashboardService answers the read-side questions behind the dashboard.
// No method mutates state and an empty ledger yields zeros.
type DashboardService interface {
	TotalBalance(ctx context.Context) (decimal.Decimal, error)
	ToReceive(ctx context.Context) (decimal.Decimal, error)
	ToGive(ctx context.Context) (decimal.Decimal, error)
	MonthlyTotal(ctx context.Context, kind models.TransactionKind) (decimal.Decimal, error)
	RecentActivity(ctx context.Context, limit int) ([]models.ActivityRecord, error)
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardService struct {
	dashboardRepo   repositories.DashboardRepository
	transactionRepo repositories.TransactionRepository
	inventoryRepo   repositories.InventoryRepository
	currency        string
	now             func() time.Time
}

// NewDashboardService creates a DashboardService reporting amounts in currency.
func NewDashboardService(
	dr repositories.DashboardRepository,
	tr repositories.TransactionRepository,
	ir repositories.InventoryRepository,
	currency string,
) DashboardService {
	return &dashboardService{
		dashboardRepo:   dr,
		transactionRepo: tr,
		inventoryRepo:   ir,
		currency:        currency,
		now:             time.Now,
	}
}

func (s *dashboardService) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.dashboardRepo.SumBalance(ctx)
	if err != nil {
		return decimal.Zero, storageError("computing total balance", err)
	}
	return total, nil
}

// ToReceive is money customers still owe: pending sales.
func (s *dashboardService) ToReceive(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.dashboardRepo.SumByKindStatus(ctx, models.KindSale, models.StatusPending)
	if err != nil {
		return decimal.Zero, storageError("computing receivables", err)
	}
	return total, nil
}

// ToGive is money owed to suppliers: pending purchases.
func (s *dashboardService) ToGive(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.dashboardRepo.SumByKindStatus(ctx, models.KindPurchase, models.StatusPending)
	if err != nil {
		return decimal.Zero, storageError("computing payables", err)
	}
	return total, nil
}

// MonthlyTotal sums completed transactions of kind dated within the current calendar month.
func (s *dashboardService) MonthlyTotal(ctx context.Context, kind models.TransactionKind) (decimal.Decimal, error) {
	if !kind.Valid() {
		return decimal.Zero, invalidf("unknown transaction type %q", kind)
	}
	start, next := utils.MonthBounds(s.now())
	total, err := s.dashboardRepo.SumByKindInRange(ctx, kind, models.StatusCompleted, start, next)
	if err != nil {
		return decimal.Zero, storageError("computing monthly total", err)
	}
	return total, nil
}

// RecentActivity merges the newest transactions with the newest inventory items, newest
// first. Transactions precede inventory records that carry the same timestamp.
func (s *dashboardService) RecentActivity(ctx context.Context, limit int) ([]models.ActivityRecord, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}

	transactions, err := s.transactionRepo.RecentTransactions(ctx, limit)
	if err != nil {
		return nil, storageError("loading recent transactions", err)
	}
	items, err := s.inventoryRepo.RecentItems(ctx, limit)
	if err != nil {
		return nil, storageError("loading recent inventory", err)
	}

	records := make([]models.ActivityRecord, 0, len(transactions)+len(items))
	for _, t := range transactions {
		records = append(records, models.ActivityRecord{
			Type:        models.ActivityTransaction,
			SubType:     string(t.Kind),
			Description: t.Description,
			Amount:      t.Amount,
			Date:        t.Date,
			ContactName: t.ContactName,
		})
	}
	for _, it := range items {
		name := it.Name
		records = append(records, models.ActivityRecord{
			Type:        models.ActivityInventory,
			SubType:     models.ActivitySubTypeUpdate,
			Description: &name,
			Amount:      decimal.NewFromInt(int64(it.Stock)),
			Date:        it.CreatedAt,
		})
	}

	slices.SortStableFunc(records, func(a, b models.ActivityRecord) int {
		return b.Date.Compare(a.Date)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	utils.LogDebug("Recent activity merged", map[string]interface{}{
		"transactions": len(transactions),
		"inventory":    len(items),
		"returned":     len(records),
	})
	return records, nil
}

// Stats gathers every dashboard figure in one call.
func (s *dashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	now := s.now()
	start, next := utils.MonthBounds(now)
	stats := &models.DashboardStats{
		Currency:    s.currency,
		PeriodStart: start,
		PeriodEnd:   next,
	}

	var err error
	if stats.TotalBalance, err = s.TotalBalance(ctx); err != nil {
		return nil, err
	}
	if stats.ToReceive, err = s.ToReceive(ctx); err != nil {
		return nil, err
	}
	if stats.ToGive, err = s.ToGive(ctx); err != nil {
		return nil, err
	}

	monthly := map[models.TransactionKind]*decimal.Decimal{
		models.KindSale:     &stats.TotalSales,
		models.KindPurchase: &stats.TotalPurchases,
		models.KindExpense:  &stats.TotalExpenses,
	}
	for kind, dst := range monthly {
		total, err := s.dashboardRepo.SumByKindInRange(ctx, kind, models.StatusCompleted, start, next)
		if err != nil {
			return nil, storageError("computing monthly total", err)
		}
		*dst = total
	}

	if stats.LowStockItems, err = s.inventoryRepo.CountLowStock(ctx); err != nil {
		return nil, storageError("counting low stock items", err)
	}

	stats.Display = map[string]string{
		"total_balance":   utils.FormatAmount(stats.TotalBalance, s.currency),
		"to_receive":      utils.FormatAmount(stats.ToReceive, s.currency),
		"to_give":         utils.FormatAmount(stats.ToGive, s.currency),
		"total_sales":     utils.FormatAmount(stats.TotalSales, s.currency),
		"total_purchases": utils.FormatAmount(stats.TotalPurchases, s.currency),
		"total_expenses":  utils.FormatAmount(stats.TotalExpenses, s.currency),
	}
	return stats, nil
}
