package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cashflow_backend/internal/models"

	"github.com/shopspring/decimal"
)

func newTestDashboard(store *memStore, now time.Time) *dashboardService {
	svc := NewDashboardService(store, store, store, "USD").(*dashboardService)
	svc.now = func() time.Time { return now }
	return svc
}

func (m *memStore) addTransaction(kind models.TransactionKind, status models.TransactionStatus, amount string, date time.Time) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.transactions[id] = models.Transaction{ID: id, Kind: kind, Status: status, Amount: decimal.RequireFromString(amount), Date: date}
	return id
}

func TestEmptyLedgerIsZero(t *testing.T) {
	svc := newTestDashboard(newMemStore(), time.Now())
	ctx := context.Background()

	for name, fn := range map[string]func(context.Context) (decimal.Decimal, error){
		"balance":    svc.TotalBalance,
		"to receive": svc.ToReceive,
		"to give":    svc.ToGive,
	} {
		got, err := fn(ctx)
		if err != nil || !got.IsZero() {
			t.Errorf("%s = %s, %v; want 0", name, got, err)
		}
	}

	activity, err := svc.RecentActivity(ctx, 5)
	if err != nil || len(activity) != 0 {
		t.Errorf("activity = %v, %v; want empty", activity, err)
	}
}

func TestTotalBalanceSigns(t *testing.T) {
	store := newMemStore()
	svc := newTestDashboard(store, time.Now())
	ctx := context.Background()
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	steps := []struct {
		kind   models.TransactionKind
		status models.TransactionStatus
		amount string
		delta  string
	}{
		{models.KindSale, models.StatusCompleted, "1200", "1200"},
		{models.KindPurchase, models.StatusCompleted, "500", "-500"},
		{models.KindPaymentIn, models.StatusCompleted, "80", "80"},
		{models.KindExpense, models.StatusCompleted, "30.25", "-30.25"},
		{models.KindSale, models.StatusPending, "999", "0"},
		{models.KindPurchase, models.StatusPending, "40", "0"},
	}
	for _, st := range steps {
		before, err := svc.TotalBalance(ctx)
		if err != nil {
			t.Fatal(err)
		}
		store.addTransaction(st.kind, st.status, st.amount, day)
		after, err := svc.TotalBalance(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if got := after.Sub(before); !got.Equal(decimal.RequireFromString(st.delta)) {
			t.Errorf("%s/%s %s moved balance by %s, want %s", st.kind, st.status, st.amount, got, st.delta)
		}
	}

	receivable, _ := svc.ToReceive(ctx)
	payable, _ := svc.ToGive(ctx)
	if !receivable.Equal(decimal.NewFromInt(999)) || !payable.Equal(decimal.NewFromInt(40)) {
		t.Errorf("to receive %s, to give %s; want 999 and 40", receivable, payable)
	}
}

func TestMonthlyTotalBoundaries(t *testing.T) {
	store := newMemStore()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestDashboard(store, now)

	store.addTransaction(models.KindExpense, models.StatusCompleted, "10", time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC))
	store.addTransaction(models.KindExpense, models.StatusCompleted, "20", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	store.addTransaction(models.KindExpense, models.StatusCompleted, "40", time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC))
	store.addTransaction(models.KindExpense, models.StatusCompleted, "80", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	store.addTransaction(models.KindExpense, models.StatusPending, "160", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	store.addTransaction(models.KindSale, models.StatusCompleted, "320", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))

	got, err := svc.MonthlyTotal(context.Background(), models.KindExpense)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(decimal.NewFromInt(60)) {
		t.Errorf("monthly expenses = %s, want 60", got)
	}

	if _, err := svc.MonthlyTotal(context.Background(), "refund"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRecentActivityOrderingAndLimit(t *testing.T) {
	store := newMemStore()
	svc := newTestDashboard(store, time.Now())
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		store.addTransaction(models.KindSale, models.StatusCompleted, "10", base.Add(time.Duration(i)*2*time.Hour))
		store.addItem("Item", 7, 5, "1", base.Add(time.Duration(i)*2*time.Hour+time.Hour))
	}

	records, err := svc.RecentActivity(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Date.After(records[i-1].Date) {
			t.Errorf("records not ordered newest first at %d: %s after %s", i, records[i].Date, records[i-1].Date)
		}
	}
	if records[0].Type != models.ActivityInventory || records[0].SubType != models.ActivitySubTypeUpdate {
		t.Errorf("newest record should be the last inventory item, got %+v", records[0])
	}
	if !records[0].Amount.Equal(decimal.NewFromInt(7)) {
		t.Errorf("inventory record should carry the stock, got %s", records[0].Amount)
	}
	if records[1].Type != models.ActivityTransaction || records[1].SubType != string(models.KindSale) {
		t.Errorf("unexpected second record %+v", records[1])
	}
}

func TestRecentActivityTieKeepsTransactionsFirst(t *testing.T) {
	store := newMemStore()
	svc := newTestDashboard(store, time.Now())
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	store.addItem("Laptop Pro", 15, 5, "999.99", at)
	store.addTransaction(models.KindPurchase, models.StatusCompleted, "50", at)

	records, err := svc.RecentActivity(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Type != models.ActivityTransaction || records[1].Type != models.ActivityInventory {
		t.Errorf("unexpected tie order: %+v", records)
	}
}

func TestRecentActivityLimitIsClamped(t *testing.T) {
	store := newMemStore()
	svc := newTestDashboard(store, time.Now())
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 130; i++ {
		store.addTransaction(models.KindExpense, models.StatusCompleted, "1", base.Add(time.Duration(i)*time.Minute))
	}

	tests := []struct {
		limit int
		want  int
	}{
		{0, DefaultActivityLimit},
		{-4, DefaultActivityLimit},
		{7, 7},
		{1000, MaxActivityLimit},
	}
	for _, tt := range tests {
		records, err := svc.RecentActivity(context.Background(), tt.limit)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != tt.want {
			t.Errorf("RecentActivity(%d) returned %d records, want %d", tt.limit, len(records), tt.want)
		}
	}
}

func TestStats(t *testing.T) {
	store := newMemStore()
	now := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	svc := newTestDashboard(store, now)

	store.addItem("Laptop Pro", 15, 5, "999.99", now)
	store.addItem("Wireless Mouse", 3, 10, "25.50", now)
	store.addTransaction(models.KindSale, models.StatusCompleted, "1200", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
	store.addTransaction(models.KindPurchase, models.StatusCompleted, "200", time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC))
	store.addTransaction(models.KindExpense, models.StatusCompleted, "45.5", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	store.addTransaction(models.KindPurchase, models.StatusPending, "75", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	checks := map[string]struct{ got, want decimal.Decimal }{
		"balance":   {stats.TotalBalance, decimal.RequireFromString("954.5")},
		"receive":   {stats.ToReceive, decimal.Zero},
		"give":      {stats.ToGive, decimal.NewFromInt(75)},
		"sales":     {stats.TotalSales, decimal.NewFromInt(1200)},
		"purchases": {stats.TotalPurchases, decimal.Zero},
		"expenses":  {stats.TotalExpenses, decimal.RequireFromString("45.5")},
	}
	for name, c := range checks {
		if !c.got.Equal(c.want) {
			t.Errorf("%s = %s, want %s", name, c.got, c.want)
		}
	}
	if stats.LowStockItems != 1 {
		t.Errorf("low stock items = %d, want 1", stats.LowStockItems)
	}
	if stats.Display["total_balance"] != "$954.50" || stats.Display["total_sales"] != "$1,200.00" {
		t.Errorf("unexpected display strings: %v", stats.Display)
	}
	if !stats.PeriodStart.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) ||
		!stats.PeriodEnd.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected period %s - %s", stats.PeriodStart, stats.PeriodEnd)
	}
}

func TestDashboardStorageErrors(t *testing.T) {
	store := newMemStore()
	store.failQueries = errDriver
	svc := newTestDashboard(store, time.Now())

	if _, err := svc.TotalBalance(context.Background()); !errors.Is(err, ErrStorage) {
		t.Errorf("expected storage error, got %v", err)
	}
	if _, err := svc.Stats(context.Background()); !errors.Is(err, ErrStorage) {
		t.Errorf("expected storage error from Stats, got %v", err)
	}
	if _, err := svc.RecentActivity(context.Background(), 5); !errors.Is(err, ErrStorage) {
		t.Errorf("expected storage error from RecentActivity, got %v", err)
	}
}
