package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cashflow_backend/internal/middleware"
	"cashflow_backend/internal/models"
	"cashflow_backend/internal/services"
	"cashflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePosting struct {
	lastReq   services.PostTransactionRequest
	lastKind   string
	lastStatus string
	lastLimit  int
	err       error
}

func (f *fakePosting) PostTransaction(_ context.Context, req services.PostTransactionRequest) (*services.PostingResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &services.PostingResult{
		TransactionID: 7,
		Warnings:      []services.PostingWarning{{Code: services.WarningLowStock, InventoryItemID: 1, Message: "low"}},
	}, nil
}

func (f *fakePosting) SettleTransaction(_ context.Context, id int64) (*models.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Transaction{ID: id, Status: models.StatusCompleted}, nil
}

func (f *fakePosting) GetTransaction(_ context.Context, id int64) (*models.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Transaction{ID: id, Kind: models.KindSale}, nil
}

func (f *fakePosting) ListTransactions(_ context.Context, kind, status string, limit int) ([]models.Transaction, error) {
	f.lastKind, f.lastStatus, f.lastLimit = kind, status, limit
	return []models.Transaction{}, f.err
}

type fakeDashboard struct {
	lastLimit int
	err       error
}

func (f *fakeDashboard) TotalBalance(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, f.err
}
func (f *fakeDashboard) ToReceive(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, f.err
}
func (f *fakeDashboard) ToGive(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, f.err
}
func (f *fakeDashboard) MonthlyTotal(context.Context, models.TransactionKind) (decimal.Decimal, error) {
	return decimal.Zero, f.err
}
func (f *fakeDashboard) RecentActivity(_ context.Context, limit int) ([]models.ActivityRecord, error) {
	f.lastLimit = limit
	return []models.ActivityRecord{}, f.err
}
func (f *fakeDashboard) Stats(context.Context) (*models.DashboardStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.DashboardStats{TotalBalance: decimal.RequireFromString("954.50"), Currency: "USD"}, nil
}

type fakeAuth struct{}

func (fakeAuth) Login(_ context.Context, req services.LoginRequest) (*services.AuthResponse, error) {
	if req.Username != "admin" || req.Password != "admin123" {
		return nil, services.ErrInvalidCredentials
	}
	return &services.AuthResponse{Token: "tok", User: &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}}, nil
}

func (fakeAuth) GetUserProfile(_ context.Context, id int64) (*models.User, error) {
	if id != 1 {
		return nil, services.ErrUserNotFound
	}
	return &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}, nil
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", w.Body.String(), err)
	}
	return body.Error.Code
}

func transactionRouter(ps services.PostingService) *gin.Engine {
	h := NewTransactionHandler(ps)
	r := gin.New()
	r.POST("/transactions", h.CreateTransaction)
	r.GET("/transactions", h.GetTransactions)
	r.GET("/transactions/:id", h.GetTransactionByID)
	r.PATCH("/transactions/:id/settle", h.SettleTransaction)
	return r
}

func TestCreateTransaction(t *testing.T) {
	ps := &fakePosting{}
	r := transactionRouter(ps)

	body := `{"type":"sale","amount":1999.98,"date":"2024-02-01","items":[{"inventory_id":1,"quantity":2,"unit_price":999.99}]}`
	w := serve(r, http.MethodPost, "/transactions", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var result services.PostingResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.TransactionID != 7 || len(result.Warnings) != 1 || result.Warnings[0].Code != services.WarningLowStock {
		t.Errorf("result = %+v", result)
	}
	if ps.lastReq.Kind != models.KindSale || len(ps.lastReq.Items) != 1 || ps.lastReq.Items[0].Quantity != 2 {
		t.Errorf("request = %+v", ps.lastReq)
	}
	if !ps.lastReq.Amount.Equal(decimal.RequireFromString("1999.98")) {
		t.Errorf("amount = %s", ps.lastReq.Amount)
	}
}

func TestTransactionErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		err    error
		status int
		code   string
	}{
		{"malformed json", http.MethodPost, "/transactions", `{"type":`, nil, http.StatusBadRequest, utils.ErrCodeValidationFailed},
		{"validation", http.MethodPost, "/transactions", `{"type":"sale","date":"2024-02-01"}`, fmt.Errorf("%w: %w", services.ErrValidation, services.ErrAmountMismatch), http.StatusBadRequest, utils.ErrCodeValidationFailed},
		{"storage", http.MethodPost, "/transactions", `{"type":"sale","date":"2024-02-01"}`, fmt.Errorf("%w: insert: boom", services.ErrStorage), http.StatusInternalServerError, utils.ErrCodeInternalServerError},
		{"bad id", http.MethodGet, "/transactions/abc", "", nil, http.StatusBadRequest, utils.ErrCodeBadRequest},
		{"zero id", http.MethodGet, "/transactions/0", "", nil, http.StatusBadRequest, utils.ErrCodeBadRequest},
		{"not found", http.MethodGet, "/transactions/9", "", services.ErrTransactionNotFound, http.StatusNotFound, utils.ErrCodeNotFound},
		{"already settled", http.MethodPatch, "/transactions/9/settle", "", fmt.Errorf("%w: %w", services.ErrValidation, services.ErrAlreadySettled), http.StatusBadRequest, utils.ErrCodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := transactionRouter(&fakePosting{err: tt.err})
			w := serve(r, tt.method, tt.path, tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
			if got := errorCode(t, w); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestGetTransactionsPassesFilters(t *testing.T) {
	tests := []struct {
		query  string
		kind   string
		status string
		limit  int
	}{
		{"", "", "", 0},
		{"?type=expense&limit=10", "expense", "", 10},
		{"?type=sale&status=pending", "sale", "pending", 0},
		{"?limit=9999", "", "", maxTransactionPage},
		{"?limit=junk", "", "", 0},
	}
	for _, tt := range tests {
		ps := &fakePosting{}
		w := serve(transactionRouter(ps), http.MethodGet, "/transactions"+tt.query, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%q: status = %d", tt.query, w.Code)
		}
		if ps.lastKind != tt.kind || ps.lastStatus != tt.status || ps.lastLimit != tt.limit {
			t.Errorf("%q: kind=%q status=%q limit=%d, want %q %q %d",
				tt.query, ps.lastKind, ps.lastStatus, ps.lastLimit, tt.kind, tt.status, tt.limit)
		}
	}
}

func TestSettleTransaction(t *testing.T) {
	w := serve(transactionRouter(&fakePosting{}), http.MethodPatch, "/transactions/3/settle", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"completed"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestDashboardHandlers(t *testing.T) {
	ds := &fakeDashboard{}
	h := NewDashboardHandler(ds)
	r := gin.New()
	r.GET("/dashboard/stats", h.GetStats)
	r.GET("/activity", h.GetRecentActivity)

	if w := serve(r, http.MethodGet, "/dashboard/stats", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"currency":"USD"`) {
		t.Errorf("stats: status %d body %s", w.Code, w.Body.String())
	}

	limits := map[string]int{
		"":            services.DefaultActivityLimit,
		"?limit=5":    5,
		"?limit=1000": services.MaxActivityLimit,
		"?limit=-3":   services.DefaultActivityLimit,
	}
	for query, want := range limits {
		if w := serve(r, http.MethodGet, "/activity"+query, ""); w.Code != http.StatusOK {
			t.Fatalf("%q: status = %d", query, w.Code)
		}
		if ds.lastLimit != want {
			t.Errorf("%q: limit = %d, want %d", query, ds.lastLimit, want)
		}
	}

	ds.err = fmt.Errorf("%w: sum: boom", services.ErrStorage)
	if w := serve(r, http.MethodGet, "/dashboard/stats", ""); w.Code != http.StatusInternalServerError {
		t.Errorf("stats on storage error: status = %d", w.Code)
	}
}

func TestAuthHandlers(t *testing.T) {
	h := NewAuthHandler(fakeAuth{})
	r := gin.New()
	r.POST("/auth/login", h.LoginUser)
	r.GET("/auth/me", func(c *gin.Context) {
		if id := c.Query("uid"); id != "" {
			n, _ := utils.StrToInt64(id)
			c.Set(middleware.ContextUserID, n)
		}
		h.GetCurrentUser(c)
	})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"login ok", http.MethodPost, "/auth/login", `{"username":"admin","password":"admin123","userType":"admin"}`, http.StatusOK},
		{"login wrong password", http.MethodPost, "/auth/login", `{"username":"admin","password":"nope","userType":"admin"}`, http.StatusUnauthorized},
		{"login malformed", http.MethodPost, "/auth/login", `[]`, http.StatusBadRequest},
		{"me", http.MethodGet, "/auth/me?uid=1", "", http.StatusOK},
		{"me unknown user", http.MethodGet, "/auth/me?uid=5", "", http.StatusNotFound},
		{"me without context", http.MethodGet, "/auth/me", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.method, tt.path, tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
		})
	}
}
