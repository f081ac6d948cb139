package services

import (
	"context"
	"database/sql"
	"slices"
	"sync"
	"time"

	"cashflow_backend/internal/models"
	"cashflow_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory ledger implementing every repository interface plus
// Transactor. WithinTx snapshots the maps and restores them when fn fails.
type memStore struct {
	mu sync.Mutex

	users        map[int64]models.User
	contacts     map[int64]models.Contact
	items        map[int64]models.InventoryItem
	transactions map[int64]models.Transaction
	lines        []models.LineItem
	nextID       int64

	failLineInsert error // returned by CreateLineItem when set
	failQueries    error // returned by read-side queries when set
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[int64]models.User{},
		contacts:     map[int64]models.Contact{},
		items:        map[int64]models.InventoryItem{},
		transactions: map[int64]models.Transaction{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addItem(name string, stock, threshold int, price string, createdAt time.Time) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.items[id] = models.InventoryItem{ID: id, Name: name, Category: "General", Stock: stock,
		UnitPrice: decimal.RequireFromString(price), LowStockThreshold: threshold, CreatedAt: createdAt, UpdatedAt: createdAt}
	return id
}

func (m *memStore) addContact(name string, kind models.ContactKind) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.contacts[id] = models.Contact{ID: id, Name: name, Kind: kind}
	return id
}

func (m *memStore) stock(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id].Stock
}

func (m *memStore) counts() (transactions, lines int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.transactions), len(m.lines)
}

// --- Transactor ---

func (m *memStore) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	m.mu.Lock()
	contacts := cloneMap(m.contacts)
	items := cloneMap(m.items)
	transactions := cloneMap(m.transactions)
	lines := slices.Clone(m.lines)
	m.mu.Unlock()

	if err := fn(nil); err != nil {
		m.mu.Lock()
		m.contacts, m.items, m.transactions, m.lines = contacts, items, transactions, lines
		m.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// --- AuthRepository ---

func (m *memStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memStore) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	u.PasswordHash = ""
	return &u, nil
}

// --- ContactRepository ---

func (m *memStore) CreateContact(ctx context.Context, executor repositories.SQLExecutor, c *models.Contact) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	c.CreatedAt = time.Now()
	m.contacts[c.ID] = *c
	return c.ID, nil
}

func (m *memStore) GetContactByID(ctx context.Context, id int64) (*models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (m *memStore) ContactExists(ctx context.Context, executor repositories.SQLExecutor, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.contacts[id]
	return ok, nil
}

func (m *memStore) ListContacts(ctx context.Context, kind *models.ContactKind) ([]models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Contact{}
	for _, c := range m.contacts {
		if kind == nil || c.Kind == *kind {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b models.Contact) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return out, nil
}

// --- InventoryRepository ---

func (m *memStore) CreateItem(ctx context.Context, executor repositories.SQLExecutor, it *models.InventoryItem) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it.ID = m.id()
	it.CreatedAt = time.Now()
	it.UpdatedAt = it.CreatedAt
	m.items[it.ID] = *it
	return it.ID, nil
}

func (m *memStore) GetItemByID(ctx context.Context, id int64) (*models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &it, nil
}

func (m *memStore) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	return m.filterItems(func(models.InventoryItem) bool { return true }), nil
}

func (m *memStore) UpdateItem(ctx context.Context, executor repositories.SQLExecutor, it *models.InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.items[it.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	it.CreatedAt = old.CreatedAt
	it.UpdatedAt = time.Now()
	m.items[it.ID] = *it
	return nil
}

func (m *memStore) AdjustStock(ctx context.Context, executor repositories.SQLExecutor, itemID int64, delta int) (*models.StockLevel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[itemID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	it.Stock += delta
	m.items[itemID] = it
	return &models.StockLevel{ItemID: it.ID, Name: it.Name, Stock: it.Stock, LowStockThreshold: it.LowStockThreshold}, nil
}

func (m *memStore) ListLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	return m.filterItems(models.InventoryItem.IsLowStock), nil
}

func (m *memStore) CountLowStock(ctx context.Context) (int, error) {
	if m.failQueries != nil {
		return 0, m.failQueries
	}
	return len(m.filterItems(models.InventoryItem.IsLowStock)), nil
}

func (m *memStore) RecentItems(ctx context.Context, limit int) ([]models.InventoryItem, error) {
	items := m.filterItems(func(models.InventoryItem) bool { return true })
	slices.SortStableFunc(items, func(a, b models.InventoryItem) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *memStore) filterItems(keep func(models.InventoryItem) bool) []models.InventoryItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.InventoryItem{}
	for _, it := range m.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	slices.SortFunc(out, func(a, b models.InventoryItem) int { return int(a.ID - b.ID) })
	return out
}

// --- TransactionRepository ---

func (m *memStore) CreateTransaction(ctx context.Context, executor repositories.SQLExecutor, t *models.Transaction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	t.CreatedAt = time.Now()
	m.transactions[t.ID] = *t
	return t.ID, nil
}

func (m *memStore) CreateLineItem(ctx context.Context, executor repositories.SQLExecutor, li *models.LineItem) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failLineInsert != nil {
		return 0, m.failLineInsert
	}
	li.ID = m.id()
	m.lines = append(m.lines, *li)
	return li.ID, nil
}

func (m *memStore) GetTransactionByID(ctx context.Context, id int64) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &t, nil
}

func (m *memStore) GetLineItems(ctx context.Context, transactionID int64) ([]models.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.LineItem{}
	for _, li := range m.lines {
		if li.TransactionID == transactionID {
			li.ItemName = m.items[li.InventoryItemID].Name
			out = append(out, li)
		}
	}
	return out, nil
}

func (m *memStore) ListTransactions(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failQueries != nil {
		return nil, m.failQueries
	}
	out := []models.Transaction{}
	for _, t := range m.transactions {
		if filters.Kind != nil && t.Kind != *filters.Kind {
			continue
		}
		if filters.Status != nil && t.Status != *filters.Status {
			continue
		}
		if t.ContactID != nil {
			name := m.contacts[*t.ContactID].Name
			t.ContactName = &name
		}
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b models.Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (m *memStore) LockStatus(ctx context.Context, executor repositories.SQLExecutor, id int64) (models.TransactionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok {
		return "", repositories.ErrNotFound
	}
	return t.Status, nil
}

func (m *memStore) UpdateStatus(ctx context.Context, executor repositories.SQLExecutor, id int64, status models.TransactionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok {
		return repositories.ErrNotFound
	}
	t.Status = status
	m.transactions[id] = t
	return nil
}

func (m *memStore) RecentTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	return m.ListTransactions(ctx, models.TransactionFilters{Limit: limit})
}

// --- DashboardRepository ---

func (m *memStore) SumBalance(ctx context.Context) (decimal.Decimal, error) {
	return m.sum(func(t models.Transaction) (decimal.Decimal, bool) {
		if t.Status != models.StatusCompleted {
			return decimal.Zero, false
		}
		return t.Amount.Mul(decimal.NewFromInt(int64(t.Kind.BalanceSign()))), true
	})
}

func (m *memStore) SumByKindStatus(ctx context.Context, kind models.TransactionKind, status models.TransactionStatus) (decimal.Decimal, error) {
	return m.sum(func(t models.Transaction) (decimal.Decimal, bool) {
		return t.Amount, t.Kind == kind && t.Status == status
	})
}

func (m *memStore) SumByKindInRange(ctx context.Context, kind models.TransactionKind, status models.TransactionStatus, from, to time.Time) (decimal.Decimal, error) {
	return m.sum(func(t models.Transaction) (decimal.Decimal, bool) {
		return t.Amount, t.Kind == kind && t.Status == status && !t.Date.Before(from) && t.Date.Before(to)
	})
}

func (m *memStore) sum(pick func(models.Transaction) (decimal.Decimal, bool)) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failQueries != nil {
		return decimal.Zero, m.failQueries
	}
	total := decimal.Zero
	for _, t := range m.transactions {
		if v, ok := pick(t); ok {
			total = total.Add(v)
		}
	}
	return total, nil
}

var (
	_ repositories.AuthRepository        = (*memStore)(nil)
	_ repositories.ContactRepository     = (*memStore)(nil)
	_ repositories.InventoryRepository   = (*memStore)(nil)
	_ repositories.TransactionRepository = (*memStore)(nil)
	_ repositories.DashboardRepository   = (*memStore)(nil)
	_ repositories.Transactor            = (*memStore)(nil)
)

// errDriver stands in for a failing database driver.
var errDriver = sql.ErrConnDone
