package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"cashflow_backend/internal/models"
	"cashflow_backend/pkg/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var embeddedSeed []byte

// SeedUser is a login account. Password is plain text in the fixture and hashed on insert.
type SeedUser struct {
	Username string          `yaml:"username"`
	Password string          `yaml:"password"`
	Role     models.UserRole `yaml:"type"`
	Name     string          `yaml:"name"`
}

type SeedContact struct {
	Name    string             `yaml:"name"`
	Kind    models.ContactKind `yaml:"type"`
	Email   string             `yaml:"email"`
	Phone   string             `yaml:"phone"`
	Address string             `yaml:"address"`
}

type SeedItem struct {
	Name              string          `yaml:"name"`
	Category          string          `yaml:"category"`
	Stock             int             `yaml:"stock"`
	UnitPrice         decimal.Decimal `yaml:"unit_price"`
	LowStockThreshold int             `yaml:"low_stock_threshold"`
	Description       string          `yaml:"description"`
}

// SeedTransaction references its contact by name. Seeded transactions never carry
// line items, so stock levels in the fixture are taken as-is.
type SeedTransaction struct {
	Kind          models.TransactionKind   `yaml:"type"`
	Contact       string                   `yaml:"contact"`
	ReceiptNumber string                   `yaml:"receipt_number"`
	Amount        decimal.Decimal          `yaml:"amount"`
	Date          string                   `yaml:"date"`
	Description   string                   `yaml:"description"`
	Status        models.TransactionStatus `yaml:"status"`
}

// SeedData is the document layout of a seed fixture.
type SeedData struct {
	Users        []SeedUser        `yaml:"users"`
	Contacts     []SeedContact     `yaml:"contacts"`
	Inventory    []SeedItem        `yaml:"inventory"`
	Transactions []SeedTransaction `yaml:"transactions"`
}

// SeedSummary counts rows actually inserted; rows that already existed are skipped.
type SeedSummary struct {
	Users        int
	Contacts     int
	Inventory    int
	Transactions int
}

// DefaultSeed returns the embedded demo fixture.
func DefaultSeed() (*SeedData, error) {
	return ParseSeed(embeddedSeed)
}

// LoadSeedFile reads a fixture from disk.
func LoadSeedFile(path string) (*SeedData, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read seed file %s: %w", path, err)
	}
	return ParseSeed(content)
}

// ParseSeed decodes and validates a fixture.
func ParseSeed(content []byte) (*SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("could not parse seed data: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Validate checks enum values and cross references before anything touches the database.
func (d *SeedData) Validate() error {
	var errs []error
	for i, u := range d.Users {
		if strings.TrimSpace(u.Username) == "" || u.Password == "" {
			errs = append(errs, fmt.Errorf("users[%d]: username and password are required", i))
		}
		if !u.Role.Valid() {
			errs = append(errs, fmt.Errorf("users[%d]: invalid type %q", i, u.Role))
		}
	}

	contacts := make(map[string]bool, len(d.Contacts))
	for i, c := range d.Contacts {
		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, fmt.Errorf("contacts[%d]: name is required", i))
		}
		if !c.Kind.Valid() {
			errs = append(errs, fmt.Errorf("contacts[%d]: invalid type %q", i, c.Kind))
		}
		contacts[c.Name] = true
	}

	for i, it := range d.Inventory {
		if strings.TrimSpace(it.Name) == "" || strings.TrimSpace(it.Category) == "" {
			errs = append(errs, fmt.Errorf("inventory[%d]: name and category are required", i))
		}
		if it.UnitPrice.IsNegative() || it.LowStockThreshold < 0 {
			errs = append(errs, fmt.Errorf("inventory[%d]: unit_price and low_stock_threshold must not be negative", i))
		}
	}

	for i, tx := range d.Transactions {
		if !tx.Kind.Valid() {
			errs = append(errs, fmt.Errorf("transactions[%d]: invalid type %q", i, tx.Kind))
		}
		if tx.Status != "" && !tx.Status.Valid() {
			errs = append(errs, fmt.Errorf("transactions[%d]: invalid status %q", i, tx.Status))
		}
		if !tx.Amount.IsPositive() {
			errs = append(errs, fmt.Errorf("transactions[%d]: amount must be positive", i))
		}
		if _, err := utils.ParseFlexibleTime(tx.Date, time.Local); err != nil {
			errs = append(errs, fmt.Errorf("transactions[%d]: %w", i, err))
		}
		if tx.Contact != "" && !contacts[tx.Contact] {
			errs = append(errs, fmt.Errorf("transactions[%d]: unknown contact %q", i, tx.Contact))
		}
	}
	return errors.Join(errs...)
}

// Seed inserts the fixture inside one transaction. Re-running it is a no-op for
// rows that already exist: users match on username, contacts and inventory on name,
// transactions on kind, receipt number, amount and date.
func Seed(ctx context.Context, db *sql.DB, data *SeedData) (SeedSummary, error) {
	var summary SeedSummary

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	for _, u := range data.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return summary, fmt.Errorf("failed to hash password for %s: %w", u.Username, err)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, password_hash, role, name) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (username) DO NOTHING`,
			u.Username, string(hash), u.Role, u.Name)
		if err != nil {
			return summary, fmt.Errorf("failed to seed user %s: %w", u.Username, err)
		}
		summary.Users += affected(res)
	}

	for _, c := range data.Contacts {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO contacts (name, kind, email, phone, address)
			 SELECT $1, $2, $3, $4, $5
			 WHERE NOT EXISTS (SELECT 1 FROM contacts WHERE name = $1)`,
			c.Name, c.Kind, utils.NewNullString(c.Email), utils.NewNullString(c.Phone), utils.NewNullString(c.Address))
		if err != nil {
			return summary, fmt.Errorf("failed to seed contact %s: %w", c.Name, err)
		}
		summary.Contacts += affected(res)
	}

	for _, it := range data.Inventory {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO inventory (name, category, stock, unit_price, low_stock_threshold, description)
			 SELECT $1, $2, $3, $4, $5, $6
			 WHERE NOT EXISTS (SELECT 1 FROM inventory WHERE name = $1)`,
			it.Name, it.Category, it.Stock, it.UnitPrice, it.LowStockThreshold, utils.NewNullString(it.Description))
		if err != nil {
			return summary, fmt.Errorf("failed to seed inventory item %s: %w", it.Name, err)
		}
		summary.Inventory += affected(res)
	}

	for _, t := range data.Transactions {
		date, _ := utils.ParseFlexibleTime(t.Date, time.Local) // validated above
		status := t.Status
		if status == "" {
			status = models.StatusCompleted
		}

		var contactID *int64
		if t.Contact != "" {
			var id int64
			err := tx.QueryRowContext(ctx, `SELECT id FROM contacts WHERE name = $1 ORDER BY id LIMIT 1`, t.Contact).Scan(&id)
			if err != nil {
				return summary, fmt.Errorf("failed to resolve contact %s: %w", t.Contact, err)
			}
			contactID = &id
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (kind, contact_id, receipt_number, amount, date, description, status)
			 SELECT $1, $2, $3, $4, $5, $6, $7
			 WHERE NOT EXISTS (
			     SELECT 1 FROM transactions
			     WHERE kind = $1 AND receipt_number IS NOT DISTINCT FROM $3 AND amount = $4 AND date = $5
			 )`,
			t.Kind, contactID, utils.NewNullString(t.ReceiptNumber), t.Amount, date, utils.NewNullString(t.Description), status)
		if err != nil {
			return summary, fmt.Errorf("failed to seed %s transaction: %w", t.Kind, err)
		}
		summary.Transactions += affected(res)
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	utils.LogInfo("Seed data applied", map[string]interface{}{
		"users":        summary.Users,
		"contacts":     summary.Contacts,
		"inventory":    summary.Inventory,
		"transactions": summary.Transactions,
	})
	return summary, nil
}

func affected(res sql.Result) int {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return int(n)
}
