package database

import (
	"strings"
	"testing"

	"cashflow_backend/internal/models"

	"github.com/shopspring/decimal"
)

func TestDefaultSeed(t *testing.T) {
	data, err := DefaultSeed()
	if err != nil {
		t.Fatalf("DefaultSeed failed: %v", err)
	}

	if len(data.Users) != 2 || data.Users[0].Username != "admin" || data.Users[0].Role != models.RoleAdmin {
		t.Errorf("unexpected users: %+v", data.Users)
	}
	if len(data.Contacts) != 2 || data.Contacts[1].Kind != models.ContactSupplier {
		t.Errorf("unexpected contacts: %+v", data.Contacts)
	}
	if len(data.Inventory) != 2 {
		t.Fatalf("expected 2 inventory items, got %d", len(data.Inventory))
	}
	laptop := data.Inventory[0]
	if laptop.Name != "Laptop Pro" || laptop.Stock != 15 || !laptop.UnitPrice.Equal(decimal.RequireFromString("999.99")) {
		t.Errorf("unexpected laptop row: %+v", laptop)
	}
	if len(data.Transactions) != 1 || !data.Transactions[0].Amount.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("unexpected transactions: %+v", data.Transactions)
	}
}

func TestParseSeedRejectsInvalidRows(t *testing.T) {
	doc := `
users:
  - username: ghost
    password: x
    type: superuser
contacts:
  - name: Acme
    type: vendor
transactions:
  - type: refund
    contact: Nobody
    amount: "0"
    date: "last week"
`
	_, err := ParseSeed([]byte(doc))
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{
		`users[0]: invalid type "superuser"`,
		`contacts[0]: invalid type "vendor"`,
		`transactions[0]: invalid type "refund"`,
		"transactions[0]: amount must be positive",
		`transactions[0]: unknown contact "Nobody"`,
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestParseSeedMalformedYAML(t *testing.T) {
	if _, err := ParseSeed([]byte("users: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadSeedFileMissing(t *testing.T) {
	if _, err := LoadSeedFile("does-not-exist.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
