package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cashflow_backend/internal/models"
)

// ContactRepository defines the interface for contact-related database operations.
type ContactRepository interface {
	CreateContact(ctx context.Context, executor SQLExecutor, contact *models.Contact) (int64, error)
	GetContactByID(ctx context.Context, id int64) (*models.Contact, error)
	ContactExists(ctx context.Context, executor SQLExecutor, id int64) (bool, error)
	ListContacts(ctx context.Context, kind *models.ContactKind) ([]models.Contact, error)
}

type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new instance of ContactRepository.
func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = `id, name, kind, email, phone, address, created_at`

func scanContact(s scanner, c *models.Contact) error {
	return s.Scan(&c.ID, &c.Name, &c.Kind, &c.Email, &c.Phone, &c.Address, &c.CreatedAt)
}

// CreateContact inserts a new contact and fills in its ID and creation time.
func (r *contactRepository) CreateContact(ctx context.Context, executor SQLExecutor, contact *models.Contact) (int64, error) {
	query := `INSERT INTO contacts (name, kind, email, phone, address)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		contact.Name, contact.Kind, contact.Email, contact.Phone, contact.Address,
	).Scan(&contact.ID, &contact.CreatedAt)
	if err != nil {
		return 0, wrapWriteError(err, "creating contact")
	}
	return contact.ID, nil
}

// GetContactByID retrieves a contact by its ID.
func (r *contactRepository) GetContactByID(ctx context.Context, id int64) (*models.Contact, error) {
	contact := &models.Contact{}
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	if err := scanContact(r.db.QueryRowContext(ctx, query, id), contact); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting contact by ID %d: %v", ErrDatabaseError, id, err)
	}
	return contact, nil
}

// ContactExists checks for a contact through the given executor so it can take part in a posting.
func (r *contactRepository) ContactExists(ctx context.Context, executor SQLExecutor, id int64) (bool, error) {
	var exists bool
	err := executor.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM contacts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: checking contact %d: %v", ErrDatabaseError, id, err)
	}
	return exists, nil
}

// ListContacts returns contacts ordered by name, optionally restricted to one kind.
func (r *contactRepository) ListContacts(ctx context.Context, kind *models.ContactKind) ([]models.Contact, error) {
	contacts := []models.Contact{}
	query := `SELECT ` + contactColumns + ` FROM contacts`
	var args []interface{}
	if kind != nil {
		query += ` WHERE kind = $1`
		args = append(args, *kind)
	}
	query += ` ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing contacts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Contact
		if err := scanContact(rows, &c); err != nil {
			return nil, fmt.Errorf("%w: scanning contact: %v", ErrDatabaseError, err)
		}
		contacts = append(contacts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating contact rows: %v", ErrDatabaseError, err)
	}
	return contacts, nil
}
