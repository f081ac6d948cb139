package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cashflow_backend/internal/models"
	"cashflow_backend/internal/repositories"
	"cashflow_backend/pkg/utils"
)

// CreateContactRequest DTO
type CreateContactRequest struct {
	Name    string             `json:"name" binding:"required"`
	Kind    models.ContactKind `json:"type" binding:"required"`
	Email   *string            `json:"email"`
	Phone   *string            `json:"phone"`
	Address *string            `json:"address"`
}

type ContactService interface {
	CreateContact(ctx context.Context, req CreateContactRequest) (*models.Contact, error)
	GetContactByID(ctx context.Context, id int64) (*models.Contact, error)
	ListContacts(ctx context.Context, kind string) ([]models.Contact, error)
}

type contactService struct {
	contactRepo repositories.ContactRepository
	db          repositories.SQLExecutor
}

// NewContactService creates a new instance of ContactService.
func NewContactService(cr repositories.ContactRepository, db repositories.SQLExecutor) ContactService {
	return &contactService{contactRepo: cr, db: db}
}

func (s *contactService) CreateContact(ctx context.Context, req CreateContactRequest) (*models.Contact, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidf("name is required")
	}
	if !req.Kind.Valid() {
		return nil, invalidf("type must be customer or supplier; got %q", req.Kind)
	}
	email := utils.TrimPtr(req.Email)
	if email != nil && !utils.IsValidEmail(*email) {
		return nil, invalidf("invalid email address %q", *email)
	}

	contact := &models.Contact{
		Name:    name,
		Kind:    req.Kind,
		Email:   email,
		Phone:   utils.TrimPtr(req.Phone),
		Address: utils.TrimPtr(req.Address),
	}
	if _, err := s.contactRepo.CreateContact(ctx, s.db, contact); err != nil {
		return nil, storageError("creating contact", err)
	}
	return contact, nil
}

func (s *contactService) GetContactByID(ctx context.Context, id int64) (*models.Contact, error) {
	contact, err := s.contactRepo.GetContactByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrContactNotFound, id)
		}
		return nil, storageError("getting contact", err)
	}
	return contact, nil
}

// ListContacts returns contacts ordered by name. An empty kind lists every contact.
func (s *contactService) ListContacts(ctx context.Context, kind string) ([]models.Contact, error) {
	var filter *models.ContactKind
	if kind = strings.TrimSpace(kind); kind != "" {
		k := models.ContactKind(kind)
		if !k.Valid() {
			return nil, invalidf("type must be customer or supplier; got %q", kind)
		}
		filter = &k
	}
	contacts, err := s.contactRepo.ListContacts(ctx, filter)
	if err != nil {
		return nil, storageError("listing contacts", err)
	}
	return contacts, nil
}
