package handlers

import (
	"net/http"

	"cashflow_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactService services.ContactService
}

func NewContactHandler(cs services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: cs}
}

// CreateContact handles POST /contacts.
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req services.CreateContactRequest
	if !bindJSON(c, &req, "CreateContact") {
		return
	}
	contact, err := h.contactService.CreateContact(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to create contact")
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// GetContacts handles GET /contacts?type=customer|supplier.
func (h *ContactHandler) GetContacts(c *gin.Context) {
	contacts, err := h.contactService.ListContacts(c.Request.Context(), c.Query("type"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch contacts")
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) GetContactByID(c *gin.Context) {
	id, ok := pathID(c, "contact")
	if !ok {
		return
	}
	contact, err := h.contactService.GetContactByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch contact")
		return
	}
	c.JSON(http.StatusOK, contact)
}
