package services

import (
	"errors"
	"fmt"
)

// Taxonomy roots. Every error returned by a service matches at most one of them
// through errors.Is; specific causes are wrapped alongside.
var (
	ErrValidation = errors.New("validation error") // Generic validation error
	ErrStorage    = errors.New("storage error")
)

var (
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrContactNotFound       = errors.New("contact not found")
	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrInsufficientStock     = errors.New("insufficient stock for item")
	ErrAmountMismatch        = errors.New("amount does not match the sum of line totals")
	ErrAlreadySettled        = errors.New("transaction is already completed")
	ErrLineItemsNotAllowed   = errors.New("line items are only allowed on sales and purchases")

	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// validationError joins cause to ErrValidation with a formatted detail.
func validationError(cause error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %w: %s", ErrValidation, cause, fmt.Sprintf(format, args...))
}

// invalidf is a validation error without a specific cause.
func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func storageError(action string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, action, err)
}
