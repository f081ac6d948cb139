package models

import "time"

// ContactKind separates customers (who buy from us) from suppliers (who sell to us).
type ContactKind string

const (
	ContactCustomer ContactKind = "customer"
	ContactSupplier ContactKind = "supplier"
)

func (k ContactKind) Valid() bool {
	return k == ContactCustomer || k == ContactSupplier
}

// Contact is a customer or supplier a transaction may reference.
type Contact struct {
	ID        int64       `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Kind      ContactKind `json:"type" db:"kind"`
	Email     *string     `json:"email,omitempty" db:"email"`
	Phone     *string     `json:"phone,omitempty" db:"phone"`
	Address   *string     `json:"address,omitempty" db:"address"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}
