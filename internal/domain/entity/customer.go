package entity

import "time"

// Customer representa un cliente registrado (las ventas también aceptan
// nombre/teléfono sueltos sin cliente registrado).
type Customer struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
