package entity

import "time"

// Provider representa un proveedor de mercancía (origen de las compras).
type Provider struct {
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
