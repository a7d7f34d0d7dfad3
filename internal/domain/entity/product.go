package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del punto de venta.
// Stock solo se modifica vía el libro de inventario (movimientos); nunca se escribe directo.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	CategoryID  string
	SalePrice   decimal.Decimal // precio de venta unitario
	CostPrice   decimal.Decimal // costo unitario de compra
	Stock       int64           // existencia actual (unidades enteras)
	MinStock    int64           // umbral mínimo de reposición
	MaxStock    int64           // umbral máximo
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time // soft delete: conserva la trazabilidad de movimientos
}

// IsLowStock indica si la existencia está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
