package repository

import (
	"time"

	"github.com/jmrosales/pos-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Stock nunca se escribe por Update: solo vía UpdateStock desde el libro de inventario.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) dentro de la
	// transacción en curso; serializa a los checkouts concurrentes sobre el mismo producto.
	GetForUpdate(id string) (*entity.Product, error)
	UpdateStock(productID string, stock int64) error
	Update(product *entity.Product) error
	List(limit, offset int) ([]*entity.Product, error)
	SoftDelete(id string, now time.Time) error
}
