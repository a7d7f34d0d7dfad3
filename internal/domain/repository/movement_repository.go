package repository

import (
	"time"

	"github.com/jmrosales/pos-api/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia para el log de movimientos.
// Solo inserta y lee: los movimientos nunca se modifican ni se borran.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	// SumByProduct suma los deltas de un producto (conciliación contra la existencia actual).
	SumByProduct(productID string) (int64, error)
}
