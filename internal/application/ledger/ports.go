package ledger

import (
	"context"

	"github.com/jmrosales/pos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el libro de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
