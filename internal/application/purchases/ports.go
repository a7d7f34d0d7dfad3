package purchases

import (
	"context"
	"time"

	"github.com/jmrosales/pos-api/internal/domain/entity"
	"github.com/jmrosales/pos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios de inventario y de compras. El efecto de inventario y el
// cambio de estado de la compra nunca divergen: commit o rollback juntos.
type TxRunner interface {
	RunPurchases(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
	) error) error
}

// StockLedger integra compras con el libro de inventario (misma transacción del caller).
type StockLedger interface {
	AdjustInTx(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		productID string,
		delta int64,
		kind, reference, notes, userID string,
		now time.Time,
	) (*entity.InventoryMovement, error)
}
