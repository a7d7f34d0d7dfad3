package sales

import (
	"context"
	"time"

	"github.com/jmrosales/pos-api/internal/domain/entity"
	"github.com/jmrosales/pos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios de inventario y de ventas. Commit si fn retorna nil, Rollback
// si retorna error: el checkout es todo-o-nada sobre todas sus líneas.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		txnRepo repository.SaleTransactionRepository,
	) error) error
}

// StockLedger integra ventas con el libro de inventario.
// AdjustInTx aplica el delta y agrega el movimiento usando los repositorios
// del caller (misma transacción); si retorna error el caller hace rollback.
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
