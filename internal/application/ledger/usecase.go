package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmrosales/pos-api/internal/domain"
	"github.com/jmrosales/pos-api/internal/domain/entity"
	"github.com/jmrosales/pos-api/internal/domain/repository"
)

// Service es el libro de inventario: única vía para mutar la existencia de un
// producto. Cada ajuste aplica exactamente un delta y agrega exactamente un
// movimiento; el log es append-only y no existe un "deshacer" aparte
// (un reverso es otro Adjust con el delta negado, clase RETURN).
type Service struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.InventoryMovementRepository
}

// NewService construye el libro. productRepo y movRepo van atados al pool
// (lecturas y el endpoint de ajuste manual); los flujos de venta/compra usan
// AdjustInTx con sus propios repos transaccionales.
func NewService(txRunner TxRunner, productRepo repository.ProductRepository, movRepo repository.InventoryMovementRepository) *Service {
	return &Service{txRunner: txRunner, productRepo: productRepo, movRepo: movRepo}
}

// AdjustInTx aplica delta a la existencia del producto y agrega un movimiento,
// usando los repositorios del caller (misma transacción). Bloquea la fila del
// producto (SELECT FOR UPDATE) antes de leer la cantidad, así los ajustes
// concurrentes sobre el mismo producto se serializan en la BD.
//
// No exige resultado no-negativo: el caller que necesite "no sobrevender"
// verifica la existencia bloqueada antes de llamar con delta negativo.
func (s *Service) AdjustInTx(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	productID string,
	delta int64,
	kind, reference, notes, userID string,
	now time.Time,
) (*entity.InventoryMovement, error) {
	if !entity.ValidMovementKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	product, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	if err := productRepo.UpdateStock(productID, product.Stock+delta); err != nil {
		return nil, err
	}
	mov := &entity.InventoryMovement{
		ID:        uuid.New().String(),
		ProductID: productID,
		Kind:      kind,
		Quantity:  delta,
		Reference: reference,
		Notes:     notes,
		CreatedAt: now,
		CreatedBy: userID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// AdjustmentInput entrada para un ajuste manual de inventario.
type AdjustmentInput struct {
	ProductID string
	Delta     int64  // con signo: positivo entrada, negativo salida
	Kind      string // ADJUSTMENT, DAMAGE, TRANSFER...
	Reference string
	Notes     string
	UserID    string
}

// RegisterAdjustment aplica un ajuste manual en su propia transacción.
// Los ajustes de salida sí validan existencia suficiente: un conteo físico o
// una baja por daño no deben dejar el producto en negativo.
func (s *Service) RegisterAdjustment(ctx context.Context, input AdjustmentInput) (*entity.InventoryMovement, error) {
	if input.ProductID == "" || input.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	switch input.Kind {
	case entity.MovementKindAdjustment, entity.MovementKindDamage, entity.MovementKindTransfer, entity.MovementKindReturn:
	default:
		// PURCHASE y SALE solo los generan sus flujos, no el endpoint manual.
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	var mov *entity.InventoryMovement
	err := s.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		if input.Delta < 0 {
			product, err := productRepo.GetForUpdate(input.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, input.ProductID)
			}
			if product.Stock < -input.Delta {
				return fmt.Errorf("%w para %s", domain.ErrInsufficientStock, product.Name)
			}
		}
		var err error
		mov, err = s.AdjustInTx(movRepo, productRepo, input.ProductID, input.Delta,
			input.Kind, input.Reference, input.Notes, input.UserID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// CurrentQuantity devuelve la existencia actual del producto (solo lectura).
func (s *Service) CurrentQuantity(ctx context.Context, productID string) (int64, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return product.Stock, nil
}

// ListByProduct lista los movimientos de un producto en un rango de fechas.
func (s *Service) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.movRepo.ListByProduct(productID, from, to, limit, offset)
}
