package purchases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmrosales/pos-api/internal/domain"
	"github.com/jmrosales/pos-api/internal/domain/entity"
	"github.com/jmrosales/pos-api/internal/domain/repository"
)

// Service orquesta el flujo de compras. El inventario sube exactamente una vez
// por cada transición hacia PAID y baja exactamente una vez por cada transición
// fuera de PAID (o al eliminar una compra pagada); la doble aplicación es
// imposible porque el efecto va amarrado a la arista de estado recorrida
// dentro de la misma transacción de BD.
type Service struct {
	txRunner     TxRunner
	ledger       StockLedger
	purchaseRepo repository.PurchaseRepository
	providerRepo repository.ProviderRepository
	productRepo  repository.ProductRepository
	codePrefix   string
}

// NewService construye el flujo de compras. purchaseRepo, providerRepo y
// productRepo van atados al pool (consultas y validación previa).
func NewService(
	txRunner TxRunner,
	ledger StockLedger,
	purchaseRepo repository.PurchaseRepository,
	providerRepo repository.ProviderRepository,
	productRepo repository.ProductRepository,
	codePrefix string,
) *Service {
	if codePrefix == "" {
		codePrefix = "PO"
	}
	return &Service{
		txRunner:     txRunner,
		ledger:       ledger,
		purchaseRepo: purchaseRepo,
		providerRepo: providerRepo,
		productRepo:  productRepo,
		codePrefix:   codePrefix,
	}
}

// ItemInput línea solicitada de una compra.
type ItemInput struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Note      string
}

// CreateInput entrada para crear una compra.
type CreateInput struct {
	ProviderID string
	Date       time.Time
	Status     string
	Note       string
	Items      []ItemInput
}

// UpdateInput patch parcial: solo se aplican los campos presentes.
type UpdateInput struct {
	Date   *time.Time
	Status *string
	Note   *string
	Items  *[]ItemInput
}

// CreatePurchase valida proveedor y productos como lote antes de cualquier
// mutación (todo-o-nada), genera el código PO<aaaaMMdd><consecutivo diario> y
// persiste la compra; si nace en PAID aplica +cantidad por cada línea en la
// misma transacción.
func (s *Service) CreatePurchase(ctx context.Context, userID string, in CreateInput) (*entity.Purchase, error) {
	if in.ProviderID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Status == "" {
		in.Status = entity.PurchaseStatusPending
	}
	if !entity.ValidPurchaseStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	provider, err := s.providerRepo.GetByID(in.ProviderID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotFound, in.ProviderID)
	}

	// Validación de productos en lote, antes de tocar nada.
	if err := s.validateItems(in.Items, s.productRepo); err != nil {
		return nil, err
	}

	// Un reintento ante colisión del consecutivo diario; el índice único
	// sobre code es el respaldo (ver NextSequence).
	purchase, err := s.createOnce(ctx, userID, in)
	if errors.Is(err, domain.ErrDuplicate) {
		purchase, err = s.createOnce(ctx, userID, in)
	}
	return purchase, err
}

func (s *Service) createOnce(ctx context.Context, userID string, in CreateInput) (*entity.Purchase, error) {
	now := time.Now().UTC()
	var purchase *entity.Purchase

	err := s.txRunner.RunPurchases(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		dayPrefix := s.codePrefix + in.Date.UTC().Format("20060102")
		seq, err := purchaseRepo.NextSequence(dayPrefix)
		if err != nil {
			return err
		}
		code := fmt.Sprintf("%s%04d", dayPrefix, seq)

		purchaseID := uuid.New().String()
		items := make([]entity.PurchaseItem, 0, len(in.Items))
		for _, item := range in.Items {
			items = append(items, entity.PurchaseItem{
				ID:         uuid.New().String(),
				PurchaseID: purchaseID,
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice,
				Discount:   item.Discount,
				Note:       item.Note,
				Total:      itemTotal(item),
			})
		}
		purchase = &entity.Purchase{
			ID:         purchaseID,
			Code:       code,
			Date:       in.Date,
			ProviderID: in.ProviderID,
			Status:     in.Status,
			Note:       in.Note,
			Items:      items,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := purchaseRepo.Create(purchase); err != nil {
			return err
		}
		if purchase.IsPaid() {
			return s.applyItems(movRepo, productRepo, purchase, +1, "", userID, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// UpdatePurchase aplica un patch parcial vía los mutadores del agregado.
// Solo las aristas PAID ↔ no-PAID tienen efecto de inventario; reemplazar
// ítems de una compra en PAID se rechaza con ErrConflict (primero hay que
// transicionar fuera de PAID).
func (s *Service) UpdatePurchase(ctx context.Context, id, userID string, patch UpdateInput) (*entity.Purchase, error) {
	if patch.Status != nil && !entity.ValidPurchaseStatus(*patch.Status) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	var purchase *entity.Purchase

	err := s.txRunner.RunPurchases(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		p, err := purchaseRepo.GetByID(id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: compra %s", domain.ErrNotFound, id)
		}

		if patch.Items != nil {
			newItems := *patch.Items
			if err := s.validateItems(newItems, productRepo); err != nil {
				return err
			}
			items := make([]entity.PurchaseItem, 0, len(newItems))
			for _, item := range newItems {
				items = append(items, entity.PurchaseItem{
					ID:        uuid.New().String(),
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
					UnitPrice: item.UnitPrice,
					Discount:  item.Discount,
					Note:      item.Note,
					Total:     itemTotal(item),
				})
			}
			if err := p.ReplaceItems(items, now); err != nil {
				return err
			}
			if err := purchaseRepo.ReplaceItems(p.ID, p.Items); err != nil {
				return err
			}
		}
		if patch.Date != nil {
			p.Reschedule(*patch.Date, now)
		}
		if patch.Note != nil {
			p.ChangeNote(*patch.Note, now)
		}
		if patch.Status != nil && *patch.Status != p.Status {
			wasPaid := p.IsPaid()
			becomesPaid := *patch.Status == entity.PurchaseStatusPaid
			switch {
			case !wasPaid && becomesPaid:
				if err := s.applyItems(movRepo, productRepo, p, +1, "", userID, now); err != nil {
					return err
				}
			case wasPaid && !becomesPaid:
				if err := s.applyItems(movRepo, productRepo, p, -1, "Compra revertida", userID, now); err != nil {
					return err
				}
			}
			p.ChangeStatus(*patch.Status, now)
		}
		purchase = p
		return purchaseRepo.Update(p)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// DeletePurchase elimina una compra (soft delete). Si está en PAID, primero
// revierte el inventario (−cantidad por línea) en la misma transacción.
func (s *Service) DeletePurchase(ctx context.Context, id, userID string) error {
	now := time.Now().UTC()
	return s.txRunner.RunPurchases(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		p, err := purchaseRepo.GetByID(id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: compra %s", domain.ErrNotFound, id)
		}
		if p.IsPaid() {
			if err := s.applyItems(movRepo, productRepo, p, -1, "Compra eliminada", userID, now); err != nil {
				return err
			}
		}
		return purchaseRepo.SoftDelete(id, now)
	})
}

// applyItems aplica sign*cantidad por cada línea de la compra vía el libro.
// Entradas van como PURCHASE; los reversos como RETURN.
func (s *Service) applyItems(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	p *entity.Purchase,
	sign int64,
	notes, userID string,
	now time.Time,
) error {
	kind := entity.MovementKindPurchase
	if sign < 0 {
		kind = entity.MovementKindReturn
	}
	for _, item := range p.Items {
		if _, err := s.ledger.AdjustInTx(movRepo, productRepo, item.ProductID,
			sign*item.Quantity, kind, p.Code, notes, userID, now); err != nil {
			return err
		}
	}
	return nil
}

// validateItems valida cantidades, precios y existencia de todos los productos
// referenciados antes de cualquier mutación.
func (s *Service) validateItems(items []ItemInput, productRepo repository.ProductRepository) error {
	if len(items) == 0 {
		return domain.ErrInvalidInput
	}
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		if item.UnitPrice.IsNegative() || item.Discount.IsNegative() {
			return domain.ErrInvalidInput
		}
		if itemTotal(item).IsNegative() {
			return domain.ErrInvalidInput
		}
		product, err := productRepo.GetByID(item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
		}
	}
	return nil
}

func itemTotal(item ItemInput) decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)).Sub(item.Discount).Round(2)
}

// GetByID devuelve una compra con sus líneas.
func (s *Service) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := s.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: compra %s", domain.ErrNotFound, id)
	}
	return p, nil
}

// ListByProvider lista compras de un proveedor.
func (s *Service) ListByProvider(ctx context.Context, providerID string, limit, offset int) ([]*entity.Purchase, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.purchaseRepo.ListByProvider(providerID, limit, offset)
}

// ListByStatus lista compras por estado.
func (s *Service) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Purchase, error) {
	if !entity.ValidPurchaseStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.purchaseRepo.ListByStatus(status, limit, offset)
}
