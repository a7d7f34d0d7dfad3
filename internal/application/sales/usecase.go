package sales

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmrosales/pos-api/internal/domain"
	"github.com/jmrosales/pos-api/internal/domain/entity"
	"github.com/jmrosales/pos-api/internal/domain/pricing"
	"github.com/jmrosales/pos-api/internal/domain/repository"
)

// maxNumberAttempts reintentos de generación del número de transacción ante
// colisión del índice único (dos checkouts en el mismo segundo).
const maxNumberAttempts = 5

// Service orquesta el flujo de venta: valida, descuenta inventario, registra
// movimientos, calcula totales y persiste la transacción en una sola
// transacción de BD. La anulación restaura el inventario con movimientos RETURN.
type Service struct {
	txRunner     TxRunner
	ledger       StockLedger
	txnRepo      repository.SaleTransactionRepository
	taxRate      decimal.Decimal
	numberPrefix string
}

// NewService construye el flujo de venta. txnRepo va atado al pool (consultas);
// las escrituras usan los repos transaccionales que entrega txRunner.
func NewService(txRunner TxRunner, ledger StockLedger, txnRepo repository.SaleTransactionRepository, taxRate decimal.Decimal, numberPrefix string) *Service {
	if numberPrefix == "" {
		numberPrefix = "TXN-"
	}
	return &Service{
		txRunner:     txRunner,
		ledger:       ledger,
		txnRepo:      txnRepo,
		taxRate:      taxRate,
		numberPrefix: numberPrefix,
	}
}

// CheckoutLine línea solicitada en un checkout.
type CheckoutLine struct {
	ProductID string
	Quantity  int64
	Discount  decimal.Decimal
}

// CheckoutInput entrada del checkout.
type CheckoutInput struct {
	PaymentMethod  string
	CustomerName   string
	CustomerPhone  string
	DiscountAmount decimal.Decimal
	Items          []CheckoutLine
}

// Checkout crea una venta COMPLETED: por cada línea, en orden de captura,
// valida producto y existencia contra la fila bloqueada y descuenta vía el
// libro; luego calcula totales y persiste cabecera y líneas. Cualquier fallo
// revierte la transacción completa: no hay ventas parciales.
//
// El número TXN-<UTC aaaaMMddHHmmss> puede colisionar dentro del mismo
// segundo; ante violación del índice único se regenera con sufijo -n.
func (s *Service) Checkout(ctx context.Context, userID string, in CheckoutInput) (*entity.SaleTransaction, error) {
	if in.PaymentMethod == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.DiscountAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 || item.Discount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		now := time.Now().UTC()
		number := s.transactionNumber(now, attempt)
		txn, err := s.checkoutOnce(ctx, userID, in, number, now)
		if err == nil {
			return txn, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("generar número de transacción: %w", lastErr)
}

// transactionNumber genera el número legible. attempt > 0 agrega sufijo
// desambiguador; el índice único en BD es el respaldo real de unicidad.
func (s *Service) transactionNumber(now time.Time, attempt int) string {
	number := s.numberPrefix + now.Format("20060102150405")
	if attempt > 0 {
		number += "-" + strconv.Itoa(attempt)
	}
	return number
}

func (s *Service) checkoutOnce(ctx context.Context, userID string, in CheckoutInput, number string, now time.Time) (*entity.SaleTransaction, error) {
	var txn *entity.SaleTransaction

	err := s.txRunner.RunSales(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		txnRepo repository.SaleTransactionRepository,
	) error {
		txnID := uuid.New().String()
		items := make([]entity.SaleLineItem, 0, len(in.Items))
		lines := make([]pricing.Line, 0, len(in.Items))

		// Líneas en orden de captura: la misma venta puede pedir dos veces el
		// mismo producto y la segunda línea debe ver el stock ya descontado.
		for _, req := range in.Items {
			product, err := productRepo.GetForUpdate(req.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, req.ProductID)
			}
			if product.Stock < req.Quantity {
				return fmt.Errorf("%w para %s", domain.ErrInsufficientStock, product.Name)
			}
			lineTotal, err := pricing.LineTotal(product.SalePrice, req.Quantity, req.Discount)
			if err != nil {
				return err
			}
			if _, err := s.ledger.AdjustInTx(movRepo, productRepo, req.ProductID,
				-req.Quantity, entity.MovementKindSale, number, "Venta", userID, now); err != nil {
				return err
			}
			items = append(items, entity.SaleLineItem{
				ID:            uuid.New().String(),
				TransactionID: txnID,
				ProductID:     product.ID,
				ProductName:   product.Name, // foto al momento de la venta
				UnitPrice:     product.SalePrice,
				Quantity:      req.Quantity,
				Discount:      req.Discount,
				LineTotal:     lineTotal,
			})
			lines = append(lines, pricing.Line{UnitPrice: product.SalePrice, Quantity: req.Quantity, Discount: req.Discount})
		}

		total, tax, net, err := pricing.TransactionTotals(lines, in.DiscountAmount, s.taxRate)
		if err != nil {
			return err
		}

		txn = &entity.SaleTransaction{
			ID:             txnID,
			Number:         number,
			Date:           now,
			PaymentMethod:  in.PaymentMethod,
			CustomerName:   in.CustomerName,
			CustomerPhone:  in.CustomerPhone,
			DiscountAmount: in.DiscountAmount,
			TotalAmount:    total,
			TaxAmount:      tax,
			NetAmount:      net,
			Status:         entity.TransactionStatusCompleted,
			Items:          items,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return txnRepo.Create(txn)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// Cancel anula una venta COMPLETED: restaura +cantidad por cada línea con
// movimientos RETURN y marca la transacción CANCELLED, todo en una transacción.
// Anular dos veces falla con ErrAlreadyCancelled y el stock se restaura una sola vez.
func (s *Service) Cancel(ctx context.Context, id, userID string) error {
	now := time.Now().UTC()
	return s.txRunner.RunSales(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		txnRepo repository.SaleTransactionRepository,
	) error {
		txn, err := txnRepo.GetByID(id)
		if err != nil {
			return err
		}
		if txn == nil {
			return fmt.Errorf("%w: transacción %s", domain.ErrNotFound, id)
		}
		if txn.Status == entity.TransactionStatusCancelled {
			return domain.ErrAlreadyCancelled
		}
		if !txn.CanBeCancelled() {
			return domain.ErrConflict
		}
		for _, item := range txn.Items {
			if _, err := s.ledger.AdjustInTx(movRepo, productRepo, item.ProductID,
				item.Quantity, entity.MovementKindReturn, txn.Number, "Transacción anulada", userID, now); err != nil {
				return err
			}
		}
		txn.MarkCancelled(now)
		return txnRepo.UpdateStatus(txn.ID, txn.Status, now)
	})
}

// GetByID devuelve una venta con sus líneas.
func (s *Service) GetByID(ctx context.Context, id string) (*entity.SaleTransaction, error) {
	txn, err := s.txnRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, fmt.Errorf("%w: transacción %s", domain.ErrNotFound, id)
	}
	return txn, nil
}

// ListToday lista las ventas del día actual (límites de día en UTC).
func (s *Service) ListToday(ctx context.Context) ([]*entity.SaleTransaction, error) {
	from, to := utcDayRange(time.Now().UTC())
	return s.txnRepo.ListByDateRange(from, to)
}

// TodaySales suma el neto de las ventas COMPLETED del día actual (UTC).
func (s *Service) TodaySales(ctx context.Context) (decimal.Decimal, error) {
	from, to := utcDayRange(time.Now().UTC())
	return s.txnRepo.SumNetByDateRange(from, to, entity.TransactionStatusCompleted)
}

// ListByDateRange lista ventas entre dos fechas (inclusive; días UTC completos).
func (s *Service) ListByDateRange(ctx context.Context, startDate, endDate time.Time) ([]*entity.SaleTransaction, error) {
	if endDate.Before(startDate) {
		return nil, domain.ErrInvalidInput
	}
	from, _ := utcDayRange(startDate.UTC())
	_, to := utcDayRange(endDate.UTC())
	return s.txnRepo.ListByDateRange(from, to)
}

// utcDayRange devuelve [inicio, fin) del día UTC que contiene t.
func utcDayRange(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.Add(24 * time.Hour)
}
