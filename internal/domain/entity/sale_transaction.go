package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una transacción de venta.
const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusCancelled = "CANCELLED"
	// Refunded está en el vocabulario pero ninguna operación llega a él todavía
	// (punto de extensión para devoluciones parciales).
	TransactionStatusRefunded = "REFUNDED"
)

// SaleTransaction representa la cabecera de una venta.
// Los totales siempre son derivables de las líneas + descuento vía pricing;
// el estado solo cambia por Cancel (COMPLETED → CANCELLED). Nunca se borra.
type SaleTransaction struct {
	ID             string
	Number         string // número legible único, ej. TXN-20250115123045
	Date           time.Time
	PaymentMethod  string
	CustomerName   string
	CustomerPhone  string
	DiscountAmount decimal.Decimal // descuento global de la transacción (>= 0)
	TotalAmount    decimal.Decimal // suma de totales de línea
	TaxAmount      decimal.Decimal
	NetAmount      decimal.Decimal // total + impuesto − descuento
	Status         string
	Items          []SaleLineItem // en orden de captura
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SaleLineItem es una línea de venta. ProductName y UnitPrice son una foto
// al momento de la venta: cambios de precio posteriores no alteran totales históricos.
type SaleLineItem struct {
	ID            string
	TransactionID string
	ProductID     string
	ProductName   string
	UnitPrice     decimal.Decimal
	Quantity      int64 // > 0
	Discount      decimal.Decimal
	LineTotal     decimal.Decimal // quantity*unitPrice − discount
}

// CanBeCancelled indica si la transacción admite anulación (solo COMPLETED).
func (t *SaleTransaction) CanBeCancelled() bool {
	return t.Status == TransactionStatusCompleted
}

// MarkCancelled pasa la transacción a CANCELLED.
func (t *SaleTransaction) MarkCancelled(now time.Time) {
	t.Status = TransactionStatusCancelled
	t.UpdatedAt = now
}
