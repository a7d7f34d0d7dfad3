package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmrosales/pos-api/internal/domain"
)

// Estados de una orden de compra.
const (
	PurchaseStatusPending   = "PENDING"
	PurchaseStatusPaid      = "PAID"
	PurchaseStatusCancelled = "CANCELLED"
)

// ValidPurchaseStatus verifica que el estado sea conocido.
func ValidPurchaseStatus(status string) bool {
	switch status {
	case PurchaseStatusPending, PurchaseStatusPaid, PurchaseStatusCancelled:
		return true
	}
	return false
}

// Purchase representa una orden de compra a un proveedor.
// El efecto sobre el inventario ocurre exactamente una vez por cada transición
// hacia PAID (+cantidades) y una vez por cada transición fuera de PAID (−cantidades);
// las mutaciones pasan por los métodos del agregado para que el caso de uso
// dispare ese efecto de forma determinista.
type Purchase struct {
	ID         string
	Code       string // código único, ej. PO202501150007
	Date       time.Time
	ProviderID string
	Status     string
	Note       string
	Items      []PurchaseItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time // soft delete
}

// PurchaseItem es una línea de compra (pertenece exclusivamente a su Purchase).
type PurchaseItem struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   int64 // > 0
	UnitPrice  decimal.Decimal
	Discount   decimal.Decimal
	Note       string
	Total      decimal.Decimal // quantity*unitPrice − discount
}

// IsPaid indica si la compra está en estado PAID.
func (p *Purchase) IsPaid() bool {
	return p.Status == PurchaseStatusPaid
}

// Reschedule cambia la fecha de la compra.
func (p *Purchase) Reschedule(date time.Time, now time.Time) {
	p.Date = date
	p.UpdatedAt = now
}

// ChangeNote reemplaza la nota.
func (p *Purchase) ChangeNote(note string, now time.Time) {
	p.Note = note
	p.UpdatedAt = now
}

// ChangeStatus cambia el estado. El caso de uso aplica el efecto de inventario
// según la arista recorrida (PAID ↔ no-PAID) antes de llamar aquí.
func (p *Purchase) ChangeStatus(status string, now time.Time) {
	p.Status = status
	p.UpdatedAt = now
}

// ReplaceItems sustituye las líneas completas. No permitido mientras la compra
// está en PAID: habría que reaplicar el inventario línea a línea y el libro
// quedaría inconsistente; primero se transiciona fuera de PAID.
func (p *Purchase) ReplaceItems(items []PurchaseItem, now time.Time) error {
	if p.IsPaid() {
		return domain.ErrConflict
	}
	for i := range items {
		items[i].PurchaseID = p.ID
	}
	p.Items = items
	p.UpdatedAt = now
	return nil
}
