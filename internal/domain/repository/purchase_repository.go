package repository

import (
	"time"

	"github.com/jmrosales/pos-api/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para compras.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	GetByID(id string) (*entity.Purchase, error)
	// Update actualiza la cabecera (fecha, estado, nota). Las líneas van por ReplaceItems.
	Update(purchase *entity.Purchase) error
	ReplaceItems(purchaseID string, items []entity.PurchaseItem) error
	SoftDelete(id string, now time.Time) error
	// NextSequence devuelve max+1 del consecutivo diario para el prefijo dado
	// (ej. "PO20250115"). Llamar dentro de la misma transacción del insert;
	// el índice único sobre code es el respaldo ante carreras.
	NextSequence(codePrefix string) (int, error)
	ListByProvider(providerID string, limit, offset int) ([]*entity.Purchase, error)
	ListByStatus(status string, limit, offset int) ([]*entity.Purchase, error)
}
