package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmrosales/pos-api/internal/domain/entity"
)

// SaleTransactionRepository define el puerto de persistencia para ventas.
// Create persiste cabecera y líneas; GetByID devuelve las líneas en orden de captura.
type SaleTransactionRepository interface {
	Create(txn *entity.SaleTransaction) error
	GetByID(id string) (*entity.SaleTransaction, error)
	UpdateStatus(id, status string, updatedAt time.Time) error
	ListByDateRange(from, to time.Time) ([]*entity.SaleTransaction, error)
	// SumNetByDateRange suma net_amount de las transacciones con el estado dado en [from, to).
	SumNetByDateRange(from, to time.Time, status string) (decimal.Decimal, error)
}
