package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jmrosales/pos-api/internal/domain"
	"github.com/jmrosales/pos-api/internal/domain/entity"
	"github.com/jmrosales/pos-api/internal/domain/repository"
)

var _ repository.SaleTransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación de SaleTransactionRepository sobre PostgreSQL
// (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste cabecera y líneas. El índice único sobre number es el
// respaldo de unicidad del número generado; la violación se reporta como
// ErrDuplicate para que el flujo reintente con otro número.
func (r *TransactionRepo) Create(txn *entity.SaleTransaction) error {
	query := `
		INSERT INTO sale_transactions (id, number, date, payment_method, customer_name, customer_phone,
		       discount_amount, total_amount, tax_amount, net_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		txn.ID, txn.Number, txn.Date, txn.PaymentMethod,
		nullIfEmpty(txn.CustomerName), nullIfEmpty(txn.CustomerPhone),
		txn.DiscountAmount, txn.TotalAmount, txn.TaxAmount, txn.NetAmount,
		txn.Status, txn.CreatedAt, txn.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de transacción %s: %w", txn.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert sale transaction: %w", err)
	}
	for i := range txn.Items {
		item := &txn.Items[i]
		itemQuery := `
			INSERT INTO sale_line_items (id, transaction_id, product_id, product_name, unit_price, quantity, discount, line_total, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		if _, err := r.q.Exec(context.Background(), itemQuery,
			item.ID, txn.ID, item.ProductID, item.ProductName,
			item.UnitPrice, item.Quantity, item.Discount, item.LineTotal, i,
		); err != nil {
			return fmt.Errorf("insert sale line item: %w", err)
		}
	}
	return nil
}

const txnColumns = `id, number, date, payment_method, customer_name, customer_phone,
       discount_amount, total_amount, tax_amount, net_amount, status, created_at, updated_at`

// GetByID obtiene una venta con sus líneas en orden de captura.
func (r *TransactionRepo) GetByID(id string) (*entity.SaleTransaction, error) {
	query := `SELECT ` + txnColumns + ` FROM sale_transactions WHERE id = $1`
	txn, err := scanTransaction(r.q.QueryRow(context.Background(), query, id))
	if err != nil || txn == nil {
		return txn, err
	}
	items, err := r.itemsByTransaction(txn.ID)
	if err != nil {
		return nil, err
	}
	txn.Items = items
	return txn, nil
}

// UpdateStatus cambia el estado (única mutación permitida de una venta).
func (r *TransactionRepo) UpdateStatus(id, status string, updatedAt time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE sale_transactions SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByDateRange lista ventas con date en [from, to), más recientes primero.
func (r *TransactionRepo) ListByDateRange(from, to time.Time) ([]*entity.SaleTransaction, error) {
	query := `SELECT ` + txnColumns + ` FROM sale_transactions WHERE date >= $1 AND date < $2 ORDER BY date DESC`
	rows, err := r.q.Query(context.Background(), query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleTransaction
	for rows.Next() {
		txn, err := scanTransactionRows(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, txn := range list {
		items, err := r.itemsByTransaction(txn.ID)
		if err != nil {
			return nil, err
		}
		txn.Items = items
	}
	return list, nil
}

// SumNetByDateRange suma net_amount de las ventas con el estado dado en [from, to).
func (r *TransactionRepo) SumNetByDateRange(from, to time.Time, status string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(net_amount), 0) FROM sale_transactions WHERE date >= $1 AND date < $2 AND status = $3`,
		from, to, status,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum net amount: %w", err)
	}
	return sum, nil
}

func (r *TransactionRepo) itemsByTransaction(txnID string) ([]entity.SaleLineItem, error) {
	query := `
		SELECT id, transaction_id, product_id, product_name, unit_price, quantity, discount, line_total
		FROM sale_line_items WHERE transaction_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, txnID)
	if err != nil {
		return nil, fmt.Errorf("list sale line items: %w", err)
	}
	defer rows.Close()
	var items []entity.SaleLineItem
	for rows.Next() {
		var it entity.SaleLineItem
		if err := rows.Scan(&it.ID, &it.TransactionID, &it.ProductID, &it.ProductName,
			&it.UnitPrice, &it.Quantity, &it.Discount, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan sale line item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanTransaction(row pgx.Row) (*entity.SaleTransaction, error) {
	var t entity.SaleTransaction
	var customerName, customerPhone *string
	err := row.Scan(
		&t.ID, &t.Number, &t.Date, &t.PaymentMethod, &customerName, &customerPhone,
		&t.DiscountAmount, &t.TotalAmount, &t.TaxAmount, &t.NetAmount,
		&t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if customerName != nil {
		t.CustomerName = *customerName
	}
	if customerPhone != nil {
		t.CustomerPhone = *customerPhone
	}
	return &t, nil
}

func scanTransactionRows(rows pgx.Rows) (*entity.SaleTransaction, error) {
	var t entity.SaleTransaction
	var customerName, customerPhone *string
	if err := rows.Scan(
		&t.ID, &t.Number, &t.Date, &t.PaymentMethod, &customerName, &customerPhone,
		&t.DiscountAmount, &t.TotalAmount, &t.TaxAmount, &t.NetAmount,
		&t.Status, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	if customerName != nil {
		t.CustomerName = *customerName
	}
	if customerPhone != nil {
		t.CustomerPhone = *customerPhone
	}
	return &t, nil
}
