package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jmrosales/pos-api/internal/domain"
	"github.com/jmrosales/pos-api/internal/domain/entity"
	"github.com/jmrosales/pos-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, code, date, provider_id, status, note, created_at, updated_at, deleted_at`

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste cabecera y líneas. El índice único sobre code respalda el
// consecutivo diario; la violación se reporta como ErrDuplicate.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, code, date, provider_id, status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.Code, purchase.Date, purchase.ProviderID,
		purchase.Status, nullIfEmpty(purchase.Note), purchase.CreatedAt, purchase.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("código de compra %s: %w", purchase.Code, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return r.insertItems(purchase.ID, purchase.Items)
}

// GetByID obtiene una compra activa con sus líneas en orden de captura.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1 AND deleted_at IS NULL`
	p, err := scanPurchase(r.q.QueryRow(context.Background(), query, id))
	if err != nil || p == nil {
		return p, err
	}
	items, err := r.itemsByPurchase(p.ID)
	if err != nil {
		return nil, err
	}
	p.Items = items
	return p, nil
}

// Update actualiza la cabecera. Las líneas van por ReplaceItems.
func (r *PurchaseRepo) Update(purchase *entity.Purchase) error {
	query := `
		UPDATE purchases SET date = $2, status = $3, note = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.Date, purchase.Status, nullIfEmpty(purchase.Note), purchase.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceItems descarta las líneas actuales y persiste las nuevas.
func (r *PurchaseRepo) ReplaceItems(purchaseID string, items []entity.PurchaseItem) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM purchase_items WHERE purchase_id = $1`, purchaseID); err != nil {
		return fmt.Errorf("delete purchase items: %w", err)
	}
	return r.insertItems(purchaseID, items)
}

// SoftDelete marca la compra como eliminada (tombstone). Las líneas se
// conservan: los movimientos del libro siguen referenciando el código.
func (r *PurchaseRepo) SoftDelete(id string, now time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE purchases SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, now,
	)
	if err != nil {
		return fmt.Errorf("soft delete purchase: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextSequence devuelve max+1 del consecutivo diario para el prefijo dado,
// incluyendo compras eliminadas (un código nunca se reutiliza).
func (r *PurchaseRepo) NextSequence(codePrefix string) (int, error) {
	var max int
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(MAX(CAST(SUBSTRING(code FROM LENGTH($1) + 1) AS INTEGER)), 0)
		 FROM purchases WHERE code LIKE $1 || '%'`,
		codePrefix,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("next purchase sequence: %w", err)
	}
	return max + 1, nil
}

// ListByProvider lista compras activas de un proveedor.
func (r *PurchaseRepo) ListByProvider(providerID string, limit, offset int) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases
		WHERE provider_id = $1 AND deleted_at IS NULL ORDER BY date DESC LIMIT $2 OFFSET $3`
	return r.list(query, providerID, limit, offset)
}

// ListByStatus lista compras activas por estado.
func (r *PurchaseRepo) ListByStatus(status string, limit, offset int) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases
		WHERE status = $1 AND deleted_at IS NULL ORDER BY date DESC LIMIT $2 OFFSET $3`
	return r.list(query, status, limit, offset)
}

func (r *PurchaseRepo) list(query string, arg any, limit, offset int) ([]*entity.Purchase, error) {
	rows, err := r.q.Query(context.Background(), query, arg, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchaseRows(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range list {
		items, err := r.itemsByPurchase(p.ID)
		if err != nil {
			return nil, err
		}
		p.Items = items
	}
	return list, nil
}

func (r *PurchaseRepo) insertItems(purchaseID string, items []entity.PurchaseItem) error {
	for i := range items {
		item := &items[i]
		query := `
			INSERT INTO purchase_items (id, purchase_id, product_id, quantity, unit_price, discount, note, total, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		if _, err := r.q.Exec(context.Background(), query,
			item.ID, purchaseID, item.ProductID, item.Quantity,
			item.UnitPrice, item.Discount, nullIfEmpty(item.Note), item.Total, i,
		); err != nil {
			return fmt.Errorf("insert purchase item: %w", err)
		}
	}
	return nil
}

func (r *PurchaseRepo) itemsByPurchase(purchaseID string) ([]entity.PurchaseItem, error) {
	query := `
		SELECT id, purchase_id, product_id, quantity, unit_price, discount, note, total
		FROM purchase_items WHERE purchase_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	var items []entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		var note *string
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity,
			&it.UnitPrice, &it.Discount, &note, &it.Total); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		if note != nil {
			it.Note = *note
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	var note *string
	err := row.Scan(&p.ID, &p.Code, &p.Date, &p.ProviderID, &p.Status, &note,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	if note != nil {
		p.Note = *note
	}
	return &p, nil
}

func scanPurchaseRows(rows pgx.Rows) (*entity.Purchase, error) {
	var p entity.Purchase
	var note *string
	if err := rows.Scan(&p.ID, &p.Code, &p.Date, &p.ProviderID, &p.Status, &note,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt); err != nil {
		return nil, fmt.Errorf("scan purchase: %w", err)
	}
	if note != nil {
		p.Note = *note
	}
	return &p, nil
}
