package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmrosales/pos-api/internal/domain/entity"
	"github.com/jmrosales/pos-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del log de movimientos sobre PostgreSQL
// (usable con pool o tx). Solo INSERT y SELECT: el log es append-only.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *MovementRepo) Create(movement *entity.InventoryMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, product_id, kind, quantity, reference, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Kind, movement.Quantity,
		nullIfEmpty(movement.Reference), nullIfEmpty(movement.Notes),
		movement.CreatedAt, nullIfEmpty(movement.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// ListByProduct lista movimientos de un producto en un rango de fechas.
func (r *MovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, product_id, kind, quantity, reference, notes, created_at, created_by
		FROM inventory_movements WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		var reference, notes, createdBy *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Kind, &m.Quantity,
			&reference, &notes, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if reference != nil {
			m.Reference = *reference
		}
		if notes != nil {
			m.Notes = *notes
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByProduct suma los deltas de un producto (conciliación contra products.stock).
func (r *MovementRepo) SumByProduct(productID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM inventory_movements WHERE product_id = $1`,
		productID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}
