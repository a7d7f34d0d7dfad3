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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, description, category_id, sale_price, cost_price, stock, min_stock, max_stock, created_at, updated_at, deleted_at`

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Stock inicia en 0.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, description, category_id, sale_price, cost_price, stock, min_stock, max_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, product.Description, nullIfEmpty(product.CategoryID),
		product.SalePrice, product.CostPrice, product.Stock, product.MinStock, product.MaxStock,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto activo por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product")
}

// GetBySKU obtiene un producto activo por SKU.
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1 AND deleted_at IS NULL`
	return r.scanOne(r.q.QueryRow(context.Background(), query, sku), "get product by sku")
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
// Dos checkouts concurrentes sobre el mismo producto se serializan aquí:
// el segundo espera el commit/rollback del primero y lee la cantidad ya ajustada.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product for update")
}

// UpdateStock escribe la existencia resultante de un ajuste del libro.
// Nadie más escribe esta columna.
func (r *ProductRepo) UpdateStock(productID string, stock int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`,
		productID, stock,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// Update actualiza un producto. No toca stock (se maneja vía movimientos).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, category_id = $4, sale_price = $5,
		       cost_price = $6, min_stock = $7, max_stock = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, nullIfEmpty(product.CategoryID),
		product.SalePrice, product.CostPrice, product.MinStock, product.MaxStock, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// List lista productos activos con paginación.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE deleted_at IS NULL ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// SoftDelete marca el producto como eliminado (tombstone).
func (r *ProductRepo) SoftDelete(id string, now time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, now,
	)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row, op string) (*entity.Product, error) {
	var p entity.Product
	var categoryID *string
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &categoryID, &p.SalePrice, &p.CostPrice,
		&p.Stock, &p.MinStock, &p.MaxStock, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	return &p, nil
}

func (r *ProductRepo) scanRow(rows pgx.Rows) (*entity.Product, error) {
	var p entity.Product
	var categoryID *string
	if err := rows.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &categoryID, &p.SalePrice, &p.CostPrice,
		&p.Stock, &p.MinStock, &p.MaxStock, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	); err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	return &p, nil
}
