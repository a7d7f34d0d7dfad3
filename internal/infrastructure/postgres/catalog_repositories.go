package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jmrosales/pos-api/internal/domain/entity"
	"github.com/jmrosales/pos-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)
var _ repository.CustomerRepository = (*CustomerRepo)(nil)
var _ repository.ProviderRepository = (*ProviderRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría.
func (r *CategoryRepo) Create(category *entity.Category) error {
	query := `
		INSERT INTO categories (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		category.ID, category.Name, category.Description, category.CreatedAt, category.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría activa por ID.
func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, description, created_at, updated_at, deleted_at
		 FROM categories WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// List lista categorías activas.
func (r *CategoryRepo) List(limit, offset int) ([]*entity.Category, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, description, created_at, updated_at, deleted_at
		 FROM categories WHERE deleted_at IS NULL ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza una categoría.
func (r *CategoryRepo) Update(category *entity.Category) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE categories SET name = $2, description = $3, updated_at = $4 WHERE id = $1 AND deleted_at IS NULL`,
		category.ID, category.Name, category.Description, category.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// SoftDelete marca la categoría como eliminada.
func (r *CategoryRepo) SoftDelete(id string, now time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE categories SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, now)
	if err != nil {
		return fmt.Errorf("soft delete category: %w", err)
	}
	return nil
}

// CustomerRepo implementación de CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un cliente.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, name, tax_id, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, nullIfEmpty(customer.TaxID), nullIfEmpty(customer.Email),
		nullIfEmpty(customer.Phone), nullIfEmpty(customer.Address), customer.CreatedAt, customer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente activo por ID.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	var c entity.Customer
	var taxID, email, phone, address *string
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, tax_id, email, phone, address, created_at, updated_at, deleted_at
		 FROM customers WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&c.ID, &c.Name, &taxID, &email, &phone, &address, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	setIf(&c.TaxID, taxID)
	setIf(&c.Email, email)
	setIf(&c.Phone, phone)
	setIf(&c.Address, address)
	return &c, nil
}

// List lista clientes activos.
func (r *CustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, tax_id, email, phone, address, created_at, updated_at, deleted_at
		 FROM customers WHERE deleted_at IS NULL ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		var taxID, email, phone, address *string
		if err := rows.Scan(&c.ID, &c.Name, &taxID, &email, &phone, &address,
			&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		setIf(&c.TaxID, taxID)
		setIf(&c.Email, email)
		setIf(&c.Phone, phone)
		setIf(&c.Address, address)
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza un cliente.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE customers SET name = $2, tax_id = $3, email = $4, phone = $5, address = $6, updated_at = $7
		 WHERE id = $1 AND deleted_at IS NULL`,
		customer.ID, customer.Name, nullIfEmpty(customer.TaxID), nullIfEmpty(customer.Email),
		nullIfEmpty(customer.Phone), nullIfEmpty(customer.Address), customer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// SoftDelete marca el cliente como eliminado.
func (r *CustomerRepo) SoftDelete(id string, now time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE customers SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, now)
	if err != nil {
		return fmt.Errorf("soft delete customer: %w", err)
	}
	return nil
}

// ProviderRepo implementación de ProviderRepository sobre PostgreSQL.
type ProviderRepo struct {
	q Querier
}

// NewProviderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProviderRepository(q Querier) *ProviderRepo {
	return &ProviderRepo{q: q}
}

// Create persiste un proveedor.
func (r *ProviderRepo) Create(provider *entity.Provider) error {
	query := `
		INSERT INTO providers (id, name, tax_id, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		provider.ID, provider.Name, nullIfEmpty(provider.TaxID), nullIfEmpty(provider.Email),
		nullIfEmpty(provider.Phone), nullIfEmpty(provider.Address), provider.CreatedAt, provider.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert provider: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor activo por ID.
func (r *ProviderRepo) GetByID(id string) (*entity.Provider, error) {
	var p entity.Provider
	var taxID, email, phone, address *string
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, tax_id, email, phone, address, created_at, updated_at, deleted_at
		 FROM providers WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&p.ID, &p.Name, &taxID, &email, &phone, &address, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider: %w", err)
	}
	setIf(&p.TaxID, taxID)
	setIf(&p.Email, email)
	setIf(&p.Phone, phone)
	setIf(&p.Address, address)
	return &p, nil
}

// List lista proveedores activos.
func (r *ProviderRepo) List(limit, offset int) ([]*entity.Provider, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, tax_id, email, phone, address, created_at, updated_at, deleted_at
		 FROM providers WHERE deleted_at IS NULL ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Provider
	for rows.Next() {
		var p entity.Provider
		var taxID, email, phone, address *string
		if err := rows.Scan(&p.ID, &p.Name, &taxID, &email, &phone, &address,
			&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		setIf(&p.TaxID, taxID)
		setIf(&p.Email, email)
		setIf(&p.Phone, phone)
		setIf(&p.Address, address)
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza un proveedor.
func (r *ProviderRepo) Update(provider *entity.Provider) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE providers SET name = $2, tax_id = $3, email = $4, phone = $5, address = $6, updated_at = $7
		 WHERE id = $1 AND deleted_at IS NULL`,
		provider.ID, provider.Name, nullIfEmpty(provider.TaxID), nullIfEmpty(provider.Email),
		nullIfEmpty(provider.Phone), nullIfEmpty(provider.Address), provider.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update provider: %w", err)
	}
	return nil
}

// SoftDelete marca el proveedor como eliminado.
func (r *ProviderRepo) SoftDelete(id string, now time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE providers SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, now)
	if err != nil {
		return fmt.Errorf("soft delete provider: %w", err)
	}
	return nil
}

func setIf(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
