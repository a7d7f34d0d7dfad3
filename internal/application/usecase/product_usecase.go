package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmrosales/pos-api/internal/application/dto"
	"github.com/jmrosales/pos-api/internal/domain"
	"github.com/jmrosales/pos-api/internal/domain/entity"
	"github.com/jmrosales/pos-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Stock se maneja vía el
// libro de inventario: ni Create ni Update lo tocan.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto con existencia 0.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.SalePrice.IsNegative() || in.CostPrice.IsNegative() || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		SalePrice:   in.SalePrice,
		CostPrice:   in.CostPrice,
		Stock:       0,
		MinStock:    in.MinStock,
		MaxStock:    in.MaxStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(limit, offset int) ([]*dto.ProductResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	products, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Update aplica un patch parcial. No permite modificar Stock.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.SalePrice != nil {
		if in.SalePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.SalePrice = *in.SalePrice
	}
	if in.CostPrice != nil {
		if in.CostPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.CostPrice = *in.CostPrice
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		product.MaxStock = *in.MaxStock
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete desactiva un producto (soft delete): los movimientos históricos
// siguen resolviendo su referencia.
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.SoftDelete(id, time.Now().UTC())
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		SalePrice:   p.SalePrice,
		CostPrice:   p.CostPrice,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		MaxStock:    p.MaxStock,
		LowStock:    p.IsLowStock(),
	}
}
