package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmrosales/pos-api/internal/application/dto"
	"github.com/jmrosales/pos-api/internal/domain"
	"github.com/jmrosales/pos-api/internal/domain/entity"
	"github.com/jmrosales/pos-api/internal/domain/repository"
)

// CategoryUseCase casos de uso CRUD para categorías.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría.
func (uc *CategoryUseCase) Create(in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// GetByID obtiene una categoría por ID.
func (uc *CategoryUseCase) GetByID(id string) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	return toCategoryResponse(category), nil
}

// List lista categorías.
func (uc *CategoryUseCase) List(limit, offset int) ([]*dto.CategoryResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	categories, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// Update aplica un patch parcial a una categoría.
func (uc *CategoryUseCase) Update(id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		category.Name = *in.Name
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	category.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Delete desactiva una categoría (soft delete).
func (uc *CategoryUseCase) Delete(id string) error {
	category, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrNotFound
	}
	return uc.repo.SoftDelete(id, time.Now().UTC())
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

// CustomerUseCase casos de uso CRUD para clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un cliente.
func (uc *CustomerUseCase) Create(in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente por ID.
func (uc *CustomerUseCase) GetByID(id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes.
func (uc *CustomerUseCase) List(limit, offset int) ([]*dto.CustomerResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	customers, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

// Update aplica un patch parcial a un cliente.
func (uc *CustomerUseCase) Update(id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		customer.Name = *in.Name
	}
	if in.TaxID != nil {
		customer.TaxID = *in.TaxID
	}
	if in.Email != nil {
		customer.Email = *in.Email
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.Address != nil {
		customer.Address = *in.Address
	}
	customer.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Delete desactiva un cliente (soft delete).
func (uc *CustomerUseCase) Delete(id string) error {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	return uc.repo.SoftDelete(id, time.Now().UTC())
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:      c.ID,
		Name:    c.Name,
		TaxID:   c.TaxID,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
	}
}

// ProviderUseCase casos de uso CRUD para proveedores.
type ProviderUseCase struct {
	repo repository.ProviderRepository
}

// NewProviderUseCase construye el caso de uso.
func NewProviderUseCase(repo repository.ProviderRepository) *ProviderUseCase {
	return &ProviderUseCase{repo: repo}
}

// Create crea un proveedor.
func (uc *ProviderUseCase) Create(in dto.CreateProviderRequest) (*dto.ProviderResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	provider := &entity.Provider{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(provider); err != nil {
		return nil, err
	}
	return toProviderResponse(provider), nil
}

// GetByID obtiene un proveedor por ID.
func (uc *ProviderUseCase) GetByID(id string) (*dto.ProviderResponse, error) {
	provider, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, domain.ErrNotFound
	}
	return toProviderResponse(provider), nil
}

// List lista proveedores.
func (uc *ProviderUseCase) List(limit, offset int) ([]*dto.ProviderResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	providers, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProviderResponse, 0, len(providers))
	for _, p := range providers {
		out = append(out, toProviderResponse(p))
	}
	return out, nil
}

// Update aplica un patch parcial a un proveedor.
func (uc *ProviderUseCase) Update(id string, in dto.UpdateProviderRequest) (*dto.ProviderResponse, error) {
	provider, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		provider.Name = *in.Name
	}
	if in.TaxID != nil {
		provider.TaxID = *in.TaxID
	}
	if in.Email != nil {
		provider.Email = *in.Email
	}
	if in.Phone != nil {
		provider.Phone = *in.Phone
	}
	if in.Address != nil {
		provider.Address = *in.Address
	}
	provider.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(provider); err != nil {
		return nil, err
	}
	return toProviderResponse(provider), nil
}

// Delete desactiva un proveedor (soft delete).
func (uc *ProviderUseCase) Delete(id string) error {
	provider, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if provider == nil {
		return domain.ErrNotFound
	}
	return uc.repo.SoftDelete(id, time.Now().UTC())
}

func toProviderResponse(p *entity.Provider) *dto.ProviderResponse {
	return &dto.ProviderResponse{
		ID:      p.ID,
		Name:    p.Name,
		TaxID:   p.TaxID,
		Email:   p.Email,
		Phone:   p.Phone,
		Address: p.Address,
	}
}
