package repository

import (
	"time"

	"github.com/jmrosales/pos-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	List(limit, offset int) ([]*entity.Category, error)
	Update(category *entity.Category) error
	SoftDelete(id string, now time.Time) error
}

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	List(limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
	SoftDelete(id string, now time.Time) error
}

// ProviderRepository define el puerto de persistencia para Provider.
type ProviderRepository interface {
	Create(provider *entity.Provider) error
	GetByID(id string) (*entity.Provider, error)
	List(limit, offset int) ([]*entity.Provider, error)
	Update(provider *entity.Provider) error
	SoftDelete(id string, now time.Time) error
}
