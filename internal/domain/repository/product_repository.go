package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/gestion-pro/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateCost(productID string, cost decimal.Decimal) error
	ListByCompany(companyID string, categoryID string, limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
}
