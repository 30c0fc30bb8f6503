package repository

import "github.com/tu-usuario/gestion-pro/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para Supplier (compras).
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	GetByCompanyAndTaxID(companyID, taxID string) (*entity.Supplier, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	Delete(id string) error
}
