package repository

import "github.com/rcabrera/facturacion-rd/internal/domain/entity"

// CompanyRepository define el puerto de persistencia de empresas (tenants).
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	GetByRNC(rnc string) (*entity.Company, error)
	List(limit, offset int) ([]*entity.Company, error)
}
