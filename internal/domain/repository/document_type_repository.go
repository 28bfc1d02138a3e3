package repository

import (
	"context"

	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
)

// DocumentTypeRepository define el puerto de persistencia del catálogo de
// tipos de comprobante fiscal por empresa.
type DocumentTypeRepository interface {
	Create(ctx context.Context, dt *entity.DocumentType) error
	GetByID(ctx context.Context, id string) (*entity.DocumentType, error)

	// GetByCompanyAndCode busca el tipo por su código DGII ("01", "02", ...)
	// dentro de la empresa. Devuelve nil, nil si no existe.
	GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.DocumentType, error)

	ListByCompany(ctx context.Context, companyID string) ([]*entity.DocumentType, error)
}
