package fiscal

import (
	"context"
	"time"

	"github.com/rcabrera/facturacion-rd/internal/domain"
	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
	"github.com/rcabrera/facturacion-rd/internal/domain/repository"
)

// Registry resuelve, para (empresa, código de comprobante), la secuencia
// actualmente utilizable que el asignador debe usar. Es la consulta previa a
// toda emisión: sin secuencia utilizable no se puede facturar con ese tipo.
type Registry struct {
	docTypeRepo repository.DocumentTypeRepository
	rangeRepo   repository.SequenceRangeRepository
	now         func() time.Time
}

// NewRegistry construye el registro.
func NewRegistry(docTypeRepo repository.DocumentTypeRepository, rangeRepo repository.SequenceRangeRepository) *Registry {
	return &Registry{docTypeRepo: docTypeRepo, rangeRepo: rangeRepo, now: time.Now}
}

// ResolveActiveRange busca el tipo de comprobante por código y su secuencia
// utilizable (activa, vigente, no agotada). Si varias secuencias activas
// coexisten para el mismo par — un estado administrativo erróneo — gana la de
// menor range_start; la regla vive en el repositorio y está cubierta por
// tests para que no dependa del orden incidental de la consulta.
//
// El resultado es orientativo: el asignador revalida todo bajo lock, así que
// una secuencia que se agote entre esta consulta y la asignación produce el
// error correcto, no un duplicado.
func (g *Registry) ResolveActiveRange(ctx context.Context, companyID, typeCode string) (*entity.SequenceRange, *entity.DocumentType, error) {
	dt, err := g.docTypeRepo.GetByCompanyAndCode(ctx, companyID, typeCode)
	if err != nil {
		return nil, nil, err
	}
	if dt == nil {
		return nil, nil, domain.ErrNotFound
	}

	r, err := g.rangeRepo.GetActiveByCompanyAndType(ctx, companyID, dt.ID)
	if err != nil {
		return nil, nil, err
	}
	if r == nil {
		return nil, dt, domain.ErrNotFound
	}
	// GetActiveByCompanyAndType filtra activa y no agotada; la vigencia se
	// revisa aquí por día calendario de la aplicación.
	if r.IsExpired(g.now()) {
		return nil, dt, domain.ErrNotFound
	}
	return r, dt, nil
}
