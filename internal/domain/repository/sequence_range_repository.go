package repository

import (
	"context"

	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
)

// SequenceRangeRepository define el puerto de persistencia de secuencias NCF.
//
// La fila de la secuencia es el único recurso mutable compartido del módulo
// fiscal: GetByIDForUpdate la bloquea (SELECT ... FOR UPDATE en PostgreSQL,
// mutex por secuencia en el adaptador en memoria) y UpdateCurrent es la única
// escritura del contador. Ambos solo tienen sentido dentro de una transacción
// del FiscalTxRunner.
type SequenceRangeRepository interface {
	Create(ctx context.Context, r *entity.SequenceRange) error
	GetByID(ctx context.Context, id string) (*entity.SequenceRange, error)

	// GetByIDForUpdate relee la secuencia bloqueando su fila hasta el fin de
	// la transacción. El asignador revalida las precondiciones sobre este
	// valor fresco, nunca sobre una lectura previa.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.SequenceRange, error)

	// GetActiveByCompanyAndType devuelve la secuencia utilizable (activa, no
	// vencida, no agotada) para la empresa y tipo de comprobante. Si por un
	// error administrativo hay varias, gana la de menor range_start (regla
	// determinista, cubierta por tests). Devuelve nil, nil si no hay ninguna.
	GetActiveByCompanyAndType(ctx context.Context, companyID, documentTypeID string) (*entity.SequenceRange, error)

	ListByCompany(ctx context.Context, companyID string) ([]*entity.SequenceRange, error)

	// UpdateCurrent persiste el nuevo valor del contador. Único camino de
	// escritura de current; lo invoca exclusivamente el asignador con la
	// fila ya bloqueada.
	UpdateCurrent(ctx context.Context, id string, current int64) error

	// Deactivate marca la secuencia como inactiva (estado terminal; las
	// secuencias nunca se borran físicamente).
	Deactivate(ctx context.Context, id string) error
}
