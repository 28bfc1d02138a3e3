package fiscal

import (
	"context"

	"github.com/rcabrera/facturacion-rd/internal/domain/repository"
)

// FiscalTxRunner ejecuta un callback dentro de una transacción con los
// repositorios fiscales atados a ella. El lock de fila que toma
// GetByIDForUpdate vive exactamente lo que dura la transacción: si el
// callback retorna error se hace rollback y el contador queda intacto.
type FiscalTxRunner interface {
	RunFiscal(ctx context.Context, fn func(
		rangeRepo repository.SequenceRangeRepository,
		docTypeRepo repository.DocumentTypeRepository,
	) error) error
}
