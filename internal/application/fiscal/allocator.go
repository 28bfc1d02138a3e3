package fiscal

import (
	"context"
	"time"

	"github.com/rcabrera/facturacion-rd/internal/domain"
	"github.com/rcabrera/facturacion-rd/internal/domain/ncf"
	"github.com/rcabrera/facturacion-rd/internal/domain/repository"
)

// Allocation resultado de una asignación de NCF.
type Allocation struct {
	NCF              string
	Sequence         int64
	Remaining        int64
	RunningLow       bool // quedan low_watermark números o menos
	DocumentTypeCode string
}

// Allocator es el único camino por el que avanza el contador de una secuencia
// fiscal. Contrato: dos callers nunca reciben el mismo número, los números
// salen en orden estrictamente creciente de uno en uno y un fallo parcial
// deja el contador intacto.
//
// El orden lock-luego-validar no es negociable: validar sobre una lectura
// previa al lock deja una ventana en la que otro caller agota o desactiva la
// secuencia entre la lectura y la escritura.
type Allocator struct {
	txRunner FiscalTxRunner
	now      func() time.Time
}

// NewAllocator construye el asignador.
func NewAllocator(txRunner FiscalTxRunner) *Allocator {
	return &Allocator{txRunner: txRunner, now: time.Now}
}

// AllocateNext asigna el siguiente NCF de la secuencia en su propia
// transacción. Secuencias de otra empresa se reportan como no encontradas.
func (a *Allocator) AllocateNext(ctx context.Context, companyID, rangeID string) (*Allocation, error) {
	var alloc *Allocation
	err := a.txRunner.RunFiscal(ctx, func(
		rangeRepo repository.SequenceRangeRepository,
		docTypeRepo repository.DocumentTypeRepository,
	) error {
		res, err := AllocateNextInTx(ctx, rangeRepo, docTypeRepo, companyID, rangeID, a.now())
		if err != nil {
			return err
		}
		alloc = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

// AllocateNextInTx asigna el siguiente NCF usando repositorios ya atados a una
// transacción abierta por el caller. Lo usa la creación de facturas para que
// el NCF y la factura se confirmen (o reviertan) juntos: si esta función
// falla, el caller debe abortar su transacción completa.
//
// Secuencia del algoritmo: bloquear la fila, revalidar precondiciones sobre
// el valor recién leído (activa → vigente → no agotada), calcular
// next = current+1 (o range_start si nada se ha emitido), formatear y
// persistir. Exactamente una asignación exitosa observa cada valor de next.
func AllocateNextInTx(
	ctx context.Context,
	rangeRepo repository.SequenceRangeRepository,
	docTypeRepo repository.DocumentTypeRepository,
	companyID, rangeID string,
	today time.Time,
) (*Allocation, error) {
	r, err := rangeRepo.GetByIDForUpdate(ctx, rangeID)
	if err != nil {
		return nil, err
	}
	if r == nil || r.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if !r.Active {
		return nil, domain.ErrRangeInactive
	}
	if r.IsExpired(today) {
		return nil, domain.ErrRangeExpired
	}
	if r.IsExhausted() {
		return nil, domain.ErrRangeExhausted
	}

	next := r.Current + 1
	if r.Current == 0 {
		// Nada emitido todavía: el primer número es el inicio del bloque.
		next = r.RangeStart
	}

	dt, err := docTypeRepo.GetByID(ctx, r.DocumentTypeID)
	if err != nil {
		return nil, err
	}
	if dt == nil {
		return nil, domain.ErrNotFound
	}

	// Formatear antes de persistir: si la secuencia no cabe en 8 dígitos se
	// rechaza sin tocar el contador.
	number, err := ncf.FormatNumber(dt.Prefix, dt.Code, next)
	if err != nil {
		return nil, err
	}

	if err := rangeRepo.UpdateCurrent(ctx, r.ID, next); err != nil {
		return nil, err
	}
	r.Current = next

	return &Allocation{
		NCF:              number,
		Sequence:         next,
		Remaining:        r.Remaining(),
		RunningLow:       r.LowWatermarkHit(),
		DocumentTypeCode: dt.Code,
	}, nil
}
