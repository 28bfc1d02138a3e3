package memory

import (
	"context"
	"time"

	"github.com/rcabrera/facturacion-rd/internal/domain"
	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
	"github.com/rcabrera/facturacion-rd/internal/domain/repository"
)

var _ repository.DocumentTypeRepository = (*DocumentTypeRepo)(nil)
var _ repository.SequenceRangeRepository = (*SequenceRangeRepo)(nil)

// DocumentTypeRepo implementa DocumentTypeRepository sobre el Store.
type DocumentTypeRepo struct {
	s *Store
}

// NewDocumentTypeRepository construye el repositorio.
func NewDocumentTypeRepository(s *Store) *DocumentTypeRepo {
	return &DocumentTypeRepo{s: s}
}

func (r *DocumentTypeRepo) Create(_ context.Context, dt *entity.DocumentType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.docTypes[dt.ID] = cloneDocType(dt)
	return nil
}

func (r *DocumentTypeRepo) GetByID(_ context.Context, id string) (*entity.DocumentType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneDocType(r.s.docTypes[id]), nil
}

func (r *DocumentTypeRepo) GetByCompanyAndCode(_ context.Context, companyID, code string) (*entity.DocumentType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, dt := range r.s.docTypes {
		if dt.CompanyID == companyID && dt.Code == code {
			return cloneDocType(dt), nil
		}
	}
	return nil, nil
}

func (r *DocumentTypeRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.DocumentType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.DocumentType
	for _, dt := range r.s.docTypes {
		if dt.CompanyID == companyID {
			list = append(list, cloneDocType(dt))
		}
	}
	return list, nil
}

// SequenceRangeRepo implementa SequenceRangeRepository sobre el Store. Fuera
// de una transacción GetByIDForUpdate degrada a lectura simple; el asignador
// siempre lo invoca a través del TxRunner, que sí toma el mutex.
type SequenceRangeRepo struct {
	s  *Store
	tx *fiscalTx // nil fuera de transacción
}

// NewSequenceRangeRepository construye el repositorio de solo lectura /
// administración (sin transacción).
func NewSequenceRangeRepository(s *Store) *SequenceRangeRepo {
	return &SequenceRangeRepo{s: s}
}

func (r *SequenceRangeRepo) Create(_ context.Context, rng *entity.SequenceRange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.ranges {
		if existing.CompanyID == rng.CompanyID &&
			existing.DocumentTypeID == rng.DocumentTypeID &&
			existing.RangeStart == rng.RangeStart {
			return domain.ErrDuplicate
		}
	}
	r.s.ranges[rng.ID] = cloneRange(rng)
	return nil
}

func (r *SequenceRangeRepo) GetByID(_ context.Context, id string) (*entity.SequenceRange, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneRange(r.s.ranges[id]), nil
}

// GetByIDForUpdate bloquea el mutex de la secuencia (lo libera el TxRunner al
// terminar la transacción) y devuelve el valor fresco leído bajo el lock.
func (r *SequenceRangeRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.SequenceRange, error) {
	if r.tx == nil {
		return r.GetByID(ctx, id)
	}
	r.tx.lockRange(id)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rng := r.s.ranges[id]
	if rng != nil {
		r.tx.snapshot(rng)
	}
	return cloneRange(rng), nil
}

// GetActiveByCompanyAndType devuelve la secuencia utilizable para la empresa
// y tipo (activa, vigente, no agotada); ante varias candidatas gana la de
// menor range_start, igual que el ORDER BY del adaptador PostgreSQL.
func (r *SequenceRangeRepo) GetActiveByCompanyAndType(_ context.Context, companyID, documentTypeID string) (*entity.SequenceRange, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	today := time.Now()
	var best *entity.SequenceRange
	for _, rng := range r.s.ranges {
		if rng.CompanyID != companyID || rng.DocumentTypeID != documentTypeID {
			continue
		}
		if !rng.Active || rng.IsExhausted() || rng.IsExpired(today) {
			continue
		}
		if best == nil || rng.RangeStart < best.RangeStart {
			best = rng
		}
	}
	return cloneRange(best), nil
}

func (r *SequenceRangeRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.SequenceRange, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.SequenceRange
	for _, rng := range r.s.ranges {
		if rng.CompanyID == companyID {
			list = append(list, cloneRange(rng))
		}
	}
	return list, nil
}

func (r *SequenceRangeRepo) UpdateCurrent(_ context.Context, id string, current int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rng, ok := r.s.ranges[id]
	if !ok {
		return domain.ErrNotFound
	}
	rng.Current = current
	return nil
}

func (r *SequenceRangeRepo) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rng, ok := r.s.ranges[id]
	if !ok {
		return domain.ErrNotFound
	}
	rng.Active = false
	return nil
}
