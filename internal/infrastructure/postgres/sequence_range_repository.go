package postgres

import (
	"context"
	"fmt"

	"github.com/rcabrera/facturacion-rd/internal/domain"
	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
	"github.com/rcabrera/facturacion-rd/internal/domain/repository"
)

var _ repository.SequenceRangeRepository = (*SequenceRangeRepo)(nil)

const sequenceRangeColumns = `
	id, company_id, document_type_id, description, range_start, range_end,
	current, expires_on, low_watermark, active, created_at, updated_at`

// SequenceRangeRepo implementa SequenceRangeRepository sobre PostgreSQL
// (usable con pool o tx). La asignación de NCF exige que GetByIDForUpdate y
// UpdateCurrent corran sobre la misma transacción.
type SequenceRangeRepo struct {
	q Querier
}

// NewSequenceRangeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRangeRepository(q Querier) *SequenceRangeRepo {
	return &SequenceRangeRepo{q: q}
}

func (r *SequenceRangeRepo) Create(ctx context.Context, rng *entity.SequenceRange) error {
	const q = `
		INSERT INTO sequence_ranges
			(id, company_id, document_type_id, description, range_start, range_end,
			 current, expires_on, low_watermark, active, created_at, updated_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())`
	_, err := r.q.Exec(ctx, q,
		rng.ID, rng.CompanyID, rng.DocumentTypeID, rng.Description,
		rng.RangeStart, rng.RangeEnd, rng.Current,
		rng.ExpiresOn, rng.LowWatermark, rng.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sequence_range: %w", err)
	}
	return nil
}

func (r *SequenceRangeRepo) GetByID(ctx context.Context, id string) (*entity.SequenceRange, error) {
	q := `SELECT ` + sequenceRangeColumns + ` FROM sequence_ranges WHERE id = $1`
	rng, err := scanSequenceRange(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sequence_range by id: %w", err)
	}
	return rng, nil
}

// GetByIDForUpdate bloquea la fila de la secuencia hasta el fin de la
// transacción (SELECT ... FOR UPDATE). Dos asignaciones concurrentes sobre la
// misma secuencia se serializan aquí.
func (r *SequenceRangeRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.SequenceRange, error) {
	q := `SELECT ` + sequenceRangeColumns + ` FROM sequence_ranges WHERE id = $1 FOR UPDATE`
	rng, err := scanSequenceRange(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sequence_range for update: %w", err)
	}
	return rng, nil
}

// GetActiveByCompanyAndType es la consulta del registro de tipos: la
// secuencia utilizable para emitir. Con más de una candidata gana la de menor
// range_start.
func (r *SequenceRangeRepo) GetActiveByCompanyAndType(ctx context.Context, companyID, documentTypeID string) (*entity.SequenceRange, error) {
	q := `
		SELECT ` + sequenceRangeColumns + `
		FROM sequence_ranges
		WHERE company_id       = $1
		  AND document_type_id = $2
		  AND active           = true
		  AND expires_on      >= CURRENT_DATE
		  AND current          < range_end
		ORDER BY range_start ASC
		LIMIT 1`
	rng, err := scanSequenceRange(r.q.QueryRow(ctx, q, companyID, documentTypeID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active sequence_range: %w", err)
	}
	return rng, nil
}

func (r *SequenceRangeRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.SequenceRange, error) {
	q := `
		SELECT ` + sequenceRangeColumns + `
		FROM sequence_ranges
		WHERE company_id = $1
		ORDER BY document_type_id, range_start`
	rows, err := r.q.Query(ctx, q, companyID)
	if err != nil {
		return nil, fmt.Errorf("list sequence_ranges: %w", err)
	}
	defer rows.Close()
	var list []*entity.SequenceRange
	for rows.Next() {
		rng, err := scanSequenceRange(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sequence_range: %w", err)
		}
		list = append(list, rng)
	}
	return list, rows.Err()
}

// UpdateCurrent persiste el contador ya avanzado por el asignador. La fila
// tiene que estar bloqueada por GetByIDForUpdate en esta misma transacción.
func (r *SequenceRangeRepo) UpdateCurrent(ctx context.Context, id string, current int64) error {
	const q = `UPDATE sequence_ranges SET current = $2, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(ctx, q, id, current)
	if err != nil {
		return fmt.Errorf("update sequence_range current: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SequenceRangeRepo) Deactivate(ctx context.Context, id string) error {
	const q = `UPDATE sequence_ranges SET active = false, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("deactivate sequence_range: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// pgxScanner abstrae pgx.Row y pgx.Rows para reutilizar los scanX.
type pgxScanner interface {
	Scan(dest ...any) error
}

func scanSequenceRange(row pgxScanner) (*entity.SequenceRange, error) {
	var rng entity.SequenceRange
	err := row.Scan(
		&rng.ID, &rng.CompanyID, &rng.DocumentTypeID, &rng.Description,
		&rng.RangeStart, &rng.RangeEnd, &rng.Current,
		&rng.ExpiresOn, &rng.LowWatermark, &rng.Active,
		&rng.CreatedAt, &rng.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rng, nil
}
