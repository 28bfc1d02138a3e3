package postgres

import (
	"context"
	"fmt"

	"github.com/rcabrera/facturacion-rd/internal/domain"
	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
	"github.com/rcabrera/facturacion-rd/internal/domain/repository"
)

var _ repository.DocumentTypeRepository = (*DocumentTypeRepo)(nil)

// DocumentTypeRepo implementa DocumentTypeRepository sobre PostgreSQL
// (usable con pool o tx).
type DocumentTypeRepo struct {
	q Querier
}

// NewDocumentTypeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentTypeRepository(q Querier) *DocumentTypeRepo {
	return &DocumentTypeRepo{q: q}
}

func (r *DocumentTypeRepo) Create(ctx context.Context, dt *entity.DocumentType) error {
	const q = `
		INSERT INTO document_types (id, company_id, code, name, prefix, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.q.Exec(ctx, q, dt.ID, dt.CompanyID, dt.Code, dt.Name, dt.Prefix)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert document_type: %w", err)
	}
	return nil
}

func (r *DocumentTypeRepo) GetByID(ctx context.Context, id string) (*entity.DocumentType, error) {
	const q = `
		SELECT id, company_id, code, name, prefix, created_at, updated_at
		FROM document_types WHERE id = $1`
	dt, err := scanDocumentType(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document_type by id: %w", err)
	}
	return dt, nil
}

func (r *DocumentTypeRepo) GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.DocumentType, error) {
	const q = `
		SELECT id, company_id, code, name, prefix, created_at, updated_at
		FROM document_types WHERE company_id = $1 AND code = $2`
	dt, err := scanDocumentType(r.q.QueryRow(ctx, q, companyID, code))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document_type by code: %w", err)
	}
	return dt, nil
}

func (r *DocumentTypeRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.DocumentType, error) {
	const q = `
		SELECT id, company_id, code, name, prefix, created_at, updated_at
		FROM document_types WHERE company_id = $1 ORDER BY code`
	rows, err := r.q.Query(ctx, q, companyID)
	if err != nil {
		return nil, fmt.Errorf("list document_types: %w", err)
	}
	defer rows.Close()
	var list []*entity.DocumentType
	for rows.Next() {
		dt, err := scanDocumentType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document_type: %w", err)
		}
		list = append(list, dt)
	}
	return list, rows.Err()
}

func scanDocumentType(row pgxScanner) (*entity.DocumentType, error) {
	var dt entity.DocumentType
	err := row.Scan(&dt.ID, &dt.CompanyID, &dt.Code, &dt.Name, &dt.Prefix, &dt.CreatedAt, &dt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &dt, nil
}
