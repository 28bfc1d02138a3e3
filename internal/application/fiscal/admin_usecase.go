package fiscal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rcabrera/facturacion-rd/internal/application/dto"
	"github.com/rcabrera/facturacion-rd/internal/domain"
	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
	"github.com/rcabrera/facturacion-rd/internal/domain/ncf"
	"github.com/rcabrera/facturacion-rd/internal/domain/repository"
)

// AdminUseCase administra la configuración fiscal de una empresa: catálogo de
// tipos de comprobante y registro de secuencias autorizadas. La única
// mutación permitida sobre una secuencia existente es desactivarla; el
// contador lo toca solo el Allocator.
type AdminUseCase struct {
	docTypeRepo repository.DocumentTypeRepository
	rangeRepo   repository.SequenceRangeRepository
	now         func() time.Time
}

// NewAdminUseCase construye el caso de uso.
func NewAdminUseCase(docTypeRepo repository.DocumentTypeRepository, rangeRepo repository.SequenceRangeRepository) *AdminUseCase {
	return &AdminUseCase{docTypeRepo: docTypeRepo, rangeRepo: rangeRepo, now: time.Now}
}

// CreateDocumentType registra un tipo de comprobante para la empresa.
// El código debe pertenecer al catálogo DGII y la serie tener un carácter.
func (uc *AdminUseCase) CreateDocumentType(ctx context.Context, companyID string, in dto.CreateDocumentTypeRequest) (*dto.DocumentTypeResponse, error) {
	if in.Name == "" || !ncf.IsKnownType(in.Code) || len(in.Prefix) != 1 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.docTypeRepo.GetByCompanyAndCode(ctx, companyID, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := uc.now()
	dt := &entity.DocumentType{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Code:      in.Code,
		Name:      in.Name,
		Prefix:    in.Prefix,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.docTypeRepo.Create(ctx, dt); err != nil {
		return nil, err
	}
	return toDocumentTypeResponse(dt), nil
}

// ListDocumentTypes lista el catálogo de la empresa.
func (uc *AdminUseCase) ListDocumentTypes(ctx context.Context, companyID string) ([]dto.DocumentTypeResponse, error) {
	list, err := uc.docTypeRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DocumentTypeResponse, 0, len(list))
	for _, dt := range list {
		out = append(out, *toDocumentTypeResponse(dt))
	}
	return out, nil
}

// CreateRange registra un bloque de numeración autorizado. Reglas de
// creación: range_start >= 1, range_start < range_end, vigencia no vencida,
// low_watermark >= 0 y tipo de comprobante de la misma empresa. La
// unicidad (empresa, tipo, range_start) la refuerza la base de datos y se
// reporta como duplicado.
func (uc *AdminUseCase) CreateRange(ctx context.Context, companyID string, in dto.CreateSequenceRangeRequest) (*dto.SequenceRangeResponse, error) {
	if in.RangeStart < 1 || in.RangeEnd <= in.RangeStart || in.LowWatermark < 0 {
		return nil, domain.ErrInvalidInput
	}
	expires, err := time.Parse("2006-01-02", in.ExpiresOn)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	dt, err := uc.docTypeRepo.GetByCompanyAndCode(ctx, companyID, in.DocumentTypeCode)
	if err != nil {
		return nil, err
	}
	if dt == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	r := &entity.SequenceRange{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		DocumentTypeID: dt.ID,
		Description:    in.Description,
		RangeStart:     in.RangeStart,
		RangeEnd:       in.RangeEnd,
		Current:        0,
		ExpiresOn:      expires,
		LowWatermark:   in.LowWatermark,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if r.IsExpired(now) {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.rangeRepo.Create(ctx, r); err != nil {
		return nil, err
	}
	return ToSequenceRangeResponse(r, dt.Code), nil
}

// ListRanges lista las secuencias de la empresa con sus campos derivados.
func (uc *AdminUseCase) ListRanges(ctx context.Context, companyID string) ([]dto.SequenceRangeResponse, error) {
	list, err := uc.rangeRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SequenceRangeResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *ToSequenceRangeResponse(r, ""))
	}
	return out, nil
}

// DeactivateRange desactiva una secuencia (estado terminal). Secuencias de
// otra empresa se reportan como no encontradas.
func (uc *AdminUseCase) DeactivateRange(ctx context.Context, companyID, rangeID string) error {
	r, err := uc.rangeRepo.GetByID(ctx, rangeID)
	if err != nil {
		return err
	}
	if r == nil || r.CompanyID != companyID {
		return domain.ErrNotFound
	}
	if !r.Active {
		return domain.ErrConflict
	}
	return uc.rangeRepo.Deactivate(ctx, rangeID)
}

// ToSequenceRangeResponse arma el DTO con los derivados de presentación.
func ToSequenceRangeResponse(r *entity.SequenceRange, typeCode string) *dto.SequenceRangeResponse {
	return &dto.SequenceRangeResponse{
		ID:               r.ID,
		CompanyID:        r.CompanyID,
		DocumentTypeID:   r.DocumentTypeID,
		DocumentTypeCode: typeCode,
		Description:      r.Description,
		RangeStart:       r.RangeStart,
		RangeEnd:         r.RangeEnd,
		Current:          r.Current,
		ExpiresOn:        r.ExpiresOn.Format("2006-01-02"),
		LowWatermark:     r.LowWatermark,
		Active:           r.Active,
		Exhausted:        r.IsExhausted(),
		Remaining:        r.Remaining(),
		UsagePercent:     r.UsagePercent(),
	}
}

func toDocumentTypeResponse(dt *entity.DocumentType) *dto.DocumentTypeResponse {
	return &dto.DocumentTypeResponse{
		ID:        dt.ID,
		CompanyID: dt.CompanyID,
		Code:      dt.Code,
		Name:      dt.Name,
		Prefix:    dt.Prefix,
		CreatedAt: dt.CreatedAt,
	}
}
