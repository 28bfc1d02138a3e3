package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/rcabrera/facturacion-rd/internal/application/dto"
	"github.com/rcabrera/facturacion-rd/internal/application/fiscal"
	"github.com/rcabrera/facturacion-rd/internal/domain"
	"github.com/rcabrera/facturacion-rd/pkg/logger"
)

// FiscalHandler maneja la administración de comprobantes fiscales: catálogo
// de tipos, secuencias NCF y la asignación directa de números.
type FiscalHandler struct {
	admin     *fiscal.AdminUseCase
	allocator *fiscal.Allocator
	log       *logger.Logger
}

// NewFiscalHandler construye el handler.
func NewFiscalHandler(admin *fiscal.AdminUseCase, allocator *fiscal.Allocator, log *logger.Logger) *FiscalHandler {
	return &FiscalHandler{admin: admin, allocator: allocator, log: log}
}

// CreateDocumentType POST /api/fiscal/document-types
func (h *FiscalHandler) CreateDocumentType(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateDocumentTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.admin.CreateDocumentType(c.Context(), companyID, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code (DGII) y prefix de un carácter son requeridos"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ese tipo de comprobante ya existe en la empresa"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListDocumentTypes GET /api/fiscal/document-types
func (h *FiscalHandler) ListDocumentTypes(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	list, err := h.admin.ListDocumentTypes(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// CreateRange POST /api/fiscal/ranges
func (h *FiscalHandler) CreateRange(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateSequenceRangeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.admin.CreateRange(c.Context(), companyID, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango inválido: revise range_start, range_end, expires_on y low_watermark"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TYPE_NOT_FOUND", Message: "el tipo de comprobante no existe en la empresa"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe una secuencia con ese inicio para el tipo"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	h.log.Info().
		Str("company_id", companyID).
		Str("range_id", out.ID).
		Int64("range_start", out.RangeStart).
		Int64("range_end", out.RangeEnd).
		Msg("secuencia NCF creada")
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRanges GET /api/fiscal/ranges
func (h *FiscalHandler) ListRanges(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	list, err := h.admin.ListRanges(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// DeactivateRange POST /api/fiscal/ranges/:id/deactivate
func (h *FiscalHandler) DeactivateRange(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	rangeID := c.Params("id")
	if err := h.admin.DeactivateRange(c.Context(), companyID, rangeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "secuencia no encontrada"})
		}
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_INACTIVE", Message: "la secuencia ya está inactiva"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Allocate POST /api/fiscal/ranges/:id/allocate
//
// Asigna el siguiente NCF de la secuencia. Cada precondición violada produce
// un código distinto para que el cliente distinga "pide otro rango a la DGII"
// de "la secuencia está mal configurada".
func (h *FiscalHandler) Allocate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	rangeID := c.Params("id")
	if rangeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id de la secuencia requerido"})
	}

	alloc, err := h.allocator.AllocateNext(c.Context(), companyID, rangeID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "secuencia no encontrada"})
		case errors.Is(err, domain.ErrRangeInactive):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RANGE_INACTIVE", Message: "la secuencia está desactivada"})
		case errors.Is(err, domain.ErrRangeExpired):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RANGE_EXPIRED", Message: "la vigencia de la secuencia venció"})
		case errors.Is(err, domain.ErrRangeExhausted):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RANGE_EXHAUSTED", Message: "no quedan NCF en la secuencia"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	if alloc.RunningLow {
		h.log.Warn().
			Str("company_id", companyID).
			Str("range_id", rangeID).
			Str("ncf", alloc.NCF).
			Int64("remaining", alloc.Remaining).
			Msg("secuencia NCF por agotarse")
	}

	return c.JSON(dto.AllocateResponse{
		NCF:          alloc.NCF,
		Sequence:     alloc.Sequence,
		Remaining:    alloc.Remaining,
		RunningLow:   alloc.RunningLow,
		RangeID:      rangeID,
		DocumentType: alloc.DocumentTypeCode,
	})
}
