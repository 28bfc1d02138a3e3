package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/rcabrera/facturacion-rd/internal/application/dto"
	"github.com/rcabrera/facturacion-rd/internal/application/reports"
	"github.com/rcabrera/facturacion-rd/internal/domain"
)

// ReportHandler maneja los reportes fiscales DGII.
type ReportHandler struct {
	report607 *reports.Report607UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(report607 *reports.Report607UseCase) *ReportHandler {
	return &ReportHandler{report607: report607}
}

// Download607 descarga el TXT del reporte de ventas 607.
// GET /api/reports/607/:period  (period = YYYYMM)
func (h *ReportHandler) Download607(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	period := c.Params("period")
	contenido, filename, err := h.report607.Generate(companyID, period)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "period debe ser YYYYMM"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empresa no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(contenido)
}

// Summary607 devuelve los totales del período sin generar el archivo.
// GET /api/reports/607/:period/summary
func (h *ReportHandler) Summary607(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	period := c.Params("period")
	s, err := h.report607.Summary(companyID, period)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "period debe ser YYYYMM"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(s)
}
