package billing

import (
	"context"
	"fmt"

	"github.com/rcabrera/facturacion-rd/internal/domain"
	"github.com/rcabrera/facturacion-rd/internal/domain/repository"
)

// PDFUseCase genera la representación impresa (PDF) de una factura con su
// comprobante fiscal.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		generator:    generator,
	}
}

// DownloadInvoicePDF carga factura, empresa, cliente y detalle, y genera el
// PDF. Retorna los bytes y el nombre de archivo sugerido.
//
//   - domain.ErrNotFound  si la factura no existe.
//   - domain.ErrForbidden si la factura no pertenece a la empresa del token.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, companyID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}

	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	customer, err := uc.customerRepo.GetByID(inv.CustomerID)
	if err != nil || customer == nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	details, err := uc.invoiceRepo.GetDetailsByInvoiceID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener detalle: %w", err)
	}

	bytes, err := uc.generator.GenerateInvoicePDF(ctx, inv, company, customer, details)
	if err != nil {
		return nil, "", err
	}
	return bytes, fmt.Sprintf("factura-%s.pdf", inv.NCF), nil
}
