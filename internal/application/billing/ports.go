package billing

import (
	"context"

	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
	"github.com/rcabrera/facturacion-rd/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye
// los repos fiscales y el de facturas: la asignación del NCF y la creación de
// la factura confirman o revierten juntas.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		rangeRepo repository.SequenceRangeRepository,
		docTypeRepo repository.DocumentTypeRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// InvoicePDFGenerator genera la representación impresa de una factura con su
// NCF. Implementado en infrastructure/pdf con Maroto.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		invoice *entity.Invoice,
		company *entity.Company,
		customer *entity.Customer,
		details []*entity.InvoiceDetail,
	) ([]byte, error)
}
