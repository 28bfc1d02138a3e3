package repository

import (
	"time"

	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia de facturas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateDetail(detail *entity.InvoiceDetail) error
	GetByID(id string) (*entity.Invoice, error)
	GetByNCF(companyID, ncf string) (*entity.Invoice, error)
	GetDetailsByInvoiceID(invoiceID string) ([]*entity.InvoiceDetail, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error)

	// ListByCompanyAndPeriod facturas emitidas en [from, to) — insumo del
	// reporte 607.
	ListByCompanyAndPeriod(companyID string, from, to time.Time) ([]*entity.Invoice, error)
}
