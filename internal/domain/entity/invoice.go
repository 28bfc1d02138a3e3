package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura respecto a su comprobante fiscal.
const (
	InvoiceStatusIssued = "ISSUED" // NCF asignado y factura persistida
	InvoiceStatusVoided = "VOIDED" // anulada (el NCF queda consumido, nunca se reutiliza)
)

// Invoice representa la cabecera de una factura de venta. NCF es el número de
// comprobante fiscal asignado por el módulo fiscal en la misma transacción en
// que se crea la factura: no existe factura sin NCF ni NCF sin factura.
type Invoice struct {
	ID          string
	CompanyID   string
	CustomerID  string
	NCF         string // ej. "B0100000123"
	NCFTypeCode string // tipo de comprobante DGII ("01", "02", ...)
	Date        time.Time
	NetTotal    decimal.Decimal
	TaxTotal    decimal.Decimal // ITBIS
	GrandTotal  decimal.Decimal
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
