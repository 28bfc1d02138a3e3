package dto

import "github.com/shopspring/decimal"

// Report607Summary totales de ventas de un período (formato DGII 607).
type Report607Summary struct {
	Period     string          `json:"period"` // YYYYMM
	Count      int             `json:"count"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	TaxTotal   decimal.Decimal `json:"tax_total"`
}
