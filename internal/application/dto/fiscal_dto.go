package dto

import "time"

// CreateDocumentTypeRequest body para POST /api/fiscal/document-types.
type CreateDocumentTypeRequest struct {
	Code   string `json:"code"`   // código DGII: "01", "02", "04", ...
	Name   string `json:"name"`   // ej. "Factura de Crédito Fiscal"
	Prefix string `json:"prefix"` // serie de un carácter: "B"
}

// DocumentTypeResponse tipo de comprobante en respuestas.
type DocumentTypeResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Prefix    string    `json:"prefix"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSequenceRangeRequest body para POST /api/fiscal/ranges.
type CreateSequenceRangeRequest struct {
	DocumentTypeCode string `json:"document_type_code"`
	Description      string `json:"description,omitempty"`
	RangeStart       int64  `json:"range_start"`
	RangeEnd         int64  `json:"range_end"`
	ExpiresOn        string `json:"expires_on"` // YYYY-MM-DD
	LowWatermark     int64  `json:"low_watermark,omitempty"`
}

// SequenceRangeResponse secuencia con sus campos derivados de presentación.
// Remaining/UsagePercent se calculan de una lectura sin lock: son informativos,
// no ruta de corrección.
type SequenceRangeResponse struct {
	ID               string  `json:"id"`
	CompanyID        string  `json:"company_id"`
	DocumentTypeID   string  `json:"document_type_id"`
	DocumentTypeCode string  `json:"document_type_code,omitempty"`
	Description      string  `json:"description,omitempty"`
	RangeStart       int64   `json:"range_start"`
	RangeEnd         int64   `json:"range_end"`
	Current          int64   `json:"current"`
	ExpiresOn        string  `json:"expires_on"`
	LowWatermark     int64   `json:"low_watermark"`
	Active           bool    `json:"active"`
	Exhausted        bool    `json:"exhausted"`
	Remaining        int64   `json:"remaining"`
	UsagePercent     float64 `json:"usage_percent"`
}

// AllocateRequest body para POST /api/fiscal/ranges/:id/allocate.
type AllocateRequest struct {
	RangeID string `json:"range_id,omitempty"` // opcional si viene en la ruta
}

// AllocateResponse resultado de una asignación de NCF.
type AllocateResponse struct {
	NCF          string `json:"ncf"`
	Sequence     int64  `json:"sequence"`
	Remaining    int64  `json:"remaining"`
	RunningLow   bool   `json:"running_low"`   // quedan low_watermark o menos
	RangeID      string `json:"range_id"`
	DocumentType string `json:"document_type"` // código DGII
}
