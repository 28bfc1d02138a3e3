package entity

import "time"

// DocumentType representa un tipo de comprobante fiscal del catálogo DGII,
// configurado por empresa (ej: código "01" = crédito fiscal, serie "B").
// (CompanyID, Code) es único. Una vez que una SequenceRange activa lo
// referencia no debe modificarse: el código y la serie forman parte de los
// NCF ya emitidos.
type DocumentType struct {
	ID        string
	CompanyID string
	Code      string // código DGII de dos caracteres: "01", "02", "04", ...
	Name      string
	Prefix    string // serie de un carácter: "B" (física), "E" (e-CF)
	CreatedAt time.Time
	UpdatedAt time.Time
}
