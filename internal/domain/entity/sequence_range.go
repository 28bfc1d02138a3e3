package entity

import "time"

// SequenceRange representa un bloque de numeración fiscal autorizado por la
// DGII para un tipo de comprobante de una empresa. El campo Current es el
// último número emitido (0 = ninguno) y solo avanza a través del asignador
// (application/fiscal); ningún otro módulo escribe este campo.
//
// Las secuencias nunca se eliminan físicamente: la desactivación
// (Active=false) es el estado terminal, requerido por la pista de auditoría
// ante la DGII.
type SequenceRange struct {
	ID             string
	CompanyID      string
	DocumentTypeID string
	Description    string
	RangeStart     int64 // primer número autorizado (>= 1)
	RangeEnd       int64 // último número autorizado (> RangeStart)
	Current        int64 // último número emitido; 0 = ninguno todavía
	ExpiresOn      time.Time
	LowWatermark   int64 // cantidad restante que dispara la alerta "por agotarse"
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsExhausted indica si ya no quedan números por emitir.
func (r *SequenceRange) IsExhausted() bool {
	return r.Current >= r.RangeEnd
}

// Remaining cantidad de números que quedan por emitir.
func (r *SequenceRange) Remaining() int64 {
	if r.IsExhausted() {
		return 0
	}
	if r.Current < r.RangeStart {
		// Ninguno emitido todavía: queda el bloque completo.
		return r.RangeEnd - r.RangeStart + 1
	}
	return r.RangeEnd - r.Current
}

// IsExpired indica si la vigencia venció respecto a la fecha dada (se compara
// por día calendario, no por instante).
func (r *SequenceRange) IsExpired(today time.Time) bool {
	y1, m1, d1 := r.ExpiresOn.Date()
	y2, m2, d2 := today.Date()
	expires := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	day := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return expires.Before(day)
}

// UsagePercent porcentaje del bloque ya consumido, acotado a [0,100].
// Mientras Current < RangeStart (nada emitido) reporta 0. Es un valor
// de presentación: los dashboards lo leen sin lock y pueden verlo
// ligeramente desactualizado.
func (r *SequenceRange) UsagePercent() float64 {
	if r.Current < r.RangeStart {
		return 0
	}
	total := r.RangeEnd - r.RangeStart + 1
	if total <= 0 {
		return 0
	}
	pct := float64(r.Current-r.RangeStart+1) / float64(total) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// LowWatermarkHit indica si quedan LowWatermark números o menos (y todavía
// queda alguno). Con LowWatermark 0 la alerta está deshabilitada.
func (r *SequenceRange) LowWatermarkHit() bool {
	if r.LowWatermark <= 0 {
		return false
	}
	rem := r.Remaining()
	return rem > 0 && rem <= r.LowWatermark
}
