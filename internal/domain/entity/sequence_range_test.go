package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
)

func rangoPrueba(start, end, current int64) *entity.SequenceRange {
	return &entity.SequenceRange{
		ID:         "rng-1",
		RangeStart: start,
		RangeEnd:   end,
		Current:    current,
		Active:     true,
	}
}

func TestSequenceRange_IsExhausted(t *testing.T) {
	assert.False(t, rangoPrueba(1, 10, 0).IsExhausted())
	assert.False(t, rangoPrueba(1, 10, 9).IsExhausted())
	assert.True(t, rangoPrueba(1, 10, 10).IsExhausted(), "current == range_end es agotado")
}

func TestSequenceRange_Remaining(t *testing.T) {
	assert.Equal(t, int64(100), rangoPrueba(1, 100, 0).Remaining(), "sin emitir queda el bloque completo")
	assert.Equal(t, int64(50), rangoPrueba(1, 100, 50).Remaining())
	assert.Equal(t, int64(0), rangoPrueba(1, 100, 100).Remaining())
	// Bloque que no arranca en 1: current=0 sigue siendo "ninguno emitido".
	assert.Equal(t, int64(41), rangoPrueba(60, 100, 0).Remaining())
}

func TestSequenceRange_UsagePercent_Bordes(t *testing.T) {
	// Sin emitir: 0, nunca negativo ni NaN.
	assert.Equal(t, 0.0, rangoPrueba(1, 100, 0).UsagePercent())
	// Bloque completo consumido: exactamente 100.
	assert.Equal(t, 100.0, rangoPrueba(1, 100, 100).UsagePercent())
	// Punto intermedio.
	assert.InDelta(t, 50.0, rangoPrueba(1, 100, 50).UsagePercent(), 0.0001)
	// Un solo número emitido de un bloque de 100.
	assert.InDelta(t, 1.0, rangoPrueba(1, 100, 1).UsagePercent(), 0.0001)
}

func TestSequenceRange_IsExpired_PorDiaCalendario(t *testing.T) {
	hoy := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	r := rangoPrueba(1, 100, 0)
	r.ExpiresOn = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.False(t, r.IsExpired(hoy), "vence hoy: todavía utilizable (expires_on >= today)")

	r.ExpiresOn = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.True(t, r.IsExpired(hoy))

	r.ExpiresOn = time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	assert.False(t, r.IsExpired(hoy))
}

func TestSequenceRange_LowWatermarkHit(t *testing.T) {
	r := rangoPrueba(1, 100, 90)
	r.LowWatermark = 10
	assert.True(t, r.LowWatermarkHit(), "quedan 10 y el umbral es 10")

	r.Current = 89
	assert.False(t, r.LowWatermarkHit(), "quedan 11, por encima del umbral")

	r.Current = 100
	assert.False(t, r.LowWatermarkHit(), "agotada ya no alerta: está agotada, no por agotarse")

	r.Current = 95
	r.LowWatermark = 0
	assert.False(t, r.LowWatermarkHit(), "umbral 0 deshabilita la alerta")
}
