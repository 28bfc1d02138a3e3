package ncf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcabrera/facturacion-rd/internal/domain/ncf"
)

// ──────────────────────────────────────────────────────────────────────────────
// El formato del NCF es un contrato con la DGII: 11 caracteres exactos,
// {serie:1}{tipo:2}{secuencia:08d}. Estos tests son el canario del formato:
// si alguien cambia el ancho, el padding o el orden de concatenación, fallan
// de inmediato.
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatNumber_VectoresExactos(t *testing.T) {
	cases := []struct {
		name  string
		serie string
		tipo  string
		n     int64
		want  string
	}{
		{"primer número", "B", "01", 1, "B0100000001"},
		{"cinco dígitos", "B", "01", 12345, "B0100012345"},
		{"consumo", "B", "02", 7, "B0200000007"},
		{"máximo representable", "B", "01", 99_999_999, "B0199999999"},
		{"serie e-CF", "E", "31", 42, "E3100000042"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ncf.FormatNumber(tc.serie, tc.tipo, tc.n)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Len(t, got, 11, "el NCF siempre tiene 11 caracteres")
		})
	}
}

func TestFormatNumber_EntradasInvalidas(t *testing.T) {
	cases := []struct {
		name  string
		serie string
		tipo  string
		n     int64
	}{
		{"secuencia cero", "B", "01", 0},
		{"secuencia negativa", "B", "01", -5},
		{"secuencia de 9 dígitos se rechaza, no se trunca", "B", "01", 100_000_000},
		{"serie vacía", "", "01", 1},
		{"serie de dos caracteres", "BB", "01", 1},
		{"tipo de un carácter", "B", "1", 1},
		{"tipo de tres caracteres", "B", "001", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ncf.FormatNumber(tc.serie, tc.tipo, tc.n)
			assert.Error(t, err)
		})
	}
}

// TestParse_RoundTrip verifica que Parse recupera exactamente el entero
// formateado (requisito de las herramientas de auditoría y reportes 606/607).
func TestParse_RoundTrip(t *testing.T) {
	for _, n := range []int64{1, 9, 10, 12345, 99_999_999} {
		s, err := ncf.FormatNumber("B", "01", n)
		require.NoError(t, err)

		serie, tipo, got, err := ncf.Parse(s)
		require.NoError(t, err)
		assert.Equal(t, "B", serie)
		assert.Equal(t, "01", tipo)
		assert.Equal(t, n, got, "Parse(Format(n)) debe devolver n")
	}
}

func TestParse_Invalidos(t *testing.T) {
	cases := []string{
		"",
		"B01",
		"B010000001",    // 10 caracteres
		"B010000000012", // 12 caracteres
		"B01ABCDEFGH",   // secuencia no numérica
		"B0100000000",   // secuencia 0 fuera de rango
	}
	for _, s := range cases {
		_, _, _, err := ncf.Parse(s)
		assert.Error(t, err, "Parse(%q) debe fallar", s)
	}
}

func TestIsKnownType(t *testing.T) {
	assert.True(t, ncf.IsKnownType(ncf.TipoCreditoFiscal))
	assert.True(t, ncf.IsKnownType(ncf.TipoConsumo))
	assert.True(t, ncf.IsKnownType(ncf.TipoNotaCredito))
	assert.False(t, ncf.IsKnownType("99"))
	assert.False(t, ncf.IsKnownType(""))
}
