// Package ncf implementa el formato del Número de Comprobante Fiscal (NCF)
// de la DGII (República Dominicana).
//
// Estructura del NCF (11 caracteres):
//
//	{serie:1}{tipo:2}{secuencia:8}
//
// Ejemplo: serie "B", tipo "01", secuencia 1 → "B0100000001".
//
// El ancho y el orden de concatenación son un contrato externo: la DGII y los
// reportes 606/607/608 validan el formato carácter por carácter, así que
// cualquier cambio aquí rompe la compatibilidad con el fisco.
package ncf

import (
	"fmt"
	"strconv"
)

// Tipos de comprobante fiscal según el catálogo DGII (Norma General 06-2018).
const (
	TipoCreditoFiscal   = "01" // Factura de crédito fiscal
	TipoConsumo         = "02" // Factura de consumo
	TipoNotaDebito      = "03" // Nota de débito
	TipoNotaCredito     = "04" // Nota de crédito
	TipoRegimenEspecial = "14" // Regímenes especiales de tributación
	TipoGubernamental   = "15" // Comprobante gubernamental
)

// Longitudes fijas del formato.
const (
	serieLen     = 1
	tipoLen      = 2
	secuenciaLen = 8
	totalLen     = serieLen + tipoLen + secuenciaLen
)

// maxSecuencia el campo de secuencia tiene 8 dígitos; 10^8 o más no cabe y
// debe rechazarse, nunca truncarse.
const maxSecuencia = int64(100_000_000)

// FormatNumber arma el NCF para la secuencia n. La serie debe tener exactamente
// un carácter y el tipo exactamente dos; n debe estar en [1, 10^8).
func FormatNumber(serie, tipo string, n int64) (string, error) {
	if len(serie) != serieLen {
		return "", fmt.Errorf("ncf: serie %q debe tener %d carácter", serie, serieLen)
	}
	if len(tipo) != tipoLen {
		return "", fmt.Errorf("ncf: tipo %q debe tener %d caracteres", tipo, tipoLen)
	}
	if n < 1 {
		return "", fmt.Errorf("ncf: secuencia %d fuera de rango (mínimo 1)", n)
	}
	if n >= maxSecuencia {
		return "", fmt.Errorf("ncf: secuencia %d excede los %d dígitos del formato", n, secuenciaLen)
	}
	return fmt.Sprintf("%s%s%08d", serie, tipo, n), nil
}

// Parse descompone un NCF en serie, tipo y secuencia. Es el inverso exacto de
// FormatNumber; lo usan los reportes DGII y las herramientas de auditoría para
// recuperar el entero asignado.
func Parse(s string) (serie, tipo string, n int64, err error) {
	if len(s) != totalLen {
		return "", "", 0, fmt.Errorf("ncf: %q debe tener %d caracteres", s, totalLen)
	}
	serie = s[:serieLen]
	tipo = s[serieLen : serieLen+tipoLen]
	digits := s[serieLen+tipoLen:]
	n, err = strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return "", "", 0, fmt.Errorf("ncf: secuencia %q no es numérica: %w", digits, err)
	}
	if n < 1 {
		return "", "", 0, fmt.Errorf("ncf: secuencia %d fuera de rango", n)
	}
	return serie, tipo, n, nil
}

// IsKnownType indica si el código pertenece al catálogo DGII soportado.
func IsKnownType(tipo string) bool {
	switch tipo {
	case TipoCreditoFiscal, TipoConsumo, TipoNotaDebito, TipoNotaCredito,
		TipoRegimenEspecial, TipoGubernamental:
		return true
	}
	return false
}
