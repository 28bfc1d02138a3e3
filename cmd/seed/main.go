// seed genera el script SQL con el catálogo de tipos de comprobante fiscal
// (códigos DGII, serie B) y una empresa demo con sus secuencias NCF iniciales,
// lista para probar la asignación de números.
//
// Uso: go run ./cmd/seed [RNC] [razón social]
// Escribe: internal/infrastructure/postgres/migrations/002_seed_demo.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Catálogo DGII de comprobantes que el sistema emite (Norma General 06-2018).
var tiposComprobante = []struct {
	code, name string
}{
	{"01", "Factura de Crédito Fiscal"},
	{"02", "Factura de Consumo"},
	{"03", "Nota de Débito"},
	{"04", "Nota de Crédito"},
	{"14", "Régimen Especial"},
	{"15", "Comprobante Gubernamental"},
}

func main() {
	rnc := "101000001"
	razonSocial := "Empresa Demo SRL"
	if len(os.Args) > 1 {
		rnc = os.Args[1]
	}
	if len(os.Args) > 2 {
		razonSocial = strings.Join(os.Args[2:], " ")
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_demo.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	companyID := uuid.NewString()

	out.WriteString("-- Empresa demo + catálogo de comprobantes DGII + secuencias NCF iniciales\n")
	out.WriteString("-- Generado por cmd/seed\n\n")

	fmt.Fprintf(out, "-- 1. Empresa\nINSERT INTO companies (id, name, rnc, status) VALUES\n")
	fmt.Fprintf(out, "  ('%s', '%s', '%s', 'active')\nON CONFLICT (rnc) DO NOTHING;\n\n",
		companyID, escapeSQL(razonSocial), escapeSQL(rnc))

	out.WriteString("-- 2. Tipos de comprobante (serie B, comprobantes físicos)\n")
	out.WriteString("INSERT INTO document_types (id, company_id, code, name, prefix) VALUES\n")
	typeIDs := make(map[string]string, len(tiposComprobante))
	for i, t := range tiposComprobante {
		id := uuid.NewString()
		typeIDs[t.code] = id
		sep := ","
		if i == len(tiposComprobante)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  ('%s', '%s', '%s', '%s', 'B')%s\n",
			id, companyID, t.code, escapeSQL(t.name), sep)
	}
	out.WriteString("ON CONFLICT (company_id, code) DO NOTHING;\n\n")

	// Secuencias iniciales solo para los tipos de uso diario. Las notas de
	// crédito y débito se autorizan cuando la empresa las solicita a la DGII.
	out.WriteString("-- 3. Secuencias NCF autorizadas (vigencia al cierre del año)\n")
	out.WriteString("INSERT INTO sequence_ranges\n")
	out.WriteString("  (id, company_id, document_type_id, description, range_start, range_end, current, expires_on, low_watermark, active) VALUES\n")
	secuencias := []struct {
		code       string
		desc       string
		start, end int64
		watermark  int64
	}{
		{"01", "Autorización inicial crédito fiscal", 1, 5000, 250},
		{"02", "Autorización inicial consumo", 1, 50000, 1000},
	}
	for i, s := range secuencias {
		sep := ","
		if i == len(secuencias)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  ('%s', '%s', '%s', '%s', %d, %d, 0, date_trunc('year', now()) + interval '1 year' - interval '1 day', %d, true)%s\n",
			uuid.NewString(), companyID, typeIDs[s.code], escapeSQL(s.desc),
			s.start, s.end, s.watermark, sep)
	}
	out.WriteString("ON CONFLICT (company_id, document_type_id, range_start) DO NOTHING;\n")

	fmt.Printf("Generado %s: empresa %s (RNC %s), %d tipos, %d secuencias\n",
		outPath, razonSocial, rnc, len(tiposComprobante), len(secuencias))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
