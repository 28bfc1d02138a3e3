package reports_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcabrera/facturacion-rd/internal/application/reports"
	"github.com/rcabrera/facturacion-rd/internal/domain"
	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
	"github.com/rcabrera/facturacion-rd/internal/infrastructure/memory"
)

const empresaID = "co-607"

func fixture607(t *testing.T) (*reports.Report607UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	companyRepo := memory.NewCompanyRepository(store)
	customerRepo := memory.NewCustomerRepository(store)
	invoiceRepo := memory.NewInvoiceRepository(store)

	require.NoError(t, companyRepo.Create(&entity.Company{
		ID: empresaID, Name: "Ferretería El Progreso", RNC: "101000001", Status: "active",
	}))
	require.NoError(t, customerRepo.Create(&entity.Customer{
		ID: "cli-rnc", CompanyID: empresaID, Name: "Constructora Ramírez & Asociados", TaxID: "131000002",
	}))
	require.NoError(t, customerRepo.Create(&entity.Customer{
		ID: "cli-ced", CompanyID: empresaID, Name: "María Peña", TaxID: "00112345678",
	}))

	return reports.NewReport607UseCase(companyRepo, customerRepo, invoiceRepo), store
}

func factura(store *memory.Store, id, customerID, ncfStr, status string, fecha time.Time, neto, itbis int64) error {
	repo := memory.NewInvoiceRepository(store)
	return repo.Create(&entity.Invoice{
		ID: id, CompanyID: empresaID, CustomerID: customerID,
		NCF: ncfStr, NCFTypeCode: "01", Date: fecha, Status: status,
		NetTotal:   decimal.NewFromInt(neto),
		TaxTotal:   decimal.NewFromInt(itbis),
		GrandTotal: decimal.NewFromInt(neto + itbis),
	})
}

func TestReport607_Generate(t *testing.T) {
	uc, store := fixture607(t)
	marzo := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	require.NoError(t, factura(store, "f1", "cli-rnc", "B0100000001", entity.InvoiceStatusIssued, marzo, 3000, 540))
	require.NoError(t, factura(store, "f2", "cli-ced", "B0100000002", entity.InvoiceStatusIssued, marzo.AddDate(0, 0, 5), 1000, 180))
	// Fuera del período y anulada: ninguna debe aparecer.
	require.NoError(t, factura(store, "f3", "cli-rnc", "B0100000003", entity.InvoiceStatusIssued, marzo.AddDate(0, 1, 0), 500, 90))
	require.NoError(t, factura(store, "f4", "cli-ced", "B0100000004", entity.InvoiceStatusVoided, marzo, 200, 36))

	contenido, nombre, err := uc.Generate(empresaID, "202603")
	require.NoError(t, err)

	assert.Equal(t, "DGII_F_607_101000001_202603.txt", nombre)

	quiere := strings.Join([]string{
		"607|101000001|202603|2",
		"131000002|1|CONSTRUCTORA RAMIREZ & ASOCIADOS|B0100000001|20260310|3540.00|540.00",
		"00112345678|2|MARIA PENA|B0100000002|20260315|1180.00|180.00",
		"",
	}, "\n")
	assert.Equal(t, quiere, string(contenido), "el 607 debe ser estable byte a byte")

	// Misma entrada, misma salida.
	otra, _, err := uc.Generate(empresaID, "202603")
	require.NoError(t, err)
	assert.Equal(t, contenido, otra)
}

func TestReport607_PeriodoSinVentas(t *testing.T) {
	uc, _ := fixture607(t)

	contenido, _, err := uc.Generate(empresaID, "202601")
	require.NoError(t, err)
	assert.Equal(t, "607|101000001|202601|0\n", string(contenido))
}

func TestReport607_PeriodoInvalido(t *testing.T) {
	uc, _ := fixture607(t)

	for _, period := range []string{"", "2026", "202613", "26-03", "marzo"} {
		_, _, err := uc.Generate(empresaID, period)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "period %q", period)
	}
}

func TestReport607_EmpresaInexistente(t *testing.T) {
	uc, _ := fixture607(t)

	_, _, err := uc.Generate("no-existe", "202603")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReport607_Summary(t *testing.T) {
	uc, store := fixture607(t)
	marzo := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, factura(store, "f1", "cli-rnc", "B0100000001", entity.InvoiceStatusIssued, marzo, 3000, 540))
	require.NoError(t, factura(store, "f2", "cli-ced", "B0100000002", entity.InvoiceStatusVoided, marzo, 1000, 180))

	s, err := uc.Summary(empresaID, "202603")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count)
	assert.True(t, s.GrandTotal.Equal(decimal.NewFromInt(3540)))
	assert.True(t, s.TaxTotal.Equal(decimal.NewFromInt(540)))
}

func TestNormalizarNombre(t *testing.T) {
	cases := []struct{ in, want string }{
		{"José Pérez", "JOSE PEREZ"},
		{"ñandú & cía", "NANDU & CIA"},
		{"  Acme, S.R.L.  ", "ACME, S.R.L."},
		{"Müller Año 2026", "MULLER ANO 2026"},
		{"Peña\tComercial", "PENACOMERCIAL"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, reports.NormalizarNombre(tc.in), "entrada %q", tc.in)
	}
}
