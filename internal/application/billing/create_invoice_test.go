package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcabrera/facturacion-rd/internal/application/billing"
	"github.com/rcabrera/facturacion-rd/internal/application/dto"
	"github.com/rcabrera/facturacion-rd/internal/application/fiscal"
	"github.com/rcabrera/facturacion-rd/internal/domain"
	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
	"github.com/rcabrera/facturacion-rd/internal/domain/ncf"
	"github.com/rcabrera/facturacion-rd/internal/infrastructure/memory"
)

const (
	empresaID = "00000000-0000-0000-0000-0000000000aa"
	clienteID = "00000000-0000-0000-0000-0000000000cc"
	docTypeID = "dt-01"
	rangoID   = "rng-01"
)

type billingFixture struct {
	store       *memory.Store
	uc          *billing.CreateInvoiceUseCase
	invoiceRepo *memory.InvoiceRepo
	rangeRepo   *memory.SequenceRangeRepo
}

// nuevaFacturacion arma empresa, cliente, tipo "01"/serie "B" y una secuencia
// con los límites dados.
func nuevaFacturacion(t *testing.T, rangeStart, rangeEnd, current int64) *billingFixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, memory.NewCompanyRepository(store).Create(&entity.Company{
		ID: empresaID, Name: "Comercial Duarte SRL", RNC: "131246789", Status: "active",
	}))
	customerRepo := memory.NewCustomerRepository(store)
	require.NoError(t, customerRepo.Create(&entity.Customer{
		ID: clienteID, CompanyID: empresaID, Name: "José Pérez", TaxID: "00112345678",
	}))
	docTypes := memory.NewDocumentTypeRepository(store)
	require.NoError(t, docTypes.Create(ctx, &entity.DocumentType{
		ID: docTypeID, CompanyID: empresaID, Code: ncf.TipoCreditoFiscal,
		Name: "Factura de Crédito Fiscal", Prefix: "B",
	}))
	rangeRepo := memory.NewSequenceRangeRepository(store)
	require.NoError(t, rangeRepo.Create(ctx, &entity.SequenceRange{
		ID: rangoID, CompanyID: empresaID, DocumentTypeID: docTypeID,
		RangeStart: rangeStart, RangeEnd: rangeEnd, Current: current,
		ExpiresOn: time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC), Active: true,
	}))

	registry := fiscal.NewRegistry(docTypes, rangeRepo)
	invoiceRepo := memory.NewInvoiceRepository(store)
	uc := billing.NewCreateInvoiceUseCase(memory.NewTxRunner(store), registry, customerRepo, invoiceRepo)

	return &billingFixture{store: store, uc: uc, invoiceRepo: invoiceRepo, rangeRepo: rangeRepo}
}

func facturaValida() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		CustomerID:  clienteID,
		NCFTypeCode: ncf.TipoCreditoFiscal,
		Items: []dto.InvoiceItemRequest{
			{Description: "Servicio de instalación", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(1500), TaxRate: decimal.NewFromFloat(0.18)},
			{Description: "Material exento", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(500), TaxRate: decimal.Zero},
		},
	}
}

func TestCreateInvoice_AsignaNCFYTotales(t *testing.T) {
	fx := nuevaFacturacion(t, 1, 100, 0)

	resp, alloc, err := fx.uc.CreateInvoice(context.Background(), empresaID, facturaValida())
	require.NoError(t, err)
	require.NotNil(t, alloc)

	assert.Equal(t, "B0100000001", resp.NCF, "primera factura usa el primer número del bloque")
	assert.Equal(t, int64(1), alloc.Sequence)

	// 2×1500 + 500 = 3500 neto; ITBIS 18% solo sobre 3000 = 540.
	assert.True(t, resp.NetTotal.Equal(decimal.NewFromInt(3500)), "neto: %s", resp.NetTotal)
	assert.True(t, resp.TaxTotal.Equal(decimal.NewFromInt(540)), "ITBIS: %s", resp.TaxTotal)
	assert.True(t, resp.GrandTotal.Equal(decimal.NewFromInt(4040)), "total: %s", resp.GrandTotal)

	// La factura quedó persistida con su NCF.
	inv, err := fx.invoiceRepo.GetByNCF(empresaID, "B0100000001")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, entity.InvoiceStatusIssued, inv.Status)

	details, err := fx.invoiceRepo.GetDetailsByInvoiceID(inv.ID)
	require.NoError(t, err)
	assert.Len(t, details, 2)
}

func TestCreateInvoice_NCFsConsecutivos(t *testing.T) {
	fx := nuevaFacturacion(t, 1, 100, 0)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		resp, _, err := fx.uc.CreateInvoice(ctx, empresaID, facturaValida())
		require.NoError(t, err)
		want, _ := ncf.FormatNumber("B", "01", int64(i))
		assert.Equal(t, want, resp.NCF)
	}
}

// Si la secuencia está agotada no debe quedar ni factura ni avance de
// contador: factura y NCF se persisten juntos o no se persiste nada.
func TestCreateInvoice_SecuenciaAgotadaRevierteTodo(t *testing.T) {
	fx := nuevaFacturacion(t, 1, 10, 10)
	ctx := context.Background()

	_, _, err := fx.uc.CreateInvoice(ctx, empresaID, facturaValida())
	assert.ErrorIs(t, err, domain.ErrNotFound, "el registry no encuentra secuencia utilizable")

	facturas, err := fx.invoiceRepo.ListByCompany(empresaID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, facturas, "no debe existir factura sin NCF")

	r, err := fx.rangeRepo.GetByID(ctx, rangoID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), r.Current)
}

func TestCreateInvoice_ValidaEntrada(t *testing.T) {
	fx := nuevaFacturacion(t, 1, 100, 0)
	ctx := context.Background()

	cases := []struct {
		name   string
		mut    func(*dto.CreateInvoiceRequest)
		wantEr error
	}{
		{"sin items", func(r *dto.CreateInvoiceRequest) { r.Items = nil }, domain.ErrInvalidInput},
		{"tipo desconocido", func(r *dto.CreateInvoiceRequest) { r.NCFTypeCode = "99" }, domain.ErrInvalidInput},
		{"cantidad cero", func(r *dto.CreateInvoiceRequest) { r.Items[0].Quantity = decimal.Zero }, domain.ErrInvalidInput},
		{"precio negativo", func(r *dto.CreateInvoiceRequest) { r.Items[0].UnitPrice = decimal.NewFromInt(-1) }, domain.ErrInvalidInput},
		{"tasa ITBIS inexistente", func(r *dto.CreateInvoiceRequest) { r.Items[0].TaxRate = decimal.NewFromFloat(0.12) }, domain.ErrInvalidInput},
		{"cliente inexistente", func(r *dto.CreateInvoiceRequest) { r.CustomerID = "no-existe" }, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := facturaValida()
			tc.mut(&req)
			_, _, err := fx.uc.CreateInvoice(ctx, empresaID, req)
			assert.ErrorIs(t, err, tc.wantEr)
		})
	}

	// Ninguna validación fallida consumió NCF.
	r, err := fx.rangeRepo.GetByID(ctx, rangoID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), r.Current)
}

func TestCreateInvoice_TasaEnPorcentajeSeNormaliza(t *testing.T) {
	fx := nuevaFacturacion(t, 1, 100, 0)

	req := facturaValida()
	req.Items = []dto.InvoiceItemRequest{
		{Description: "Consultoría", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1000), TaxRate: decimal.NewFromInt(18)},
	}
	resp, _, err := fx.uc.CreateInvoice(context.Background(), empresaID, req)
	require.NoError(t, err)
	assert.True(t, resp.TaxTotal.Equal(decimal.NewFromInt(180)), "18 == 0.18: ITBIS %s", resp.TaxTotal)
}
