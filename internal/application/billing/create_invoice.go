package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rcabrera/facturacion-rd/internal/application/dto"
	"github.com/rcabrera/facturacion-rd/internal/application/fiscal"
	"github.com/rcabrera/facturacion-rd/internal/domain"
	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
	"github.com/rcabrera/facturacion-rd/internal/domain/ncf"
	"github.com/rcabrera/facturacion-rd/internal/domain/repository"
)

// Tasas ITBIS vigentes (República Dominicana): 18% general, 16% reducida,
// 0% exento.
var tasasITBIS = []decimal.Decimal{
	decimal.Zero,
	decimal.NewFromFloat(0.16),
	decimal.NewFromFloat(0.18),
}

// CreateInvoiceUseCase crea una factura y le asigna su NCF en una sola
// transacción. Si la asignación falla (secuencia agotada, vencida o
// inactiva) la factura completa se revierte: no existe factura sin NCF ni
// NCF sin factura.
type CreateInvoiceUseCase struct {
	txRunner     BillingTxRunner
	registry     *fiscal.Registry
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	txRunner BillingTxRunner,
	registry *fiscal.Registry,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:     txRunner,
		registry:     registry,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// CreateInvoice valida la entrada, resuelve la secuencia activa para el tipo
// de comprobante solicitado y, dentro de la transacción, asigna el NCF y
// persiste cabecera y detalles. Devuelve además el resultado de la
// asignación para que el caller pueda alertar si la secuencia está por
// agotarse.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, *fiscal.Allocation, error) {
	if in.CustomerID == "" || len(in.Items) == 0 || !ncf.IsKnownType(in.NCFTypeCode) {
		return nil, nil, domain.ErrInvalidInput
	}

	// Validar cliente y que sea de la empresa
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil || customer == nil {
		return nil, nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, nil, domain.ErrForbidden
	}

	// Validar líneas y normalizar tasas (se acepta 18 o 0.18)
	items := make([]dto.InvoiceItemRequest, len(in.Items))
	for i, item := range in.Items {
		if item.Description == "" || !item.Quantity.GreaterThan(decimal.Zero) || item.UnitPrice.LessThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
		item.TaxRate = normalizarTasa(item.TaxRate)
		if !esTasaITBIS(item.TaxRate) {
			return nil, nil, domain.ErrInvalidInput
		}
		items[i] = item
	}

	// Consulta orientativa fuera de la transacción: sin secuencia utilizable
	// se falla temprano con un mensaje claro. El asignador revalida todo
	// bajo lock dentro de la transacción.
	activeRange, _, err := uc.registry.ResolveActiveRange(ctx, companyID, in.NCFTypeCode)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	invoiceID := uuid.New().String()
	var inv *entity.Invoice
	var details []*entity.InvoiceDetail
	var alloc *fiscal.Allocation

	err = uc.txRunner.RunBilling(ctx, func(
		rangeRepo repository.SequenceRangeRepository,
		docTypeRepo repository.DocumentTypeRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		// 1) NCF dentro de la transacción: el lock de la secuencia se
		// libera con el commit/rollback de esta misma transacción.
		a, err := fiscal.AllocateNextInTx(ctx, rangeRepo, docTypeRepo, companyID, activeRange.ID, now)
		if err != nil {
			return err
		}
		alloc = a

		// 2) Totales con decimal (nunca float para dinero)
		var netTotal, taxTotal decimal.Decimal
		for _, item := range items {
			subtotal := item.Quantity.Mul(item.UnitPrice)
			netTotal = netTotal.Add(subtotal)
			taxTotal = taxTotal.Add(subtotal.Mul(item.TaxRate))
		}

		// 3) Cabecera y detalles
		inv = &entity.Invoice{
			ID:          invoiceID,
			CompanyID:   companyID,
			CustomerID:  in.CustomerID,
			NCF:         a.NCF,
			NCFTypeCode: in.NCFTypeCode,
			Date:        now,
			NetTotal:    netTotal,
			TaxTotal:    taxTotal,
			GrandTotal:  netTotal.Add(taxTotal),
			Status:      entity.InvoiceStatusIssued,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, item := range items {
			detail := &entity.InvoiceDetail{
				ID:          uuid.New().String(),
				InvoiceID:   inv.ID,
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				TaxRate:     item.TaxRate,
				Subtotal:    item.Quantity.Mul(item.UnitPrice),
			}
			if err := invoiceRepo.CreateDetail(detail); err != nil {
				return err
			}
			details = append(details, detail)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return uc.toResponse(inv, customer.Name, details), alloc, nil
}

// GetInvoice obtiene una factura por ID con su detalle completo.
func (uc *CreateInvoiceUseCase) GetInvoice(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	details, err := uc.invoiceRepo.GetDetailsByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	customer, _ := uc.customerRepo.GetByID(inv.CustomerID)
	customerName := ""
	if customer != nil {
		customerName = customer.Name
	}
	return uc.toResponse(inv, customerName, details), nil
}

// ListInvoices lista facturas de la empresa (sin detalle).
func (uc *CreateInvoiceUseCase) ListInvoices(ctx context.Context, companyID string, limit, offset int) ([]*dto.InvoiceResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.invoiceRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, uc.toResponse(inv, "", nil))
	}
	return out, nil
}

func (uc *CreateInvoiceUseCase) toResponse(inv *entity.Invoice, customerName string, details []*entity.InvoiceDetail) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:           inv.ID,
		CompanyID:    inv.CompanyID,
		CustomerID:   inv.CustomerID,
		CustomerName: customerName,
		NCF:          inv.NCF,
		NCFTypeCode:  inv.NCFTypeCode,
		Date:         inv.Date.Format("2006-01-02"),
		NetTotal:     inv.NetTotal,
		TaxTotal:     inv.TaxTotal,
		GrandTotal:   inv.GrandTotal,
		Status:       inv.Status,
		Details:      make([]dto.InvoiceDetailResponse, 0, len(details)),
	}
	for _, d := range details {
		resp.Details = append(resp.Details, dto.InvoiceDetailResponse{
			ID:          d.ID,
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			TaxRate:     d.TaxRate,
			Subtotal:    d.Subtotal,
		})
	}
	return resp
}

// normalizarTasa acepta la tasa como porcentaje (18) o fracción (0.18).
func normalizarTasa(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(decimal.NewFromInt(100))
	}
	return rate
}

func esTasaITBIS(rate decimal.Decimal) bool {
	for _, t := range tasasITBIS {
		if rate.Equal(t) {
			return true
		}
	}
	return false
}
