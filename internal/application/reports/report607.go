// Package reports genera los reportes fiscales exigidos por la DGII.
//
// Por ahora solo el 607 (ventas de bienes y servicios): un TXT delimitado
// por pipes, una línea por comprobante emitido en el período.
package reports

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/rcabrera/facturacion-rd/internal/application/dto"
	"github.com/rcabrera/facturacion-rd/internal/domain"
	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
	"github.com/rcabrera/facturacion-rd/internal/domain/repository"
)

// Tipos de identificación según el formato 607.
const (
	idTipoRNC    = "1" // RNC (9 dígitos)
	idTipoCedula = "2" // Cédula (11 dígitos)
)

// Report607UseCase arma el reporte de ventas 607 de una empresa y período.
type Report607UseCase struct {
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
}

// NewReport607UseCase construye el caso de uso del reporte 607.
func NewReport607UseCase(
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
) *Report607UseCase {
	return &Report607UseCase{
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// Generate produce el TXT del 607 para el período "YYYYMM". Devuelve el
// contenido, el nombre de archivo sugerido y error. Solo entran facturas
// emitidas; las anuladas no suman al período.
func (uc *Report607UseCase) Generate(companyID, period string) ([]byte, string, error) {
	from, to, err := parsePeriod(period)
	if err != nil {
		return nil, "", err
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, "", err
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}

	invoices, err := uc.invoiceRepo.ListByCompanyAndPeriod(companyID, from, to)
	if err != nil {
		return nil, "", err
	}

	// Cache de clientes: varias facturas suelen compartir cliente.
	clientes := make(map[string]*entity.Customer)

	var lineas []string
	for _, inv := range invoices {
		if inv.Status != entity.InvoiceStatusIssued {
			continue
		}
		c, ok := clientes[inv.CustomerID]
		if !ok {
			c, err = uc.customerRepo.GetByID(inv.CustomerID)
			if err != nil {
				return nil, "", err
			}
			clientes[inv.CustomerID] = c
		}
		taxID, tipoID, nombre := "", idTipoCedula, ""
		if c != nil {
			taxID = c.TaxID
			tipoID = tipoIdentificacion(c.TaxID)
			nombre = NormalizarNombre(c.Name)
		}
		lineas = append(lineas, strings.Join([]string{
			taxID,
			tipoID,
			nombre,
			inv.NCF,
			inv.Date.Format("20060102"),
			inv.GrandTotal.StringFixed(2),
			inv.TaxTotal.StringFixed(2),
		}, "|"))
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "607|%s|%s|%d\n", company.RNC, period, len(lineas))
	for _, l := range lineas {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}

	filename := fmt.Sprintf("DGII_F_607_%s_%s.txt", company.RNC, period)
	return buf.Bytes(), filename, nil
}

// Summary devuelve los totales del período sin generar el archivo.
func (uc *Report607UseCase) Summary(companyID, period string) (*dto.Report607Summary, error) {
	from, to, err := parsePeriod(period)
	if err != nil {
		return nil, err
	}
	invoices, err := uc.invoiceRepo.ListByCompanyAndPeriod(companyID, from, to)
	if err != nil {
		return nil, err
	}
	s := &dto.Report607Summary{Period: period}
	for _, inv := range invoices {
		if inv.Status != entity.InvoiceStatusIssued {
			continue
		}
		s.Count++
		s.GrandTotal = s.GrandTotal.Add(inv.GrandTotal)
		s.TaxTotal = s.TaxTotal.Add(inv.TaxTotal)
	}
	return s, nil
}

// parsePeriod valida "YYYYMM" y devuelve el intervalo [from, to).
func parsePeriod(period string) (time.Time, time.Time, error) {
	t, err := time.Parse("200601", period)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}

// tipoIdentificacion clasifica el documento por su largo: RNC 9 dígitos,
// cédula 11.
func tipoIdentificacion(taxID string) string {
	if len(taxID) == 9 {
		return idTipoRNC
	}
	return idTipoCedula
}

var sinDiacriticos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizarNombre deja el nombre en mayúsculas ASCII: quita diacríticos y
// descarta cualquier otro carácter fuera del rango imprimible.
func NormalizarNombre(s string) string {
	plano, _, err := transform.String(sinDiacriticos, s)
	if err != nil {
		plano = s
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(plano) {
		if r >= ' ' && r < 127 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
