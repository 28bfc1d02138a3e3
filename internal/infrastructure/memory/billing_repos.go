package memory

import (
	"sort"
	"time"

	"github.com/rcabrera/facturacion-rd/internal/domain"
	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
	"github.com/rcabrera/facturacion-rd/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)
var _ repository.CustomerRepository = (*CustomerRepo)(nil)
var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// CompanyRepo implementa CompanyRepository sobre el Store.
type CompanyRepo struct {
	s *Store
}

// NewCompanyRepository construye el repositorio.
func NewCompanyRepository(s *Store) *CompanyRepo { return &CompanyRepo{s: s} }

func (r *CompanyRepo) Create(c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.companies {
		if existing.RNC == c.RNC {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.companies[c.ID] = &cp
	return nil
}

func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CompanyRepo) GetByRNC(rnc string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.companies {
		if c.RNC == rnc {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Company
	for _, c := range r.s.companies {
		cp := *c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return paginate(list, limit, offset), nil
}

// CustomerRepo implementa CustomerRepository sobre el Store.
type CustomerRepo struct {
	s *Store
}

// NewCustomerRepository construye el repositorio.
func NewCustomerRepository(s *Store) *CustomerRepo { return &CustomerRepo{s: s} }

func (r *CustomerRepo) Create(c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.customers {
		if existing.CompanyID == c.CompanyID && existing.TaxID == c.TaxID {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CustomerRepo) GetByTaxID(companyID, taxID string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.customers {
		if c.CompanyID == companyID && c.TaxID == taxID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Customer
	for _, c := range r.s.customers {
		if c.CompanyID == companyID {
			cp := *c
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return paginate(list, limit, offset), nil
}

// InvoiceRepo implementa InvoiceRepository sobre el Store. Dentro de una
// transacción (tx != nil) las escrituras se acumulan y se aplican al commit,
// de modo que un rollback no deja factura a medias.
type InvoiceRepo struct {
	s  *Store
	tx *billingTx
}

// NewInvoiceRepository construye el repositorio (sin transacción).
func NewInvoiceRepository(s *Store) *InvoiceRepo { return &InvoiceRepo{s: s} }

func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	if r.tx != nil {
		cp := *inv
		r.tx.invoices = append(r.tx.invoices, &cp)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.insertInvoice(inv)
}

func (r *InvoiceRepo) CreateDetail(d *entity.InvoiceDetail) error {
	if r.tx != nil {
		cp := *d
		r.tx.details = append(r.tx.details, &cp)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.details[d.InvoiceID] = append(r.s.details[d.InvoiceID], d)
	return nil
}

func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *InvoiceRepo) GetByNCF(companyID, ncf string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, inv := range r.s.invoices {
		if inv.CompanyID == companyID && inv.NCF == ncf {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *InvoiceRepo) GetDetailsByInvoiceID(invoiceID string) ([]*entity.InvoiceDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.InvoiceDetail
	for _, d := range r.s.details[invoiceID] {
		cp := *d
		list = append(list, &cp)
	}
	return list, nil
}

func (r *InvoiceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.CompanyID == companyID {
			cp := *inv
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return paginate(list, limit, offset), nil
}

func (r *InvoiceRepo) ListByCompanyAndPeriod(companyID string, from, to time.Time) ([]*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.CompanyID != companyID {
			continue
		}
		if inv.Date.Before(from) || !inv.Date.Before(to) {
			continue
		}
		cp := *inv
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].NCF < list[j].NCF })
	return list, nil
}

// insertInvoice se llama con store.mu tomado. El NCF es único por empresa.
func (s *Store) insertInvoice(inv *entity.Invoice) error {
	for _, existing := range s.invoices {
		if existing.CompanyID == inv.CompanyID && existing.NCF == inv.NCF {
			return domain.ErrDuplicate
		}
	}
	cp := *inv
	s.invoices[inv.ID] = &cp
	return nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
