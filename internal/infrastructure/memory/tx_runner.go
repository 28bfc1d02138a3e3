package memory

import (
	"context"
	"sync"

	"github.com/rcabrera/facturacion-rd/internal/application/billing"
	"github.com/rcabrera/facturacion-rd/internal/application/fiscal"
	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
	"github.com/rcabrera/facturacion-rd/internal/domain/repository"
)

var _ fiscal.FiscalTxRunner = (*TxRunner)(nil)
var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner emula la transacción de PostgreSQL sobre el Store: los mutex de
// secuencia tomados por GetByIDForUpdate se liberan al terminar el callback,
// y si este retorna error se restauran las secuencias a su valor al momento
// del lock (rollback). Un fallo a mitad de asignación deja el contador
// exactamente como estaba.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// RunFiscal ejecuta fn con repos atados a la "transacción" en memoria.
func (t *TxRunner) RunFiscal(ctx context.Context, fn func(
	rangeRepo repository.SequenceRangeRepository,
	docTypeRepo repository.DocumentTypeRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &fiscalTx{s: t.s, snapshots: make(map[string]entity.SequenceRange)}
	defer tx.finish()

	rangeRepo := &SequenceRangeRepo{s: t.s, tx: tx}
	docTypeRepo := &DocumentTypeRepo{s: t.s}

	if err := fn(rangeRepo, docTypeRepo); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// RunBilling ejecuta fn con los repos fiscales y el de facturas atados a la
// misma "transacción": las escrituras de facturas se acumulan y se aplican
// solo si fn termina bien, y cualquier error revierte también el contador de
// la secuencia. Implementa billing.BillingTxRunner.
func (t *TxRunner) RunBilling(ctx context.Context, fn func(
	rangeRepo repository.SequenceRangeRepository,
	docTypeRepo repository.DocumentTypeRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &fiscalTx{s: t.s, snapshots: make(map[string]entity.SequenceRange)}
	defer tx.finish()
	btx := &billingTx{}

	rangeRepo := &SequenceRangeRepo{s: t.s, tx: tx}
	docTypeRepo := &DocumentTypeRepo{s: t.s}
	invoiceRepo := &InvoiceRepo{s: t.s, tx: btx}

	if err := fn(rangeRepo, docTypeRepo, invoiceRepo); err != nil {
		tx.rollback()
		return err
	}
	if err := btx.commit(t.s); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// billingTx escrituras de facturación pendientes de commit.
type billingTx struct {
	invoices []*entity.Invoice
	details  []*entity.InvoiceDetail
}

func (btx *billingTx) commit(s *Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range btx.invoices {
		if err := s.insertInvoice(inv); err != nil {
			return err
		}
	}
	for _, d := range btx.details {
		s.details[d.InvoiceID] = append(s.details[d.InvoiceID], d)
	}
	return nil
}

// fiscalTx locks tomados y snapshots para rollback de una transacción.
type fiscalTx struct {
	s         *Store
	locked    []*sync.Mutex
	lockedIDs map[string]bool
	snapshots map[string]entity.SequenceRange
}

// lockRange toma el mutex de la secuencia si esta transacción no lo tiene ya.
func (tx *fiscalTx) lockRange(id string) {
	if tx.lockedIDs == nil {
		tx.lockedIDs = make(map[string]bool)
	}
	if tx.lockedIDs[id] {
		return
	}
	m := tx.s.rangeLock(id)
	m.Lock()
	tx.locked = append(tx.locked, m)
	tx.lockedIDs[id] = true
}

// snapshot guarda el valor de la secuencia al momento del lock (se llama con
// store.mu tomado por el caller).
func (tx *fiscalTx) snapshot(r *entity.SequenceRange) {
	if _, ok := tx.snapshots[r.ID]; !ok {
		tx.snapshots[r.ID] = *r
	}
}

// rollback restaura las secuencias bloqueadas a su snapshot.
func (tx *fiscalTx) rollback() {
	tx.s.mu.Lock()
	defer tx.s.mu.Unlock()
	for id, snap := range tx.snapshots {
		restored := snap
		tx.s.ranges[id] = &restored
	}
}

// finish libera los locks en orden inverso al de adquisición.
func (tx *fiscalTx) finish() {
	for i := len(tx.locked) - 1; i >= 0; i-- {
		tx.locked[i].Unlock()
	}
	tx.locked = nil
}
