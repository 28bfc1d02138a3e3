package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcabrera/facturacion-rd/internal/application/billing"
	"github.com/rcabrera/facturacion-rd/internal/application/fiscal"
	"github.com/rcabrera/facturacion-rd/internal/domain/repository"
)

var (
	_ fiscal.FiscalTxRunner   = (*TxRunner)(nil)
	_ billing.BillingTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. El lock de
// fila de GetByIDForUpdate vive exactamente lo que vive la transacción.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunFiscal inicia una transacción, ejecuta fn con los repos fiscales atados
// a la tx y hace Commit o Rollback.
func (r *TxRunner) RunFiscal(ctx context.Context, fn func(
	rangeRepo repository.SequenceRangeRepository,
	docTypeRepo repository.DocumentTypeRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewSequenceRangeRepository(tx), NewDocumentTypeRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunBilling inicia una transacción con repos fiscales y de facturación
// (para CreateInvoice: el NCF y la factura se confirman juntos o ninguno).
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	rangeRepo repository.SequenceRangeRepository,
	docTypeRepo repository.DocumentTypeRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewSequenceRangeRepository(tx), NewDocumentTypeRepository(tx), NewInvoiceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
