// Package memory implementa los puertos fiscales sobre mapas en memoria.
// Sustituye a PostgreSQL en tests y en modo demo: el lock de fila
// (SELECT ... FOR UPDATE) se traduce a un mutex por secuencia, con lo que la
// serialización de asignaciones concurrentes es la misma que en la base de
// datos real.
package memory

import (
	"sync"

	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
)

// Store estado compartido del adaptador. Las escrituras del contador pasan
// siempre por una transacción (TxRunner) que toma el mutex de la secuencia.
type Store struct {
	mu        sync.RWMutex
	ranges    map[string]*entity.SequenceRange
	docTypes  map[string]*entity.DocumentType
	companies map[string]*entity.Company
	customers map[string]*entity.Customer
	invoices  map[string]*entity.Invoice
	details   map[string][]*entity.InvoiceDetail // por invoice ID

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex // un mutex por secuencia, creado on demand
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		ranges:    make(map[string]*entity.SequenceRange),
		docTypes:  make(map[string]*entity.DocumentType),
		companies: make(map[string]*entity.Company),
		customers: make(map[string]*entity.Customer),
		invoices:  make(map[string]*entity.Invoice),
		details:   make(map[string][]*entity.InvoiceDetail),
		locks:     make(map[string]*sync.Mutex),
	}
}

// rangeLock devuelve el mutex de la secuencia, creándolo si no existe.
func (s *Store) rangeLock(id string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	return m
}

func cloneRange(r *entity.SequenceRange) *entity.SequenceRange {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

func cloneDocType(dt *entity.DocumentType) *entity.DocumentType {
	if dt == nil {
		return nil
	}
	c := *dt
	return &c
}
