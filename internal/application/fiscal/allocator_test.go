package fiscal_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcabrera/facturacion-rd/internal/application/fiscal"
	"github.com/rcabrera/facturacion-rd/internal/domain"
	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
	"github.com/rcabrera/facturacion-rd/internal/domain/ncf"
	"github.com/rcabrera/facturacion-rd/internal/infrastructure/memory"
)

const (
	testCompanyID = "00000000-0000-0000-0000-0000000000aa"
	otraEmpresaID = "00000000-0000-0000-0000-0000000000bb"
	testDocTypeID = "dt-credito-fiscal"
)

// vence lejos en el futuro; los tests de vencimiento usan fechas pasadas.
var vigenciaLejana = time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)

type fixture struct {
	store     *memory.Store
	allocator *fiscal.Allocator
	ranges    *memory.SequenceRangeRepo
}

// nuevaFixture arma un store con el tipo "01" serie "B" y la secuencia dada.
func nuevaFixture(t *testing.T, r *entity.SequenceRange) *fixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	docTypes := memory.NewDocumentTypeRepository(store)
	require.NoError(t, docTypes.Create(ctx, &entity.DocumentType{
		ID:        testDocTypeID,
		CompanyID: testCompanyID,
		Code:      ncf.TipoCreditoFiscal,
		Name:      "Factura de Crédito Fiscal",
		Prefix:    "B",
	}))

	rangeRepo := memory.NewSequenceRangeRepository(store)
	if r != nil {
		require.NoError(t, rangeRepo.Create(ctx, r))
	}

	return &fixture{
		store:     store,
		allocator: fiscal.NewAllocator(memory.NewTxRunner(store)),
		ranges:    rangeRepo,
	}
}

func secuencia(id string, start, end, current int64) *entity.SequenceRange {
	return &entity.SequenceRange{
		ID:             id,
		CompanyID:      testCompanyID,
		DocumentTypeID: testDocTypeID,
		RangeStart:     start,
		RangeEnd:       end,
		Current:        current,
		ExpiresOn:      vigenciaLejana,
		Active:         true,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Unicidad bajo concurrencia: N asignaciones concurrentes sobre la misma
// secuencia producen N números distintos y contiguos, sin huecos ni
// duplicados. Es la propiedad que el fisco exige y la que una reescritura
// descuidada rompería en silencio.
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocateNext_UnicidadConcurrente(t *testing.T) {
	const n = 50
	fx := nuevaFixture(t, secuencia("rng-1", 1, 100, 0))
	ctx := context.Background()

	results := make(chan int64, n)
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			alloc, err := fx.allocator.AllocateNext(ctx, testCompanyID, "rng-1")
			if err != nil {
				errs <- err
				return
			}
			results <- alloc.Sequence
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("asignación concurrente falló: %v", err)
	}

	var seqs []int64
	for s := range results {
		seqs = append(seqs, s)
	}
	require.Len(t, seqs, n)

	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })
	for i, s := range seqs {
		assert.Equal(t, int64(i+1), s, "la secuencia debe ser exactamente {1..%d}, sin huecos ni duplicados", n)
	}

	final, err := fx.ranges.GetByID(ctx, "rng-1")
	require.NoError(t, err)
	assert.Equal(t, int64(n), final.Current, "current refleja el total de asignaciones exitosas")
}

func TestAllocateNext_RangosDistintosNoSeInterfieren(t *testing.T) {
	fx := nuevaFixture(t, secuencia("rng-a", 1, 100, 0))
	ctx := context.Background()
	require.NoError(t, fx.ranges.Create(ctx, secuencia("rng-b", 1, 100, 0)))

	const porRango = 20
	var wg sync.WaitGroup
	for i := 0; i < porRango; i++ {
		for _, id := range []string{"rng-a", "rng-b"} {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := fx.allocator.AllocateNext(ctx, testCompanyID, id)
				assert.NoError(t, err)
			}(id)
		}
	}
	wg.Wait()

	for _, id := range []string{"rng-a", "rng-b"} {
		r, err := fx.ranges.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(porRango), r.Current)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Monotonía y primer número
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocateNext_Monotonia(t *testing.T) {
	fx := nuevaFixture(t, secuencia("rng-1", 1, 100, 5))
	ctx := context.Background()

	alloc, err := fx.allocator.AllocateNext(ctx, testCompanyID, "rng-1")
	require.NoError(t, err)
	assert.Equal(t, int64(6), alloc.Sequence, "con current=5 la siguiente asignación es 6")
	assert.Equal(t, "B0100000006", alloc.NCF)

	// Cada asignación posterior incrementa exactamente en 1.
	prev := alloc.Sequence
	for i := 0; i < 5; i++ {
		alloc, err = fx.allocator.AllocateNext(ctx, testCompanyID, "rng-1")
		require.NoError(t, err)
		assert.Equal(t, prev+1, alloc.Sequence)
		prev = alloc.Sequence
	}
}

func TestAllocateNext_PrimerNumeroEsRangeStart(t *testing.T) {
	// Bloque autorizado que no arranca en 1: el primer NCF usa range_start.
	fx := nuevaFixture(t, secuencia("rng-1", 60, 100, 0))

	alloc, err := fx.allocator.AllocateNext(context.Background(), testCompanyID, "rng-1")
	require.NoError(t, err)
	assert.Equal(t, int64(60), alloc.Sequence)
	assert.Equal(t, "B0100000060", alloc.NCF)
}

// ──────────────────────────────────────────────────────────────────────────────
// Precondiciones: cada una falla con su error propio y sin tocar current.
// Las fallas son idempotentes: repetir la llamada produce el mismo error.
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocateNext_Agotada(t *testing.T) {
	fx := nuevaFixture(t, secuencia("rng-1", 1, 10, 10))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := fx.allocator.AllocateNext(ctx, testCompanyID, "rng-1")
		assert.ErrorIs(t, err, domain.ErrRangeExhausted)

		r, err := fx.ranges.GetByID(ctx, "rng-1")
		require.NoError(t, err)
		assert.Equal(t, int64(10), r.Current, "el fallo no toca el contador")
	}
}

func TestAllocateNext_Inactiva(t *testing.T) {
	r := secuencia("rng-1", 1, 100, 3)
	r.Active = false
	fx := nuevaFixture(t, r)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := fx.allocator.AllocateNext(ctx, testCompanyID, "rng-1")
		assert.ErrorIs(t, err, domain.ErrRangeInactive)

		got, err := fx.ranges.GetByID(ctx, "rng-1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.Current)
	}
}

func TestAllocateNext_Vencida(t *testing.T) {
	r := secuencia("rng-1", 1, 100, 3)
	r.ExpiresOn = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	fx := nuevaFixture(t, r)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := fx.allocator.AllocateNext(ctx, testCompanyID, "rng-1")
		assert.ErrorIs(t, err, domain.ErrRangeExpired)

		got, err := fx.ranges.GetByID(ctx, "rng-1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.Current)
	}
}

func TestAllocateNext_NoEncontrada(t *testing.T) {
	fx := nuevaFixture(t, nil)
	_, err := fx.allocator.AllocateNext(context.Background(), testCompanyID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAllocateNext_OtraEmpresaEsNoEncontrada(t *testing.T) {
	fx := nuevaFixture(t, secuencia("rng-1", 1, 100, 0))
	_, err := fx.allocator.AllocateNext(context.Background(), otraEmpresaID, "rng-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Umbral de alerta y borde de agotamiento
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocateNext_UltimoNumeroYAlerta(t *testing.T) {
	r := secuencia("rng-1", 1, 10, 8)
	r.LowWatermark = 2
	fx := nuevaFixture(t, r)
	ctx := context.Background()

	// 9: queda 1, por debajo del umbral.
	alloc, err := fx.allocator.AllocateNext(ctx, testCompanyID, "rng-1")
	require.NoError(t, err)
	assert.Equal(t, int64(9), alloc.Sequence)
	assert.Equal(t, int64(1), alloc.Remaining)
	assert.True(t, alloc.RunningLow)

	// 10: el último número del bloque se emite normalmente.
	alloc, err = fx.allocator.AllocateNext(ctx, testCompanyID, "rng-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), alloc.Sequence)
	assert.Equal(t, int64(0), alloc.Remaining)

	// 11 ya no existe.
	_, err = fx.allocator.AllocateNext(ctx, testCompanyID, "rng-1")
	assert.ErrorIs(t, err, domain.ErrRangeExhausted)
}

// TestAllocateNext_RoundTrip: el NCF emitido se puede descomponer y recuperar
// el entero exacto asignado (lo necesitan los reportes 606/607 y auditoría).
func TestAllocateNext_RoundTrip(t *testing.T) {
	fx := nuevaFixture(t, secuencia("rng-1", 1, 100, 41))

	alloc, err := fx.allocator.AllocateNext(context.Background(), testCompanyID, "rng-1")
	require.NoError(t, err)

	serie, tipo, n, err := ncf.Parse(alloc.NCF)
	require.NoError(t, err)
	assert.Equal(t, "B", serie)
	assert.Equal(t, ncf.TipoCreditoFiscal, tipo)
	assert.Equal(t, alloc.Sequence, n)
}
