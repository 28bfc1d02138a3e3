package fiscal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcabrera/facturacion-rd/internal/application/fiscal"
	"github.com/rcabrera/facturacion-rd/internal/domain"
	"github.com/rcabrera/facturacion-rd/internal/domain/ncf"
	"github.com/rcabrera/facturacion-rd/internal/infrastructure/memory"
)

func nuevoRegistry(fx *fixture) *fiscal.Registry {
	return fiscal.NewRegistry(
		memory.NewDocumentTypeRepository(fx.store),
		memory.NewSequenceRangeRepository(fx.store),
	)
}

func TestResolveActiveRange_Basico(t *testing.T) {
	fx := nuevaFixture(t, secuencia("rng-1", 1, 100, 10))
	reg := nuevoRegistry(fx)

	r, dt, err := reg.ResolveActiveRange(context.Background(), testCompanyID, ncf.TipoCreditoFiscal)
	require.NoError(t, err)
	assert.Equal(t, "rng-1", r.ID)
	assert.Equal(t, "B", dt.Prefix)
}

func TestResolveActiveRange_TipoDesconocido(t *testing.T) {
	fx := nuevaFixture(t, secuencia("rng-1", 1, 100, 0))
	reg := nuevoRegistry(fx)

	_, _, err := reg.ResolveActiveRange(context.Background(), testCompanyID, ncf.TipoConsumo)
	assert.ErrorIs(t, err, domain.ErrNotFound, "la empresa no tiene configurado el tipo 02")
}

// El desempate ante varias secuencias activas para el mismo (empresa, tipo)
// — un estado de misconfiguración administrativa — es determinista: gana la
// de menor range_start, nunca el orden incidental de la consulta.
func TestResolveActiveRange_DesempatePorMenorRangeStart(t *testing.T) {
	fx := nuevaFixture(t, secuencia("rng-alto", 500, 900, 0))
	ctx := context.Background()
	require.NoError(t, fx.ranges.Create(ctx, secuencia("rng-bajo", 100, 400, 0)))

	reg := nuevoRegistry(fx)
	r, _, err := reg.ResolveActiveRange(ctx, testCompanyID, ncf.TipoCreditoFiscal)
	require.NoError(t, err)
	assert.Equal(t, "rng-bajo", r.ID)
	assert.Equal(t, int64(100), r.RangeStart)
}

func TestResolveActiveRange_IgnoraAgotadasInactivasYVencidas(t *testing.T) {
	agotada := secuencia("rng-agotada", 1, 50, 50)
	fx := nuevaFixture(t, agotada)
	ctx := context.Background()

	inactiva := secuencia("rng-inactiva", 51, 99, 51)
	inactiva.Active = false
	require.NoError(t, fx.ranges.Create(ctx, inactiva))

	vencida := secuencia("rng-vencida", 100, 150, 0)
	vencida.ExpiresOn = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, fx.ranges.Create(ctx, vencida))

	utilizable := secuencia("rng-ok", 200, 300, 0)
	require.NoError(t, fx.ranges.Create(ctx, utilizable))

	reg := nuevoRegistry(fx)
	r, _, err := reg.ResolveActiveRange(ctx, testCompanyID, ncf.TipoCreditoFiscal)
	require.NoError(t, err)
	assert.Equal(t, "rng-ok", r.ID)
}

func TestResolveActiveRange_SinSecuenciaUtilizable(t *testing.T) {
	agotada := secuencia("rng-1", 1, 10, 10)
	fx := nuevaFixture(t, agotada)

	_, dt, err := nuevoRegistry(fx).ResolveActiveRange(context.Background(), testCompanyID, ncf.TipoCreditoFiscal)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotNil(t, dt, "el tipo existe aunque no haya secuencia utilizable")
}
