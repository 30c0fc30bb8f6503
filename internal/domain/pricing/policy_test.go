package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/gestion-pro/internal/domain/pricing"
)

func TestResolve_FallbackParaEstadoDesconocido(t *testing.T) {
	policy := pricing.DefaultTaxPolicy()

	rate := policy.Resolve("estado-desconocido", pricing.DefaultFallbackRate)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.15)),
		"estado desconocido debe resolver al fallback")
}

func TestResolve_TablaExplicita(t *testing.T) {
	policy := pricing.TaxPolicy{"DDP Nacional": decimal.NewFromFloat(0.17)}

	rate := policy.Resolve("DDP Nacional", pricing.DefaultFallbackRate)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.17)))
}

func TestResolve_TablaPorDefecto(t *testing.T) {
	policy := pricing.DefaultTaxPolicy()

	assert.True(t, policy.Resolve(pricing.DutyStatusCIF, pricing.DefaultFallbackRate).IsZero(),
		"CIF está exento")
	assert.True(t, policy.Resolve(pricing.DutyStatusDDPNacional, pricing.DefaultFallbackRate).Equal(decimal.NewFromFloat(0.17)))
	assert.True(t, policy.Resolve(pricing.DutyStatusDDPExterior, pricing.DefaultFallbackRate).Equal(decimal.NewFromFloat(0.21)))
}

func TestResolve_TablaNil(t *testing.T) {
	var policy pricing.TaxPolicy

	rate := policy.Resolve("CIF", decimal.NewFromFloat(0.15))
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.15)), "tabla nil siempre usa fallback")
}
