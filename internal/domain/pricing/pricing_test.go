package pricing_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/gestion-pro/internal/domain"
	"github.com/tu-usuario/gestion-pro/internal/domain/pricing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Estos tests fijan el contrato del motor de totalización: orden de
// operaciones (descuento antes de impuesto), redondeo a 2 decimales en cada
// paso derivado y recorte del descuento fijo al subtotal. Si alguien cambia
// el orden o el redondeo, los vectores exactos de abajo fallan de inmediato.
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeTotals_SinLineas(t *testing.T) {
	totals, err := pricing.ComputeTotals(nil, nil, dec("0.15"))
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.IsZero(), "subtotal debe ser cero sin líneas")
	assert.True(t, totals.DiscountAmount.IsZero())
	assert.True(t, totals.NetAmount.IsZero())
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestComputeTotals_SinDescuentoNiImpuesto(t *testing.T) {
	items := []pricing.LineItem{
		{ProductID: "p1", Quantity: 3, UnitPrice: dec("19.99")},
		{ProductID: "p2", Quantity: 1, UnitPrice: dec("5.01")},
	}
	totals, err := pricing.ComputeTotals(items, nil, decimal.Zero)
	require.NoError(t, err)

	assert.True(t, totals.GrandTotal.Equal(totals.Subtotal),
		"sin descuento y tasa 0, el total debe ser igual al subtotal")
	assert.True(t, totals.Subtotal.Equal(dec("64.98")))
}

// Vector exacto: subtotal 250.00, descuento 10% = 25.00, neto 225.00,
// impuesto 15% = 33.75, total 258.75.
func TestComputeTotals_DescuentoPorcentaje(t *testing.T) {
	items := []pricing.LineItem{
		{ProductID: "p1", Quantity: 2, UnitPrice: dec("100.00")},
		{ProductID: "p2", Quantity: 1, UnitPrice: dec("50.00")},
	}
	disc := &pricing.Discount{Kind: pricing.DiscountPercentage, Value: dec("10")}

	totals, err := pricing.ComputeTotals(items, disc, dec("0.15"))
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("250.00")), "subtotal: %s", totals.Subtotal)
	assert.True(t, totals.DiscountAmount.Equal(dec("25.00")), "descuento: %s", totals.DiscountAmount)
	assert.True(t, totals.NetAmount.Equal(dec("225.00")), "neto: %s", totals.NetAmount)
	assert.True(t, totals.TaxAmount.Equal(dec("33.75")), "impuesto: %s", totals.TaxAmount)
	assert.True(t, totals.GrandTotal.Equal(dec("258.75")), "total: %s", totals.GrandTotal)
}

// El descuento fijo mayor al subtotal se recorta: el neto nunca es negativo.
func TestComputeTotals_DescuentoFijoRecortado(t *testing.T) {
	items := []pricing.LineItem{
		{ProductID: "p1", Quantity: 1, UnitPrice: dec("100.00")},
	}
	disc := &pricing.Discount{Kind: pricing.DiscountFixed, Value: dec("150.00")}

	for _, rate := range []decimal.Decimal{decimal.Zero, dec("0.15"), dec("0.21"), decimal.NewFromInt(1)} {
		totals, err := pricing.ComputeTotals(items, disc, rate)
		require.NoError(t, err)

		assert.True(t, totals.DiscountAmount.Equal(dec("100.00")),
			"el descuento debe recortarse al subtotal, no quedar en 150.00")
		assert.True(t, totals.NetAmount.IsZero())
		assert.True(t, totals.TaxAmount.IsZero(), "tasa %s: impuesto sobre neto cero debe ser cero", rate)
		assert.True(t, totals.GrandTotal.IsZero())
	}
}

func TestComputeTotals_DescuentoCeroEsAusencia(t *testing.T) {
	items := []pricing.LineItem{{ProductID: "p1", Quantity: 1, UnitPrice: dec("80.00")}}
	disc := &pricing.Discount{Kind: pricing.DiscountPercentage, Value: decimal.Zero}

	totals, err := pricing.ComputeTotals(items, disc, dec("0.15"))
	require.NoError(t, err)
	assert.True(t, totals.DiscountAmount.IsZero(), "valor 0 equivale a no tener descuento")
	assert.True(t, totals.NetAmount.Equal(dec("80.00")))
}

func TestComputeTotals_EntradasInvalidas(t *testing.T) {
	items := []pricing.LineItem{{ProductID: "p1", Quantity: 1, UnitPrice: dec("10.00")}}

	cases := []struct {
		name  string
		items []pricing.LineItem
		disc  *pricing.Discount
		rate  decimal.Decimal
		field string
	}{
		{"tasa negativa", items, nil, dec("-0.01"), "tax_rate"},
		{"tasa mayor a 1", items, nil, dec("1.01"), "tax_rate"},
		{"kind desconocido", items, &pricing.Discount{Kind: "COUPON", Value: dec("5")}, decimal.Zero, "discount.kind"},
		{"valor de descuento negativo", items, &pricing.Discount{Kind: pricing.DiscountFixed, Value: dec("-5")}, decimal.Zero, "discount.value"},
		{"porcentaje mayor a 100", items, &pricing.Discount{Kind: pricing.DiscountPercentage, Value: dec("150")}, decimal.Zero, "discount.value"},
		{"porcentaje apenas sobre 100", items, &pricing.Discount{Kind: pricing.DiscountPercentage, Value: dec("100.01")}, dec("0.15"), "discount.value"},
		{"cantidad cero en línea", []pricing.LineItem{{ProductID: "p1", Quantity: 0, UnitPrice: dec("10.00")}}, nil, decimal.Zero, "items[0].quantity"},
		{"precio negativo en línea", []pricing.LineItem{{ProductID: "p1", Quantity: 1, UnitPrice: dec("-1.00")}}, nil, decimal.Zero, "items[0].unit_price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := pricing.ComputeTotals(tc.items, tc.disc, tc.rate)
			require.Error(t, err)

			var verr *pricing.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.ErrorIs(t, err, domain.ErrInvalidInput,
				"ValidationError debe desenrollar a ErrInvalidInput")
		})
	}
}

func TestLineTotal_Redondeo(t *testing.T) {
	// 3 * 33.335 = 100.005 → 100.01 (mitad hacia arriba)
	lt, err := pricing.LineTotal(3, dec("33.335"))
	require.NoError(t, err)
	assert.True(t, lt.Equal(dec("100.01")), "line total: %s", lt)

	// El resultado siempre tiene a lo sumo 2 decimales.
	assert.LessOrEqual(t, int(lt.Exponent()*-1), 2)
}

// Sumar muchas líneas con tercer decimal no deriva más de 0.01 por línea
// respecto a la suma sin redondear.
func TestComputeTotals_EstabilidadDeRedondeo(t *testing.T) {
	const n = 1000
	items := make([]pricing.LineItem, n)
	for i := range items {
		items[i] = pricing.LineItem{ProductID: "p", Quantity: 3, UnitPrice: dec("33.335")}
	}
	totals, err := pricing.ComputeTotals(items, nil, decimal.Zero)
	require.NoError(t, err)

	raw := dec("33.335").Mul(decimal.NewFromInt(3)).Mul(decimal.NewFromInt(n))
	drift := totals.Subtotal.Sub(raw).Abs()
	maxDrift := dec("0.01").Mul(decimal.NewFromInt(n))
	assert.True(t, drift.LessThanOrEqual(maxDrift),
		"deriva acumulada %s supera 0.01 por línea", drift)
}

func TestLineTotal_Rechazos(t *testing.T) {
	for _, tc := range []struct {
		qty   int64
		price string
		field string
	}{
		{0, "10.00", "quantity"},
		{-1, "10.00", "quantity"},
		{1, "-5.00", "unit_price"},
	} {
		_, err := pricing.LineTotal(tc.qty, dec(tc.price))
		require.Error(t, err)
		var verr *pricing.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, tc.field, verr.Field)
	}
}

// Invariante: para toda entrada válida el total nunca es negativo.
func TestComputeTotals_TotalNuncaNegativo(t *testing.T) {
	discounts := []*pricing.Discount{
		nil,
		{Kind: pricing.DiscountPercentage, Value: dec("100")},
		{Kind: pricing.DiscountFixed, Value: dec("999999")},
	}
	rates := []decimal.Decimal{decimal.Zero, dec("0.15"), decimal.NewFromInt(1)}
	items := []pricing.LineItem{
		{ProductID: "a", Quantity: 7, UnitPrice: dec("3.33")},
		{ProductID: "b", Quantity: 1, UnitPrice: decimal.Zero},
	}
	for _, d := range discounts {
		for _, r := range rates {
			totals, err := pricing.ComputeTotals(items, d, r)
			require.NoError(t, err)
			assert.False(t, totals.GrandTotal.IsNegative())
			assert.False(t, totals.NetAmount.IsNegative())
		}
	}
}
