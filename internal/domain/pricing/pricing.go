// Package pricing implementa el motor de totalización de documentos
// comerciales (cotizaciones, órdenes de compra, facturas de venta).
//
// Reglas de cálculo (orden fijo, redondeo a 2 decimales en cada paso):
//
//	subtotal     = round2(Σ lineTotal)
//	descuento    = 0 | round2(subtotal * valor/100) | min(valor, subtotal)
//	neto         = round2(subtotal - descuento)
//	impuesto     = round2(neto * tasa)        ← el impuesto se aplica DESPUÉS del descuento
//	total        = round2(neto + impuesto)
//
// El motor es puro: no hace I/O, no muta sus entradas y es determinista.
// Toda la aritmética usa shopspring/decimal; nunca float64 crudo.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/gestion-pro/internal/domain"
)

// Tipos de descuento por documento (cero o uno por documento).
const (
	DiscountPercentage = "PERCENTAGE" // Value interpretado en 0–100
	DiscountFixed      = "FIXED"      // Value en unidades de moneda
)

// Discount especifica el descuento del documento. Value >= 0 siempre;
// en PERCENTAGE además Value <= 100: un porcentaje fuera de rango se
// rechaza, nunca produce un total negativo.
type Discount struct {
	Kind  string
	Value decimal.Decimal
}

// LineItem es una línea de documento vista por el motor. ProductID es
// opaco: el motor no lo valida, eso es responsabilidad del caller.
type LineItem struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Totals es la salida del motor, siempre derivada, nunca editada a mano.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	NetAmount      decimal.Decimal
	TaxAmount      decimal.Decimal
	GrandTotal     decimal.Decimal
}

// ValidationError señala una precondición violada, identificando el campo.
// Unwrap retorna domain.ErrInvalidInput para que los handlers lo mapeen a 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("pricing: campo %s inválido: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// round2 redondea a precisión de moneda (2 decimales, mitad hacia arriba).
func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// LineTotal calcula cantidad * precio unitario redondeado a 2 decimales.
// Rechaza cantidad <= 0 y precio < 0 con ValidationError; nunca recorta
// en silencio un valor inválido.
func LineTotal(quantity int64, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, &ValidationError{Field: "quantity", Reason: "debe ser un entero positivo"}
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, &ValidationError{Field: "unit_price", Reason: "no puede ser negativo"}
	}
	return round2(decimal.NewFromInt(quantity).Mul(unitPrice)), nil
}

// ComputeTotals calcula los totales del documento a partir de las líneas,
// el descuento opcional (nil = sin descuento) y la tasa de impuesto en [0,1].
//
// Con descuento FIXED el monto se recorta a min(valor, subtotal): el neto
// nunca puede quedar negativo. Ese recorte es una decisión de diseño
// deliberada, no un detalle de implementación.
func ComputeTotals(items []LineItem, disc *Discount, taxRate decimal.Decimal) (Totals, error) {
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return Totals{}, &ValidationError{Field: "tax_rate", Reason: "debe estar en [0,1]"}
	}
	if disc != nil {
		if disc.Kind != DiscountPercentage && disc.Kind != DiscountFixed {
			return Totals{}, &ValidationError{Field: "discount.kind", Reason: "debe ser PERCENTAGE o FIXED"}
		}
		if disc.Value.IsNegative() {
			return Totals{}, &ValidationError{Field: "discount.value", Reason: "no puede ser negativo"}
		}
		if disc.Kind == DiscountPercentage && disc.Value.GreaterThan(decimal.NewFromInt(100)) {
			return Totals{}, &ValidationError{Field: "discount.value", Reason: "el porcentaje debe estar en [0,100]"}
		}
	}

	var subtotal decimal.Decimal
	for i, item := range items {
		lt, err := LineTotal(item.Quantity, item.UnitPrice)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				return Totals{}, &ValidationError{
					Field:  fmt.Sprintf("items[%d].%s", i, verr.Field),
					Reason: verr.Reason,
				}
			}
			return Totals{}, err
		}
		subtotal = subtotal.Add(lt)
	}
	subtotal = round2(subtotal)

	discountAmount := decimal.Zero
	if disc != nil && !disc.Value.IsZero() {
		switch disc.Kind {
		case DiscountPercentage:
			discountAmount = round2(subtotal.Mul(disc.Value).Div(decimal.NewFromInt(100)))
		case DiscountFixed:
			discountAmount = disc.Value
			if discountAmount.GreaterThan(subtotal) {
				discountAmount = subtotal
			}
		}
	}

	netAmount := round2(subtotal.Sub(discountAmount))
	taxAmount := round2(netAmount.Mul(taxRate))
	grandTotal := round2(netAmount.Add(taxAmount))

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		NetAmount:      netAmount,
		TaxAmount:      taxAmount,
		GrandTotal:     grandTotal,
	}, nil
}
