package pricing

import "github.com/shopspring/decimal"

// TaxPolicy mapea el término de entrega (duty status) del documento a una
// tasa de impuesto en [0,1]. Un estado desconocido resuelve al fallback:
// en aplicaciones anteriores cada formulario codificaba su propia tasa
// plana, aquí la política es una sola tabla inyectada por configuración.
type TaxPolicy map[string]decimal.Decimal

// Estados de entrega/aduana reconocidos por la tabla por defecto.
const (
	DutyStatusCIF         = "CIF"
	DutyStatusDDPNacional = "DDP Nacional"
	DutyStatusDDPExterior = "DDP Exterior"
)

// DefaultFallbackRate tasa usada cuando el duty status no está en la tabla (15%).
var DefaultFallbackRate = decimal.NewFromFloat(0.15)

// DefaultTaxPolicy tabla por defecto: CIF exento, DDP según destino.
func DefaultTaxPolicy() TaxPolicy {
	return TaxPolicy{
		DutyStatusCIF:         decimal.Zero,
		DutyStatusDDPNacional: decimal.NewFromFloat(0.17),
		DutyStatusDDPExterior: decimal.NewFromFloat(0.21),
	}
}

// Resolve busca dutyStatus en la tabla; si no existe (o la tabla es nil)
// retorna fallback. Nunca falla: todo documento obtiene una tasa.
func (p TaxPolicy) Resolve(dutyStatus string, fallback decimal.Decimal) decimal.Decimal {
	if rate, ok := p[dutyStatus]; ok {
		return rate
	}
	return fallback
}
