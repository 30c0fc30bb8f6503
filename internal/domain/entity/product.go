package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// Cost es promedio ponderado calculado desde movimientos; el stock se
// maneja por bodega en Stock.
type Product struct {
	ID          string
	CompanyID   string
	CategoryID  string // vacío si no está categorizado
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta por defecto
	Cost        decimal.Decimal // costo promedio ponderado (inicia en 0)
	UnitMeasure string
	Status      string // active, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
