package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TopProductResult resultado crudo de la consulta de productos más vendidos.
// Lo produce la DB; el use case lo convierte en DTO.
type TopProductResult struct {
	ProductID    string
	SKU          string
	ProductName  string
	QuantitySold decimal.Decimal
	TotalRevenue decimal.Decimal
	TotalCOGS    decimal.Decimal // qty * products.cost
}

// AnalyticsRepository define las consultas de lectura para el dashboard.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// GetSalesMetrics devuelve los ingresos brutos y el COGS total de las
	// facturas emitidas/pagadas de una empresa en el rango dado.
	// Usa COALESCE para devolver cero si no hay facturas en el período.
	GetSalesMetrics(
		ctx context.Context,
		companyID string,
		startDate, endDate time.Time,
	) (revenue, cost decimal.Decimal, err error)

	// GetTopProducts devuelve los `limit` productos con mayor ingreso en el período.
	GetTopProducts(
		ctx context.Context,
		companyID string,
		startDate, endDate time.Time,
		limit int,
	) ([]TopProductResult, error)
}
