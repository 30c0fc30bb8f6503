package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard financiero.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetSalesMetrics devuelve ingresos brutos y COGS total de las facturas del período.
// Solo cuenta facturas emitidas o pagadas (no borradores ni anuladas).
// Usa COALESCE para devolver cero si no hay filas (período sin ventas).
func (r *AnalyticsRepo) GetSalesMetrics(
	ctx context.Context,
	companyID string,
	startDate, endDate time.Time,
) (revenue, cost decimal.Decimal, err error) {
	const query = `
	SELECT
	    COALESCE(SUM(l.line_total),          0) AS revenue,
	    COALESCE(SUM(l.quantity * p.cost),   0) AS cost
	FROM documents doc
	JOIN document_lines l ON l.document_id = doc.id
	JOIN products       p ON p.id          = l.product_id
	WHERE doc.company_id = $1
	  AND doc.type       = 'INVOICE'
	  AND doc.status IN ('ISSUED', 'PAID')
	  AND doc.date BETWEEN $2 AND $3`

	err = r.pool.QueryRow(ctx, query, companyID, startDate, endDate).
		Scan(&revenue, &cost)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("analytics.GetSalesMetrics: %w", err)
	}
	return revenue, cost, nil
}

// GetTopProducts devuelve los `limit` productos con mayor ingreso en el período.
func (r *AnalyticsRepo) GetTopProducts(
	ctx context.Context,
	companyID string,
	startDate, endDate time.Time,
	limit int,
) ([]repository.TopProductResult, error) {
	const query = `
	SELECT
	    p.id                              AS product_id,
	    p.sku                             AS sku,
	    p.name                            AS product_name,
	    SUM(l.quantity)                   AS quantity_sold,
	    SUM(l.line_total)                 AS total_revenue,
	    SUM(l.quantity * p.cost)          AS total_cogs
	FROM documents doc
	JOIN document_lines l ON l.document_id = doc.id
	JOIN products       p ON p.id          = l.product_id
	WHERE doc.company_id = $1
	  AND doc.type       = 'INVOICE'
	  AND doc.status IN ('ISSUED', 'PAID')
	  AND doc.date BETWEEN $2 AND $3
	GROUP BY p.id, p.sku, p.name
	ORDER BY total_revenue DESC
	LIMIT $4`

	rows, err := r.pool.Query(ctx, query, companyID, startDate, endDate, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts: %w", err)
	}
	defer rows.Close()

	var results []repository.TopProductResult
	for rows.Next() {
		var row repository.TopProductResult
		if err := rows.Scan(
			&row.ProductID,
			&row.SKU,
			&row.ProductName,
			&row.QuantitySold,
			&row.TotalRevenue,
			&row.TotalCOGS,
		); err != nil {
			return nil, fmt.Errorf("analytics.GetTopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
