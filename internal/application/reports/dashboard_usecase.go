// Package reports contiene los casos de uso de reportes: dashboard
// financiero y exportación de listados.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/gestion-pro/internal/application/dto"
	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

const dashboardTopProducts = 5 // número de productos en el widget del dashboard

// DashboardUseCase genera el resumen financiero del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only). No accede
// directamente a la tabla de documentos; delega todo en el repositorio.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetSummary construye el DashboardSummaryDTO para la empresa indicada.
//
// Tres llamadas en paralelo:
//  1. GetSalesMetrics(hoy)  → TodaySales + TodayMargin
//  2. GetSalesMetrics(mes)  → MonthlySales + MonthlyMargin
//  3. GetTopProducts(mes)   → TopProducts
func (uc *DashboardUseCase) GetSummary(ctx context.Context, companyID string) (*dto.DashboardSummaryDTO, error) {
	now := time.Now()

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := todayEnd

	type metricsResult struct {
		revenue decimal.Decimal
		cost    decimal.Decimal
		err     error
	}
	type topResult struct {
		products []repository.TopProductResult
		err      error
	}

	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		rev, cost, err := uc.analyticsRepo.GetSalesMetrics(ctx, companyID, todayStart, todayEnd)
		todayCh <- metricsResult{rev, cost, err}
	}()
	go func() {
		rev, cost, err := uc.analyticsRepo.GetSalesMetrics(ctx, companyID, monthStart, monthEnd)
		monthCh <- metricsResult{rev, cost, err}
	}()
	go func() {
		products, err := uc.analyticsRepo.GetTopProducts(ctx, companyID, monthStart, monthEnd, dashboardTopProducts)
		topCh <- topResult{products, err}
	}()

	today := <-todayCh
	month := <-monthCh
	top := <-topCh

	if today.err != nil {
		return nil, fmt.Errorf("métricas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("métricas del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("top productos: %w", top.err)
	}

	summary := &dto.DashboardSummaryDTO{
		TodaySales:    today.revenue,
		TodayMargin:   today.revenue.Sub(today.cost),
		MonthlySales:  month.revenue,
		MonthlyMargin: month.revenue.Sub(month.cost),
		DateLabel:     monthLabel(now),
	}
	for _, p := range top.products {
		summary.TopProducts = append(summary.TopProducts, toTopProductDTO(p))
	}
	return summary, nil
}

// toTopProductDTO calcula el porcentaje de margen bruto del producto.
func toTopProductDTO(p repository.TopProductResult) dto.TopProductDTO {
	margin := decimal.Zero
	if p.TotalRevenue.GreaterThan(decimal.Zero) {
		margin = p.TotalRevenue.Sub(p.TotalCOGS).
			Div(p.TotalRevenue).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return dto.TopProductDTO{
		ProductID:        p.ProductID,
		SKU:              p.SKU,
		ProductName:      p.ProductName,
		QuantitySold:     p.QuantitySold,
		TotalRevenue:     p.TotalRevenue,
		MarginPercentage: margin,
	}
}

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}
