package reports_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/gestion-pro/internal/application/reports"
	"github.com/tu-usuario/gestion-pro/internal/domain/entity"
	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

type fakeAnalyticsRepo struct {
	revenue, cost decimal.Decimal
	top           []repository.TopProductResult
}

func (f *fakeAnalyticsRepo) GetSalesMetrics(_ context.Context, _ string, _, _ time.Time) (decimal.Decimal, decimal.Decimal, error) {
	return f.revenue, f.cost, nil
}

func (f *fakeAnalyticsRepo) GetTopProducts(_ context.Context, _ string, _, _ time.Time, limit int) ([]repository.TopProductResult, error) {
	if len(f.top) > limit {
		return f.top[:limit], nil
	}
	return f.top, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestGetSummary_MargenesYTopProductos(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		revenue: dec("500.00"), cost: dec("300.00"),
		top: []repository.TopProductResult{
			{ProductID: "p1", SKU: "SKU-1", ProductName: "Producto Uno",
				QuantitySold: dec("40"), TotalRevenue: dec("400.00"), TotalCOGS: dec("240.00")},
			{ProductID: "p2", SKU: "SKU-2", ProductName: "Producto Dos",
				QuantitySold: dec("10"), TotalRevenue: dec("100.00"), TotalCOGS: decimal.Zero},
		},
	}
	uc := reports.NewDashboardUseCase(repo)

	summary, err := uc.GetSummary(context.Background(), "co-1")
	require.NoError(t, err)

	assert.True(t, dec("500.00").Equal(summary.TodaySales))
	assert.True(t, dec("200.00").Equal(summary.TodayMargin), "margen de hoy: %s", summary.TodayMargin)
	assert.True(t, dec("500.00").Equal(summary.MonthlySales))
	assert.True(t, dec("200.00").Equal(summary.MonthlyMargin))
	assert.NotEmpty(t, summary.DateLabel)

	require.Len(t, summary.TopProducts, 2)
	// (400 - 240) / 400 * 100 = 40%
	assert.True(t, dec("40").Equal(summary.TopProducts[0].MarginPercentage),
		"margen %%: %s", summary.TopProducts[0].MarginPercentage)
	// sin COGS el margen es 100%
	assert.True(t, dec("100").Equal(summary.TopProducts[1].MarginPercentage))
}

func TestGetSummary_SinVentas(t *testing.T) {
	uc := reports.NewDashboardUseCase(&fakeAnalyticsRepo{})

	summary, err := uc.GetSummary(context.Background(), "co-1")
	require.NoError(t, err)

	assert.True(t, summary.TodaySales.IsZero())
	assert.True(t, summary.MonthlyMargin.IsZero())
	assert.Empty(t, summary.TopProducts)
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación CSV
// ──────────────────────────────────────────────────────────────────────────────

type fakeExportDocRepo struct {
	repository.DocumentRepository
	docs       []*entity.Document
	gotFilter  repository.DocumentFilter
	gotCompany string
}

func (f *fakeExportDocRepo) ListByCompany(companyID string, filter repository.DocumentFilter) ([]*entity.Document, error) {
	f.gotCompany = companyID
	f.gotFilter = filter
	return f.docs, nil
}

type fakeExportCustomerRepo struct {
	repository.CustomerRepository
	customers map[string]*entity.Customer
}

func (f *fakeExportCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return f.customers[id], nil
}

type fakeExportSupplierRepo struct {
	repository.SupplierRepository
	suppliers map[string]*entity.Supplier
}

func (f *fakeExportSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	return f.suppliers[id], nil
}

func TestExportDocumentsCSV_FormatoYTerceros(t *testing.T) {
	date := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	docRepo := &fakeExportDocRepo{docs: []*entity.Document{
		{
			Type: entity.DocTypeInvoice, Prefix: "FAC", Number: 42,
			Date: date, Status: entity.DocStatusIssued, PartyID: "cust-1",
			Subtotal: dec("250.00"), DiscountAmount: dec("25.00"),
			NetAmount: dec("225.00"), TaxAmount: dec("38.25"), GrandTotal: dec("263.25"),
		},
		{
			Type: entity.DocTypePurchaseOrder, Prefix: "OC", Number: 7,
			Date: date, Status: entity.DocStatusReceived, PartyID: "sup-huerfano",
			Subtotal: dec("110.00"), NetAmount: dec("110.00"), GrandTotal: dec("110.00"),
		},
	}}
	uc := reports.NewExportUseCase(
		docRepo,
		&fakeExportCustomerRepo{customers: map[string]*entity.Customer{
			"cust-1": {ID: "cust-1", Name: "Cliente Uno"},
		}},
		&fakeExportSupplierRepo{suppliers: map[string]*entity.Supplier{}},
	)

	data, filename, err := uc.ExportDocumentsCSV(context.Background(), "co-1", repository.DocumentFilter{Type: entity.DocTypeInvoice})
	require.NoError(t, err)

	assert.Equal(t, "co-1", docRepo.gotCompany)
	assert.Equal(t, entity.DocTypeInvoice, docRepo.gotFilter.Type, "el filtro del caller se respeta")
	assert.Equal(t, 5000, docRepo.gotFilter.Limit, "la exportación impone su propio tope")
	assert.Zero(t, docRepo.gotFilter.Offset)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3, "encabezado + dos filas")
	assert.Equal(t, "tipo,numero,fecha,estado,tercero,subtotal,descuento,neto,impuesto,total", lines[0])
	assert.Equal(t, "INVOICE,FAC-42,2026-03-15,ISSUED,Cliente Uno,250.00,25.00,225.00,38.25,263.25", lines[1])
	// proveedor inexistente: la fila sale con el ID, no se aborta la exportación
	assert.Equal(t, "PURCHASE_ORDER,OC-7,2026-03-15,RECEIVED,sup-huerfano,110.00,0.00,110.00,0.00,110.00", lines[2])

	assert.True(t, strings.HasPrefix(filename, "documentos_"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))
}

func TestExportDocumentsCSV_SinDocumentos(t *testing.T) {
	uc := reports.NewExportUseCase(
		&fakeExportDocRepo{},
		&fakeExportCustomerRepo{},
		&fakeExportSupplierRepo{},
	)

	data, _, err := uc.ExportDocumentsCSV(context.Background(), "co-1", repository.DocumentFilter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 1, "solo el encabezado")
}
