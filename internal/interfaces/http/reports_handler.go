package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/gestion-pro/internal/application/reports"
	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

// ReportsHandler maneja las peticiones HTTP de reportes (protegido).
type ReportsHandler struct {
	dashboardUC *reports.DashboardUseCase
	exportUC    *reports.ExportUseCase
}

// NewReportsHandler construye el handler.
func NewReportsHandler(dashboardUC *reports.DashboardUseCase, exportUC *reports.ExportUseCase) *ReportsHandler {
	return &ReportsHandler{dashboardUC: dashboardUC, exportUC: exportUC}
}

// Dashboard devuelve los KPIs del día y del mes en curso.
// GET /api/reports/dashboard
func (h *ReportsHandler) Dashboard(c *fiber.Ctx) error {
	summary, err := h.dashboardUC.GetSummary(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// ExportDocuments descarga el listado de documentos en CSV.
// GET /api/reports/documents.csv?type=&status=
func (h *ReportsHandler) ExportDocuments(c *fiber.Ctx) error {
	filter := repository.DocumentFilter{
		Type:   c.Query("type"),
		Status: c.Query("status"),
	}
	content, filename, err := h.exportUC.ExportDocumentsCSV(c.Context(), GetCompanyID(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(content)
}
