package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/tu-usuario/gestion-pro/internal/domain/entity"
	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

const exportMaxRows = 5000 // tope duro para evitar exportaciones sin límite

// ExportUseCase genera archivos CSV con los documentos de una empresa.
type ExportUseCase struct {
	docRepo      repository.DocumentRepository
	customerRepo repository.CustomerRepository
	supplierRepo repository.SupplierRepository
}

// NewExportUseCase construye el caso de uso de exportación.
func NewExportUseCase(
	docRepo repository.DocumentRepository,
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
) *ExportUseCase {
	return &ExportUseCase{
		docRepo:      docRepo,
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
	}
}

// ExportDocumentsCSV devuelve el contenido CSV y el nombre de archivo sugerido.
// Los montos salen tal cual fueron persistidos (dos decimales, punto decimal).
func (uc *ExportUseCase) ExportDocumentsCSV(ctx context.Context, companyID string, filter repository.DocumentFilter) ([]byte, string, error) {
	filter.Limit = exportMaxRows
	filter.Offset = 0

	docs, err := uc.docRepo.ListByCompany(companyID, filter)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"tipo", "numero", "fecha", "estado", "tercero",
		"subtotal", "descuento", "neto", "impuesto", "total",
	}
	if err := w.Write(header); err != nil {
		return nil, "", fmt.Errorf("escribir encabezado CSV: %w", err)
	}

	for _, d := range docs {
		row := []string{
			d.Type,
			fmt.Sprintf("%s-%d", d.Prefix, d.Number),
			d.Date.Format("2006-01-02"),
			d.Status,
			uc.partyName(d),
			d.Subtotal.StringFixed(2),
			d.DiscountAmount.StringFixed(2),
			d.NetAmount.StringFixed(2),
			d.TaxAmount.StringFixed(2),
			d.GrandTotal.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, "", fmt.Errorf("escribir fila CSV: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("volcar CSV: %w", err)
	}

	filename := fmt.Sprintf("documentos_%s.csv", time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}

// partyName resuelve el nombre del tercero; si falla devuelve el ID
// para no abortar la exportación completa por un registro huérfano.
func (uc *ExportUseCase) partyName(doc *entity.Document) string {
	if doc.IsSales() {
		if c, err := uc.customerRepo.GetByID(doc.PartyID); err == nil && c != nil {
			return c.Name
		}
		return doc.PartyID
	}
	if s, err := uc.supplierRepo.GetByID(doc.PartyID); err == nil && s != nil {
		return s.Name
	}
	return doc.PartyID
}
