package sales

import (
	"context"

	"github.com/tu-usuario/gestion-pro/internal/domain"
	"github.com/tu-usuario/gestion-pro/internal/domain/entity"
	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de un documento.
type PDFUseCase struct {
	docRepo      repository.DocumentRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	generator    DocumentPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	docRepo repository.DocumentRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	generator DocumentPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		docRepo:      docRepo,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		generator:    generator,
	}
}

// GeneratePDF carga documento, empresa, parte y líneas enriquecidas con el
// producto, y delega el render al generador.
func (uc *PDFUseCase) GeneratePDF(ctx context.Context, companyID, documentID string) ([]byte, error) {
	doc, err := uc.docRepo.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}

	partyName, err := uc.partyName(doc)
	if err != nil {
		return nil, err
	}

	lines, err := uc.docRepo.GetLinesByDocumentID(doc.ID)
	if err != nil {
		return nil, err
	}
	pdfLines := make([]DocumentLineForPDF, 0, len(lines))
	for _, l := range lines {
		name, sku := l.ProductID, ""
		if product, err := uc.productRepo.GetByID(l.ProductID); err == nil && product != nil {
			name, sku = product.Name, product.SKU
		}
		pdfLines = append(pdfLines, DocumentLineForPDF{
			ProductName: name,
			SKU:         sku,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}

	return uc.generator.GenerateDocumentPDF(ctx, doc, company, partyName, pdfLines)
}

func (uc *PDFUseCase) partyName(doc *entity.Document) (string, error) {
	if doc.IsSales() {
		customer, err := uc.customerRepo.GetByID(doc.PartyID)
		if err != nil || customer == nil {
			return "", domain.ErrNotFound
		}
		return customer.Name, nil
	}
	supplier, err := uc.supplierRepo.GetByID(doc.PartyID)
	if err != nil || supplier == nil {
		return "", domain.ErrNotFound
	}
	return supplier.Name, nil
}
