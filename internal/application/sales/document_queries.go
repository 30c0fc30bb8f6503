package sales

import (
	"context"
	"time"

	"github.com/tu-usuario/gestion-pro/internal/application/dto"
	"github.com/tu-usuario/gestion-pro/internal/domain"
	"github.com/tu-usuario/gestion-pro/internal/domain/entity"
	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

// Get obtiene un documento completo (cabecera + líneas) verificando la empresa.
func (uc *DocumentUseCase) Get(ctx context.Context, companyID, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.docRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.docRepo.GetLinesByDocumentID(doc.ID)
	if err != nil {
		return nil, err
	}
	resp := toDocumentResponse(doc, lines)
	if name, err := uc.resolvePartyName(doc); err == nil {
		resp.PartyName = name
	}
	return resp, nil
}

// List lista documentos de la empresa filtrados por tipo/estado/parte.
func (uc *DocumentUseCase) List(ctx context.Context, companyID string, filter repository.DocumentFilter) ([]*dto.DocumentListItem, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	docs, err := uc.docRepo.ListByCompany(companyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DocumentListItem, 0, len(docs))
	for _, d := range docs {
		out = append(out, &dto.DocumentListItem{
			ID:         d.ID,
			Type:       d.Type,
			PartyID:    d.PartyID,
			Prefix:     d.Prefix,
			Number:     d.Number,
			Status:     d.Status,
			Date:       d.Date.Format(time.RFC3339),
			GrandTotal: d.GrandTotal,
		})
	}
	return out, nil
}

// resolvePartyName busca el nombre del cliente o proveedor según el flujo del documento.
func (uc *DocumentUseCase) resolvePartyName(doc *entity.Document) (string, error) {
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
