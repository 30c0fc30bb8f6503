package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/gestion-pro/internal/application/dto"
	"github.com/tu-usuario/gestion-pro/internal/domain"
	"github.com/tu-usuario/gestion-pro/internal/domain/entity"
	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

// CreateDeliveryNote crea una remisión a partir de una factura: copia las
// líneas con cantidades pero sin valores (la remisión es un documento de
// entrega, no de cobro) y no mueve inventario: el stock ya salió con la
// factura.
func (uc *DocumentUseCase) CreateDeliveryNote(ctx context.Context, companyID, userID, invoiceID string) (*dto.DocumentResponse, error) {
	invoice, err := uc.docRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	if invoice.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if invoice.Type != entity.DocTypeInvoice {
		return nil, domain.ErrInvalidInput
	}
	if invoice.Status != entity.DocStatusIssued && invoice.Status != entity.DocStatusPaid {
		return nil, domain.ErrConflict
	}
	invoiceLines, err := uc.docRepo.GetLinesByDocumentID(invoice.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	note := &entity.Document{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Type:        entity.DocTypeDeliveryNote,
		PartyID:     invoice.PartyID,
		Prefix:      docPrefixes[entity.DocTypeDeliveryNote],
		Status:      entity.DocStatusIssued,
		Date:        now,
		SourceDocID: invoice.ID,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var noteLines []*entity.DocumentLine
	err = uc.txRunner.RunDocument(ctx, func(
		_ repository.InventoryMovementRepository,
		_ repository.StockRepository,
		_ repository.ProductRepository,
		docRepo repository.DocumentRepository,
		seqRepo repository.SequenceRepository,
	) error {
		number, err := seqRepo.Next(companyID, entity.DocTypeDeliveryNote)
		if err != nil {
			return err
		}
		note.Number = number

		if err := docRepo.Create(note); err != nil {
			return err
		}
		for _, il := range invoiceLines {
			line := &entity.DocumentLine{
				ID:         uuid.New().String(),
				DocumentID: note.ID,
				ProductID:  il.ProductID,
				Quantity:   il.Quantity,
				UnitPrice:  decimal.Zero,
				LineTotal:  decimal.Zero,
			}
			if err := docRepo.CreateLine(line); err != nil {
				return err
			}
			noteLines = append(noteLines, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toDocumentResponse(note, noteLines), nil
}
