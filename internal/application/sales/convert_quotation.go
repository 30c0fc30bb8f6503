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

// ConvertQuotation convierte una cotización aceptada en factura: copia las
// líneas y el snapshot de totales tal como el cliente los aceptó (no se
// recalculan con la política vigente), asigna consecutivo de factura,
// descuenta inventario y marca la cotización como CONVERTED. Todo en una
// transacción: sin stock suficiente no hay factura ni conversión.
func (uc *DocumentUseCase) ConvertQuotation(ctx context.Context, companyID, userID, quotationID, warehouseID string) (*dto.DocumentResponse, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	quotation, err := uc.docRepo.GetByID(quotationID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, domain.ErrNotFound
	}
	if quotation.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if quotation.Type != entity.DocTypeQuotation {
		return nil, domain.ErrInvalidInput
	}
	if !quotation.CanTransition(entity.DocStatusConverted) {
		return nil, domain.ErrInvalidTransition
	}
	wh, _ := uc.warehouseRepo.GetByID(warehouseID)
	if wh == nil || wh.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	quotationLines, err := uc.docRepo.GetLinesByDocumentID(quotation.ID)
	if err != nil {
		return nil, err
	}
	if len(quotationLines) == 0 {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	invoice := &entity.Document{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		Type:           entity.DocTypeInvoice,
		PartyID:        quotation.PartyID,
		Prefix:         docPrefixes[entity.DocTypeInvoice],
		Status:         entity.DocStatusIssued,
		Date:           now,
		DutyStatus:     quotation.DutyStatus,
		TaxRate:        quotation.TaxRate,
		DiscountKind:   quotation.DiscountKind,
		DiscountValue:  quotation.DiscountValue,
		Subtotal:       quotation.Subtotal,
		DiscountAmount: quotation.DiscountAmount,
		NetAmount:      quotation.NetAmount,
		TaxAmount:      quotation.TaxAmount,
		GrandTotal:     quotation.GrandTotal,
		SourceDocID:    quotation.ID,
		Notes:          quotation.Notes,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var invoiceLines []*entity.DocumentLine
	err = uc.txRunner.RunDocument(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		docRepo repository.DocumentRepository,
		seqRepo repository.SequenceRepository,
	) error {
		number, err := seqRepo.Next(companyID, entity.DocTypeInvoice)
		if err != nil {
			return err
		}
		invoice.Number = number

		if err := docRepo.Create(invoice); err != nil {
			return err
		}
		for _, ql := range quotationLines {
			line := &entity.DocumentLine{
				ID:         uuid.New().String(),
				DocumentID: invoice.ID,
				ProductID:  ql.ProductID,
				Quantity:   ql.Quantity,
				UnitPrice:  ql.UnitPrice,
				LineTotal:  ql.LineTotal,
			}
			if err := docRepo.CreateLine(line); err != nil {
				return err
			}
			invoiceLines = append(invoiceLines, line)

			product, err := productRepo.GetByID(ql.ProductID)
			if err != nil || product == nil {
				return domain.ErrNotFound
			}
			if err := uc.inventoryUC.RegisterOUTInTx(
				movRepo, stockRepo, product,
				ql.ProductID, warehouseID, userID,
				decimal.NewFromInt(ql.Quantity),
				now, invoice.ID,
			); err != nil {
				return err
			}
		}
		return docRepo.UpdateStatus(quotation.ID, entity.DocStatusConverted)
	})
	if err != nil {
		return nil, err
	}

	return toDocumentResponse(invoice, invoiceLines), nil
}
