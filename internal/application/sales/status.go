package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/gestion-pro/internal/application/dto"
	"github.com/tu-usuario/gestion-pro/internal/domain"
	"github.com/tu-usuario/gestion-pro/internal/domain/entity"
	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

// UpdateStatus cambia el estado del documento validando la transición según
// su ciclo de vida. La recepción de una orden de compra (ISSUED → RECEIVED)
// registra las entradas de inventario en la misma transacción, actualizando
// el costo promedio ponderado con el precio unitario de cada línea.
func (uc *DocumentUseCase) UpdateStatus(ctx context.Context, companyID, userID, id string, in dto.UpdateDocumentStatusRequest) error {
	doc, err := uc.docRepo.GetByID(id)
	if err != nil {
		return err
	}
	if doc == nil {
		return domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if !doc.CanTransition(in.Status) {
		return domain.ErrInvalidTransition
	}

	// Recepción de orden de compra: entra el stock de todas las líneas.
	if doc.Type == entity.DocTypePurchaseOrder && in.Status == entity.DocStatusReceived {
		if in.WarehouseID == "" {
			return domain.ErrInvalidInput
		}
		wh, _ := uc.warehouseRepo.GetByID(in.WarehouseID)
		if wh == nil || wh.CompanyID != companyID {
			return domain.ErrNotFound
		}
		return uc.receivePurchaseOrder(ctx, doc, in.WarehouseID, userID)
	}

	return uc.docRepo.UpdateStatus(doc.ID, in.Status)
}

// receivePurchaseOrder registra un IN por línea (al precio de la línea como
// costo de entrada) y marca la orden como recibida, todo o nada.
func (uc *DocumentUseCase) receivePurchaseOrder(ctx context.Context, doc *entity.Document, warehouseID, userID string) error {
	lines, err := uc.docRepo.GetLinesByDocumentID(doc.ID)
	if err != nil {
		return err
	}
	now := time.Now()
	return uc.txRunner.RunDocument(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		docRepo repository.DocumentRepository,
		_ repository.SequenceRepository,
	) error {
		for _, line := range lines {
			product, err := productRepo.GetByID(line.ProductID)
			if err != nil || product == nil {
				return domain.ErrNotFound
			}
			if err := uc.inventoryUC.RegisterINInTx(
				movRepo, stockRepo, productRepo, product,
				line.ProductID, warehouseID, userID,
				decimal.NewFromInt(line.Quantity), line.UnitPrice,
				now, doc.ID,
			); err != nil {
				return err
			}
		}
		return docRepo.UpdateStatus(doc.ID, entity.DocStatusReceived)
	})
}
