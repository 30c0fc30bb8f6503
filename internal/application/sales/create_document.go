package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/gestion-pro/internal/application/dto"
	"github.com/tu-usuario/gestion-pro/internal/domain"
	"github.com/tu-usuario/gestion-pro/internal/domain/entity"
	"github.com/tu-usuario/gestion-pro/internal/domain/pricing"
	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

// Prefijos de numeración por tipo de documento.
var docPrefixes = map[string]string{
	entity.DocTypeQuotation:     "COT",
	entity.DocTypePurchaseOrder: "OC",
	entity.DocTypeInvoice:       "FAC",
	entity.DocTypeDeliveryNote:  "REM",
}

// TaxConfig política de impuestos inyectada desde configuración: una sola
// tabla para todos los tipos de documento, con fallback explícito.
type TaxConfig struct {
	Policy       pricing.TaxPolicy
	FallbackRate decimal.Decimal
}

// DocumentUseCase crea y gestiona documentos comerciales. La creación de una
// factura descuenta inventario en la misma transacción; la recepción de una
// orden de compra lo aumenta.
type DocumentUseCase struct {
	txRunner      DocumentTxRunner
	inventoryUC   InventoryMover
	customerRepo  repository.CustomerRepository
	supplierRepo  repository.SupplierRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	docRepo       repository.DocumentRepository
	tax           TaxConfig
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(
	txRunner DocumentTxRunner,
	inventoryUC InventoryMover,
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	docRepo repository.DocumentRepository,
	tax TaxConfig,
) *DocumentUseCase {
	return &DocumentUseCase{
		txRunner:      txRunner,
		inventoryUC:   inventoryUC,
		customerRepo:  customerRepo,
		supplierRepo:  supplierRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		docRepo:       docRepo,
		tax:           tax,
	}
}

// Create crea una cotización, orden de compra o factura. Valida las partes,
// calcula los totales con el motor de pricing y persiste cabecera + líneas
// con el consecutivo asignado, todo en una transacción. Para facturas
// registra además la salida de inventario por cada línea.
func (uc *DocumentUseCase) Create(ctx context.Context, companyID, userID, docType string, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	if docType != entity.DocTypeQuotation && docType != entity.DocTypePurchaseOrder && docType != entity.DocTypeInvoice {
		return nil, domain.ErrInvalidInput
	}
	if in.PartyID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if docType == entity.DocTypeInvoice && in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}

	// Validar la parte (cliente en ventas, proveedor en compras)
	partyName, err := uc.resolveParty(companyID, docType, in.PartyID)
	if err != nil {
		return nil, err
	}

	if in.WarehouseID != "" {
		wh, _ := uc.warehouseRepo.GetByID(in.WarehouseID)
		if wh == nil || wh.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
	}

	// Validar productos y completar precios por defecto (fuera de la tx, solo lectura)
	productsByID := make(map[string]*entity.Product)
	items := make([]pricing.LineItem, len(in.Items))
	for i, item := range in.Items {
		if item.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		productsByID[item.ProductID] = product

		unitPrice := item.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = defaultUnitPrice(docType, product)
		}
		items[i] = pricing.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		}
	}

	var disc *pricing.Discount
	if in.Discount != nil {
		disc = &pricing.Discount{Kind: in.Discount.Kind, Value: in.Discount.Value}
	}
	taxRate := uc.tax.Policy.Resolve(in.DutyStatus, uc.tax.FallbackRate)

	// El motor valida cantidades/precios/descuento y calcula el snapshot de totales.
	totals, err := pricing.ComputeTotals(items, disc, taxRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	docID := uuid.New().String()
	status := entity.DocStatusDraft
	if docType == entity.DocTypeInvoice {
		// La factura nace emitida: el stock sale en esta misma transacción.
		status = entity.DocStatusIssued
	}

	doc := &entity.Document{
		ID:             docID,
		CompanyID:      companyID,
		Type:           docType,
		PartyID:        in.PartyID,
		Prefix:         docPrefixes[docType],
		Status:         status,
		Date:           now,
		DutyStatus:     in.DutyStatus,
		TaxRate:        taxRate,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		NetAmount:      totals.NetAmount,
		TaxAmount:      totals.TaxAmount,
		GrandTotal:     totals.GrandTotal,
		Notes:          in.Notes,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if disc != nil && !disc.Value.IsZero() {
		doc.DiscountKind = disc.Kind
		doc.DiscountValue = disc.Value
	}

	var lines []*entity.DocumentLine
	err = uc.txRunner.RunDocument(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		docRepo repository.DocumentRepository,
		seqRepo repository.SequenceRepository,
	) error {
		number, err := seqRepo.Next(companyID, docType)
		if err != nil {
			return err
		}
		doc.Number = number

		if err := docRepo.Create(doc); err != nil {
			return err
		}
		for _, item := range items {
			lt, err := pricing.LineTotal(item.Quantity, item.UnitPrice)
			if err != nil {
				return err
			}
			line := &entity.DocumentLine{
				ID:         uuid.New().String(),
				DocumentID: doc.ID,
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice,
				LineTotal:  lt,
			}
			if err := docRepo.CreateLine(line); err != nil {
				return err
			}
			lines = append(lines, line)
		}

		if docType == entity.DocTypeInvoice {
			// Salida de inventario por cada línea; sin stock → rollback total.
			for _, item := range items {
				product := productsByID[item.ProductID]
				if err := uc.inventoryUC.RegisterOUTInTx(
					movRepo, stockRepo, product,
					item.ProductID, in.WarehouseID, userID,
					decimal.NewFromInt(item.Quantity),
					now, doc.ID,
				); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toDocumentResponse(doc, lines)
	resp.PartyName = partyName
	return resp, nil
}

// resolveParty valida que la parte exista y sea de la empresa; retorna su nombre.
func (uc *DocumentUseCase) resolveParty(companyID, docType, partyID string) (string, error) {
	if docType == entity.DocTypePurchaseOrder {
		supplier, err := uc.supplierRepo.GetByID(partyID)
		if err != nil || supplier == nil {
			return "", domain.ErrNotFound
		}
		if supplier.CompanyID != companyID {
			return "", domain.ErrForbidden
		}
		return supplier.Name, nil
	}
	customer, err := uc.customerRepo.GetByID(partyID)
	if err != nil || customer == nil {
		return "", domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return "", domain.ErrForbidden
	}
	return customer.Name, nil
}

// defaultUnitPrice precio cuando la línea llega en cero: precio de venta del
// catálogo en ventas; en compras el costo promedio, o el precio si aún no hay costo.
func defaultUnitPrice(docType string, product *entity.Product) decimal.Decimal {
	if docType == entity.DocTypePurchaseOrder && !product.Cost.IsZero() {
		return product.Cost
	}
	return product.Price
}

func toDocumentResponse(doc *entity.Document, lines []*entity.DocumentLine) *dto.DocumentResponse {
	resp := &dto.DocumentResponse{
		ID:             doc.ID,
		CompanyID:      doc.CompanyID,
		Type:           doc.Type,
		PartyID:        doc.PartyID,
		Prefix:         doc.Prefix,
		Number:         doc.Number,
		Status:         doc.Status,
		Date:           doc.Date.Format(time.RFC3339),
		DutyStatus:     doc.DutyStatus,
		TaxRate:        doc.TaxRate,
		Subtotal:       doc.Subtotal,
		DiscountAmount: doc.DiscountAmount,
		NetAmount:      doc.NetAmount,
		TaxAmount:      doc.TaxAmount,
		GrandTotal:     doc.GrandTotal,
		SourceDocID:    doc.SourceDocID,
		Notes:          doc.Notes,
	}
	if doc.DiscountKind != "" {
		resp.Discount = &dto.DiscountDTO{Kind: doc.DiscountKind, Value: doc.DiscountValue}
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.DocumentLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		})
	}
	return resp
}
