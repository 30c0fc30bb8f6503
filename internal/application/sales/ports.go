package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/gestion-pro/internal/domain/entity"
	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

// DocumentTxRunner ejecuta una función dentro de una transacción que incluye
// repos de inventario, documentos y secuencias (para crear documentos).
type DocumentTxRunner interface {
	RunDocument(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		docRepo repository.DocumentRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}

// InventoryMover integra documentos con inventario: las salidas (factura) y
// entradas (recepción de orden de compra) se ejecutan con los repositorios
// del caller, en la misma transacción. Si retorna error (ej:
// ErrInsufficientStock), el caller debe hacer rollback.
type InventoryMover interface {
	RegisterOUTInTx(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		product *entity.Product,
		productID, warehouseID, userID string,
		quantity decimal.Decimal,
		now time.Time,
		transactionID string,
	) error
	RegisterINInTx(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		product *entity.Product,
		productID, warehouseID, userID string,
		quantity, unitCost decimal.Decimal,
		now time.Time,
		transactionID string,
	) error
}

// DocumentLineForPDF línea enriquecida con datos de producto para el PDF.
type DocumentLineForPDF struct {
	ProductName string
	SKU         string
	Quantity    int64
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// DocumentPDFGenerator genera la representación gráfica de un documento.
type DocumentPDFGenerator interface {
	GenerateDocumentPDF(
		ctx context.Context,
		doc *entity.Document,
		company *entity.Company,
		partyName string,
		lines []DocumentLineForPDF,
	) ([]byte, error)
}
