package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/gestion-pro/internal/application/dto"
	"github.com/tu-usuario/gestion-pro/internal/domain"
	"github.com/tu-usuario/gestion-pro/internal/domain/entity"
	"github.com/tu-usuario/gestion-pro/internal/domain/inventory"
	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de inventario de forma
// transaccional (IN, OUT, ADJUSTMENT) con bloqueo de fila (SELECT FOR UPDATE).
// También expone RegisterOUTInTx/RegisterINInTx para que la creación de
// documentos mueva stock dentro de su propia transacción.
type RegisterMovementUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
	}
}

// RegisterMovement valida, inicia una transacción, bloquea la fila de stock
// y aplica la lógica según tipo. Commit o Rollback lo decide TxRunner.Run.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, companyID, userID string, in dto.RegisterMovementRequest) error {
	switch in.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT, entity.MovementTypeADJUSTMENT:
		if in.ProductID == "" || in.WarehouseID == "" || in.Quantity.IsZero() {
			return domain.ErrInvalidInput
		}
		if in.Type == entity.MovementTypeIN && (in.UnitCost == nil || in.UnitCost.IsNegative()) {
			return domain.ErrInvalidInput
		}
		if in.Type == entity.MovementTypeOUT && in.Quantity.IsNegative() {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return domain.ErrForbidden
	}
	wh, _ := uc.warehouseRepo.GetByID(in.WarehouseID)
	if wh == nil || wh.CompanyID != companyID {
		return domain.ErrNotFound
	}

	now := time.Now()
	txID := uuid.New().String()

	return uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		switch in.Type {
		case entity.MovementTypeIN:
			return uc.RegisterINInTx(movRepo, stockRepo, productRepo, product,
				in.ProductID, in.WarehouseID, userID, in.Quantity, *in.UnitCost, now, txID)
		case entity.MovementTypeOUT:
			return uc.RegisterOUTInTx(movRepo, stockRepo, product,
				in.ProductID, in.WarehouseID, userID, in.Quantity, now, txID)
		case entity.MovementTypeADJUSTMENT:
			return uc.doADJUSTMENT(movRepo, stockRepo, product, in, userID, now, txID)
		}
		return domain.ErrInvalidInput
	})
}

// RegisterINInTx ejecuta una entrada usando los repositorios del caller
// (misma transacción): bloquea la fila de stock, recalcula el costo promedio
// ponderado, actualiza el costo del producto, suma stock y guarda el movimiento.
func (uc *RegisterMovementUseCase) RegisterINInTx(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	productID, warehouseID, userID string,
	quantity, unitCost decimal.Decimal,
	now time.Time,
	transactionID string,
) error {
	stock, err := stockRepo.GetForUpdate(productID, warehouseID)
	if err != nil {
		return err
	}
	newCost := inventory.WeightedAverageCost(stock.Quantity, product.Cost, quantity, unitCost)
	if err := productRepo.UpdateCost(productID, newCost); err != nil {
		return err
	}
	stock.Quantity = stock.Quantity.Add(quantity)
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return err
	}
	mov := &entity.InventoryMovement{
		TransactionID: transactionID,
		ProductID:     productID,
		WarehouseID:   warehouseID,
		Type:          entity.MovementTypeIN,
		Quantity:      quantity,
		UnitCost:      unitCost,
		TotalCost:     quantity.Mul(unitCost),
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     userID,
	}
	return movRepo.Create(mov)
}

// RegisterOUTInTx ejecuta una salida usando los repositorios del caller
// (misma transacción). transactionID suele ser el ID del documento origen.
// Retorna ErrInsufficientStock si no alcanza; el caller hace rollback.
func (uc *RegisterMovementUseCase) RegisterOUTInTx(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	product *entity.Product,
	productID, warehouseID, userID string,
	quantity decimal.Decimal,
	now time.Time,
	transactionID string,
) error {
	stock, err := stockRepo.GetForUpdate(productID, warehouseID)
	if err != nil {
		return err
	}
	if stock.Quantity.LessThan(quantity) {
		return domain.ErrInsufficientStock
	}
	stock.Quantity = stock.Quantity.Sub(quantity)
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return err
	}
	unitCost := product.Cost
	mov := &entity.InventoryMovement{
		TransactionID: transactionID,
		ProductID:     productID,
		WarehouseID:   warehouseID,
		Type:          entity.MovementTypeOUT,
		Quantity:      quantity.Neg(),
		UnitCost:      unitCost,
		TotalCost:     quantity.Neg().Mul(unitCost),
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     userID,
	}
	return movRepo.Create(mov)
}

// doADJUSTMENT: cantidad positiva suma stock sin tocar el costo; negativa
// descuenta validando que alcance.
func (uc *RegisterMovementUseCase) doADJUSTMENT(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	product *entity.Product,
	in dto.RegisterMovementRequest,
	userID string,
	now time.Time, txID string,
) error {
	stock, err := stockRepo.GetForUpdate(in.ProductID, in.WarehouseID)
	if err != nil {
		return err
	}
	newQty := stock.Quantity.Add(in.Quantity)
	if newQty.IsNegative() {
		return domain.ErrInsufficientStock
	}
	stock.Quantity = newQty
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return err
	}
	mov := &entity.InventoryMovement{
		TransactionID: txID,
		ProductID:     in.ProductID,
		WarehouseID:   in.WarehouseID,
		Type:          entity.MovementTypeADJUSTMENT,
		Quantity:      in.Quantity,
		UnitCost:      product.Cost,
		TotalCost:     in.Quantity.Mul(product.Cost),
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     userID,
	}
	return movRepo.Create(mov)
}
