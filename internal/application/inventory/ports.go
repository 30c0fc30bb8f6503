package inventory

import (
	"context"

	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error) error
}
