package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada (compra, recepción)
	MovementTypeOUT        = "OUT"        // salida (venta, remisión)
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste
)

// InventoryMovement representa un movimiento de inventario. TransactionID
// referencia el documento origen (factura, orden de compra) cuando aplica.
type InventoryMovement struct {
	ID            string
	TransactionID string
	ProductID     string
	WarehouseID   string
	Type          string
	Quantity      decimal.Decimal // positivo entrada/ajuste+, negativo salida
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}
