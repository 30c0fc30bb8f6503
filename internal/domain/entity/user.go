package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleVendedor  = "vendedor"  // ventas: cotizaciones, facturas, remisiones
	RoleComprador = "comprador" // compras: órdenes de compra, recepciones
	RoleBodeguero = "bodeguero" // inventario: movimientos y ajustes
)

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, vendedor, comprador, bodeguero
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
