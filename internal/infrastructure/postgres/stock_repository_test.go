package postgres_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/gestion-pro/internal/domain/entity"
	"github.com/tu-usuario/gestion-pro/internal/infrastructure/postgres"
)

// stubQuerier registra las sentencias ejecutadas, en orden, para verificar
// el protocolo SQL del repositorio sin base de datos.
type stubQuerier struct {
	statements []string
	scan       func(dest ...any) error
}

func (s *stubQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	s.statements = append(s.statements, sql)
	return pgconn.CommandTag{}, nil
}

func (s *stubQuerier) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	panic("Query no esperado en este repositorio")
}

func (s *stubQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	s.statements = append(s.statements, sql)
	return rowFunc(s.scan)
}

type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

func TestStockGetForUpdate_SiembraLaFilaAntesDeBloquear(t *testing.T) {
	q := &stubQuerier{scan: func(dest ...any) error {
		*(dest[0].(*string)) = "p1"
		*(dest[1].(*string)) = "wh-1"
		*(dest[2].(*decimal.Decimal)) = decimal.Zero
		*(dest[3].(*time.Time)) = time.Now()
		return nil
	}}
	repo := postgres.NewStockRepository(q)

	stock, err := repo.GetForUpdate("p1", "wh-1")
	require.NoError(t, err)
	require.NotNil(t, stock)
	assert.True(t, stock.Quantity.IsZero())

	require.Len(t, q.statements, 2, "primero el INSERT de siembra, luego el SELECT bloqueante")

	seed := q.statements[0]
	assert.Contains(t, seed, "INSERT INTO stock")
	assert.Contains(t, seed, "ON CONFLICT (product_id, warehouse_id) DO NOTHING",
		"la siembra no debe tocar una fila existente")

	lock := q.statements[1]
	assert.Contains(t, lock, "FOR UPDATE",
		"la fila sembrada debe quedar bloqueada dentro de la transacción")
	assert.True(t, strings.Contains(lock, "SELECT"))
}

func TestStockUpsert_EscribeBajoElLockDelCaller(t *testing.T) {
	q := &stubQuerier{}
	repo := postgres.NewStockRepository(q)

	err := repo.Upsert(&entity.Stock{ProductID: "p1", WarehouseID: "wh-1", Quantity: decimal.NewFromInt(12)})
	require.NoError(t, err)

	require.Len(t, q.statements, 1)
	// La cantidad es absoluta: el caller la calculó con la fila bloqueada
	// por GetForUpdate, que garantiza que la fila existe.
	assert.Contains(t, q.statements[0], "DO UPDATE SET quantity = EXCLUDED.quantity")
}
