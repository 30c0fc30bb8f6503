package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo asigna consecutivos de documento por empresa+tipo.
// Next se usa dentro de la transacción del documento: si la creación
// falla, el rollback devuelve el número (sin huecos en el consecutivo).
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador de secuencias. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente consecutivo para (empresa, tipo de documento).
// Upsert atómico: dos transacciones concurrentes serializan sobre la fila
// y nunca reciben el mismo número.
func (r *SequenceRepo) Next(companyID, docType string) (int64, error) {
	query := `
		INSERT INTO document_sequences (company_id, doc_type, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, doc_type)
		DO UPDATE SET last_number = document_sequences.last_number + 1
		RETURNING last_number`
	var number int64
	if err := r.q.QueryRow(context.Background(), query, companyID, docType).Scan(&number); err != nil {
		return 0, fmt.Errorf("next document number: %w", err)
	}
	return number, nil
}
