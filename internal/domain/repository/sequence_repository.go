package repository

// SequenceRepository asigna consecutivos de documento por empresa+tipo.
// Next debe ser atómico: dos creaciones concurrentes nunca reciben el
// mismo número (la implementación PostgreSQL usa un upsert con RETURNING
// dentro de la transacción del documento).
type SequenceRepository interface {
	Next(companyID, docType string) (int64, error)
}
