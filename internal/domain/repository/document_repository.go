package repository

import "github.com/tu-usuario/gestion-pro/internal/domain/entity"

// DocumentFilter filtros para listados de documentos.
type DocumentFilter struct {
	Type    string // vacío = todos
	Status  string // vacío = todos
	PartyID string // vacío = todos
	Limit   int
	Offset  int
}

// DocumentRepository define el puerto de persistencia para documentos
// comerciales (cabecera + líneas).
type DocumentRepository interface {
	Create(doc *entity.Document) error
	CreateLine(line *entity.DocumentLine) error
	GetByID(id string) (*entity.Document, error)
	GetLinesByDocumentID(documentID string) ([]*entity.DocumentLine, error)
	ListByCompany(companyID string, filter DocumentFilter) ([]*entity.Document, error)
	UpdateStatus(id, status string) error
	SetSourceDoc(id, sourceDocID string) error
}
