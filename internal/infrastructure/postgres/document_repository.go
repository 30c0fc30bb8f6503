package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/gestion-pro/internal/domain"
	"github.com/tu-usuario/gestion-pro/internal/domain/entity"
	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository sobre PostgreSQL (usable con pool o tx).
// Cabecera en documents, líneas en document_lines.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador de documentos. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, company_id, type, party_id, prefix, number, status, date,
		duty_status, tax_rate, discount_kind, discount_value,
		subtotal, discount_amount, net_amount, tax_amount, grand_total,
		source_doc_id, notes, created_by, created_at, updated_at`

// Create persiste la cabecera de un documento con su snapshot de totales.
func (r *DocumentRepo) Create(doc *entity.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.CompanyID, doc.Type, doc.PartyID, doc.Prefix, doc.Number, doc.Status, doc.Date,
		doc.DutyStatus, doc.TaxRate, nullIfEmpty(doc.DiscountKind), doc.DiscountValue,
		doc.Subtotal, doc.DiscountAmount, doc.NetAmount, doc.TaxAmount, doc.GrandTotal,
		nullIfEmpty(doc.SourceDocID), doc.Notes, doc.CreatedBy, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de documento.
func (r *DocumentRepo) CreateLine(line *entity.DocumentLine) error {
	query := `
		INSERT INTO document_lines (id, document_id, product_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.DocumentID, line.ProductID, line.Quantity, line.UnitPrice, line.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert document line: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de un documento por ID.
func (r *DocumentRepo) GetByID(id string) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.q.QueryRow(context.Background(), query, id))
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	var discountKind, sourceDocID *string
	err := row.Scan(
		&d.ID, &d.CompanyID, &d.Type, &d.PartyID, &d.Prefix, &d.Number, &d.Status, &d.Date,
		&d.DutyStatus, &d.TaxRate, &discountKind, &d.DiscountValue,
		&d.Subtotal, &d.DiscountAmount, &d.NetAmount, &d.TaxAmount, &d.GrandTotal,
		&sourceDocID, &d.Notes, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if discountKind != nil {
		d.DiscountKind = *discountKind
	}
	if sourceDocID != nil {
		d.SourceDocID = *sourceDocID
	}
	return &d, nil
}

// GetLinesByDocumentID obtiene las líneas de un documento en orden de inserción.
func (r *DocumentRepo) GetLinesByDocumentID(documentID string) ([]*entity.DocumentLine, error) {
	query := `
		SELECT id, document_id, product_id, quantity, unit_price, line_total
		FROM document_lines WHERE document_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// ListByCompany lista documentos por empresa con filtros opcionales y paginación.
func (r *DocumentRepo) ListByCompany(companyID string, filter repository.DocumentFilter) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.PartyID != "" {
		query += fmt.Sprintf(" AND party_id = $%d", pos)
		args = append(args, filter.PartyID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC, number DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		var d entity.Document
		var discountKind, sourceDocID *string
		if err := rows.Scan(
			&d.ID, &d.CompanyID, &d.Type, &d.PartyID, &d.Prefix, &d.Number, &d.Status, &d.Date,
			&d.DutyStatus, &d.TaxRate, &discountKind, &d.DiscountValue,
			&d.Subtotal, &d.DiscountAmount, &d.NetAmount, &d.TaxAmount, &d.GrandTotal,
			&sourceDocID, &d.Notes, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		if discountKind != nil {
			d.DiscountKind = *discountKind
		}
		if sourceDocID != nil {
			d.SourceDocID = *sourceDocID
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de un documento.
func (r *DocumentRepo) UpdateStatus(id, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE documents SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetSourceDoc registra el documento origen (cotización de una factura, factura de una remisión).
func (r *DocumentRepo) SetSourceDoc(id, sourceDocID string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE documents SET source_doc_id = $2, updated_at = now() WHERE id = $1`,
		id, sourceDocID,
	)
	if err != nil {
		return fmt.Errorf("set source doc: %w", err)
	}
	return nil
}
