package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/gestion-pro/internal/domain/entity"
)

func TestCanTransition_Cotizacion(t *testing.T) {
	q := &entity.Document{Type: entity.DocTypeQuotation, Status: entity.DocStatusIssued}

	assert.True(t, q.CanTransition(entity.DocStatusAccepted))
	assert.True(t, q.CanTransition(entity.DocStatusRejected))
	assert.False(t, q.CanTransition(entity.DocStatusPaid), "una cotización nunca se paga directo")
	assert.False(t, q.CanTransition(entity.DocStatusConverted), "solo una cotización aceptada se convierte")

	q.Status = entity.DocStatusAccepted
	assert.True(t, q.CanTransition(entity.DocStatusConverted))
}

func TestCanTransition_Factura(t *testing.T) {
	inv := &entity.Document{Type: entity.DocTypeInvoice, Status: entity.DocStatusIssued}

	assert.True(t, inv.CanTransition(entity.DocStatusPaid))
	assert.True(t, inv.CanTransition(entity.DocStatusCancelled))

	inv.Status = entity.DocStatusPaid
	assert.False(t, inv.CanTransition(entity.DocStatusIssued), "una factura pagada es terminal")
}

func TestIsSales(t *testing.T) {
	assert.True(t, (&entity.Document{Type: entity.DocTypeQuotation}).IsSales())
	assert.True(t, (&entity.Document{Type: entity.DocTypeInvoice}).IsSales())
	assert.True(t, (&entity.Document{Type: entity.DocTypeDeliveryNote}).IsSales())
	assert.False(t, (&entity.Document{Type: entity.DocTypePurchaseOrder}).IsSales())
}
