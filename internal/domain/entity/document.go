package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento comercial. Cotizaciones, órdenes de compra, facturas
// de venta y remisiones comparten cabecera, líneas y motor de totales.
const (
	DocTypeQuotation     = "QUOTATION"
	DocTypePurchaseOrder = "PURCHASE_ORDER"
	DocTypeInvoice       = "INVOICE"
	DocTypeDeliveryNote  = "DELIVERY_NOTE"
)

// Estados de documento.
const (
	DocStatusDraft     = "DRAFT"
	DocStatusIssued    = "ISSUED"
	DocStatusAccepted  = "ACCEPTED"  // cotización aceptada por el cliente
	DocStatusRejected  = "REJECTED"  // cotización rechazada
	DocStatusConverted = "CONVERTED" // cotización convertida en factura
	DocStatusReceived  = "RECEIVED"  // orden de compra recibida en bodega
	DocStatusPaid      = "PAID"      // factura pagada
	DocStatusDelivered = "DELIVERED" // remisión entregada
	DocStatusCancelled = "CANCELLED"
)

// Document es la cabecera de un documento comercial. PartyID referencia al
// cliente (ventas) o al proveedor (órdenes de compra). Los totales son el
// snapshot calculado por el motor al crear el documento: no se recalculan
// al leer, así los documentos históricos no cambian si cambia la política
// de impuestos.
type Document struct {
	ID             string
	CompanyID      string
	Type           string
	PartyID        string
	Prefix         string
	Number         int64 // consecutivo por empresa+tipo (asignado por secuencia)
	Status         string
	Date           time.Time
	DutyStatus     string // término de entrega que selecciona la tasa de impuesto
	TaxRate        decimal.Decimal
	DiscountKind   string          // PERCENTAGE, FIXED o vacío si no hay descuento
	DiscountValue  decimal.Decimal // cero si no hay descuento
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	NetAmount      decimal.Decimal
	TaxAmount      decimal.Decimal
	GrandTotal     decimal.Decimal
	SourceDocID    string // factura origen de una remisión, cotización origen de una factura
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DocumentLine representa una línea de documento. LineTotal siempre lo
// calcula el motor a partir de Quantity y UnitPrice; nunca se edita a mano.
type DocumentLine struct {
	ID         string
	DocumentID string
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	LineTotal  decimal.Decimal
}

// transiciones válidas por tipo de documento.
var docTransitions = map[string]map[string][]string{
	DocTypeQuotation: {
		DocStatusDraft:    {DocStatusIssued, DocStatusCancelled},
		DocStatusIssued:   {DocStatusAccepted, DocStatusRejected, DocStatusCancelled},
		DocStatusAccepted: {DocStatusConverted},
	},
	DocTypePurchaseOrder: {
		DocStatusDraft:  {DocStatusIssued, DocStatusCancelled},
		DocStatusIssued: {DocStatusReceived, DocStatusCancelled},
	},
	DocTypeInvoice: {
		DocStatusIssued: {DocStatusPaid, DocStatusCancelled},
	},
	DocTypeDeliveryNote: {
		DocStatusIssued: {DocStatusDelivered, DocStatusCancelled},
	},
}

// CanTransition verifica si el documento puede pasar del estado actual a `to`.
func (d *Document) CanTransition(to string) bool {
	for _, s := range docTransitions[d.Type][d.Status] {
		if s == to {
			return true
		}
	}
	return false
}

// IsSales indica si el documento pertenece al flujo de ventas (PartyID es un cliente).
func (d *Document) IsSales() bool {
	return d.Type == DocTypeQuotation || d.Type == DocTypeInvoice || d.Type == DocTypeDeliveryNote
}
