package dto

import "github.com/shopspring/decimal"

// DiscountDTO descuento del documento: PERCENTAGE (0–100) o FIXED (moneda).
type DiscountDTO struct {
	Kind  string          `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// DocumentItemRequest línea de documento (producto, cantidad, precio unitario).
// UnitPrice en cero toma el precio de venta del catálogo.
type DocumentItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateDocumentRequest body para POST /api/quotations, /api/purchase-orders
// y /api/invoices. PartyID es el cliente (ventas) o el proveedor (compras).
// WarehouseID solo se usa en facturas (descuenta inventario) y en la
// recepción de órdenes de compra.
type CreateDocumentRequest struct {
	PartyID     string                `json:"party_id"`
	WarehouseID string                `json:"warehouse_id,omitempty"`
	DutyStatus  string                `json:"duty_status,omitempty"`
	Discount    *DiscountDTO          `json:"discount,omitempty"`
	Notes       string                `json:"notes,omitempty"`
	Items       []DocumentItemRequest `json:"items"`
}

// UpdateDocumentStatusRequest body para PATCH /api/documents/:id/status.
type UpdateDocumentStatusRequest struct {
	Status      string `json:"status"`
	WarehouseID string `json:"warehouse_id,omitempty"` // requerido al recibir una orden de compra
}

// ConvertQuotationRequest body para POST /api/quotations/:id/convert.
// La bodega es necesaria porque la factura resultante descuenta inventario.
type ConvertQuotationRequest struct {
	WarehouseID string `json:"warehouse_id"`
}

// DocumentLineResponse línea en la respuesta.
type DocumentLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// DocumentResponse documento completo con líneas y totales.
type DocumentResponse struct {
	ID             string                 `json:"id"`
	CompanyID      string                 `json:"company_id"`
	Type           string                 `json:"type"`
	PartyID        string                 `json:"party_id"`
	PartyName      string                 `json:"party_name,omitempty"`
	Prefix         string                 `json:"prefix"`
	Number         int64                  `json:"number"`
	Status         string                 `json:"status"`
	Date           string                 `json:"date"`
	DutyStatus     string                 `json:"duty_status,omitempty"`
	TaxRate        decimal.Decimal        `json:"tax_rate"`
	Discount       *DiscountDTO           `json:"discount,omitempty"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	NetAmount      decimal.Decimal        `json:"net_amount"`
	TaxAmount      decimal.Decimal        `json:"tax_amount"`
	GrandTotal     decimal.Decimal        `json:"grand_total"`
	SourceDocID    string                 `json:"source_doc_id,omitempty"`
	Notes          string                 `json:"notes,omitempty"`
	Lines          []DocumentLineResponse `json:"lines"`
}

// DocumentListItem resumen para listados (sin líneas).
type DocumentListItem struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	PartyID    string          `json:"party_id"`
	Prefix     string          `json:"prefix"`
	Number     int64           `json:"number"`
	Status     string          `json:"status"`
	Date       string          `json:"date"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}
