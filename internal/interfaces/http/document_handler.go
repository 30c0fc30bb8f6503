package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/gestion-pro/internal/application/dto"
	"github.com/tu-usuario/gestion-pro/internal/application/sales"
	"github.com/tu-usuario/gestion-pro/internal/domain/repository"
)

// DocumentHandler maneja las peticiones HTTP de documentos comerciales:
// cotizaciones, órdenes de compra, facturas y remisiones (protegido).
type DocumentHandler struct {
	uc    *sales.DocumentUseCase
	pdfUC *sales.PDFUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *sales.DocumentUseCase, pdfUC *sales.PDFUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc, pdfUC: pdfUC}
}

// Create devuelve el handler de creación para un tipo de documento fijo.
// POST /api/quotations | /api/purchase-orders | /api/invoices
func (h *DocumentHandler) Create(docType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.CreateDocumentRequest
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
		doc, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), docType, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetByID obtiene un documento completo (cabecera + líneas).
// GET /api/documents/:id
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(doc)
}

// List lista documentos con filtros por tipo, estado y tercero.
// GET /api/documents?type=&status=&party_id=&limit=&offset=
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	filter := repository.DocumentFilter{
		Type:    c.Query("type"),
		Status:  c.Query("status"),
		PartyID: c.Query("party_id"),
		Limit:   c.QueryInt("limit", 20),
		Offset:  c.QueryInt("offset", 0),
	}
	docs, err := h.uc.List(c.Context(), GetCompanyID(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(docs)
}

// ListTyped devuelve el handler de listado para un tipo de documento fijo.
// GET /api/quotations | /api/purchase-orders | /api/invoices
func (h *DocumentHandler) ListTyped(docType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := repository.DocumentFilter{
			Type:    docType,
			Status:  c.Query("status"),
			PartyID: c.Query("party_id"),
			Limit:   c.QueryInt("limit", 20),
			Offset:  c.QueryInt("offset", 0),
		}
		docs, err := h.uc.List(c.Context(), GetCompanyID(c), filter)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(docs)
	}
}

// UpdateStatus cambia el estado de un documento validando la transición.
// Recibir una orden de compra (ISSUED → RECEIVED) registra entradas de inventario.
// PATCH /api/documents/:id/status
func (h *DocumentHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateDocumentStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateStatus(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Convert convierte una cotización aceptada en factura (copia los totales tal cual).
// POST /api/quotations/:id/convert
func (h *DocumentHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertQuotationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.uc.ConvertQuotation(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in.WarehouseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// CreateDeliveryNote genera la remisión de una factura (líneas a precio cero, sin mover stock).
// POST /api/invoices/:id/delivery-note
func (h *DocumentHandler) CreateDeliveryNote(c *fiber.Ctx) error {
	note, err := h.uc.CreateDeliveryNote(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// GetPDF genera y descarga el PDF del documento.
// GET /api/documents/:id/pdf
func (h *DocumentHandler) GetPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.pdfUC.GeneratePDF(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="documento.pdf"`)
	return c.Send(pdfBytes)
}
