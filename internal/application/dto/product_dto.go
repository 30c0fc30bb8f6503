package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	Price       decimal.Decimal `json:"price"`
	UnitMeasure string          `json:"unit_measure,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id.
type UpdateProductRequest struct {
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	Price       decimal.Decimal `json:"price,omitempty"`
	Status      string          `json:"status,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	CategoryID  string          `json:"category_id,omitempty"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	UnitMeasure string          `json:"unit_measure,omitempty"`
	Status      string          `json:"status"`
}

// CreateCategoryRequest body para POST /api/categories.
type CreateCategoryRequest struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	ParentID string `json:"parent_id,omitempty"`
}

// CategoryResponse categoría en respuestas.
type CategoryResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	ParentID  string `json:"parent_id,omitempty"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Status    string `json:"status"`
}
