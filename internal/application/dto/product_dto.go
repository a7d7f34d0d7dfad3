package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/products. El stock inicial entra
// por un movimiento de ajuste, no por este endpoint.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	MinStock    int64           `json:"min_stock"`
	MaxStock    int64           `json:"max_stock"`
}

// UpdateProductRequest patch parcial de producto. Stock no es editable.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	CategoryID  *string          `json:"category_id,omitempty"`
	SalePrice   *decimal.Decimal `json:"sale_price,omitempty"`
	CostPrice   *decimal.Decimal `json:"cost_price,omitempty"`
	MinStock    *int64           `json:"min_stock,omitempty"`
	MaxStock    *int64           `json:"max_stock,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Stock       int64           `json:"stock"`
	MinStock    int64           `json:"min_stock"`
	MaxStock    int64           `json:"max_stock"`
	LowStock    bool            `json:"low_stock"`
}
