package dto

import "github.com/shopspring/decimal"

// PurchaseItemRequest línea de compra en requests.
type PurchaseItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Note      string          `json:"note,omitempty"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	ProviderID string                `json:"provider_id"`
	Date       string                `json:"date,omitempty"` // YYYY-MM-DD; vacío = hoy
	Status     string                `json:"status,omitempty"`
	Note       string                `json:"note,omitempty"`
	Items      []PurchaseItemRequest `json:"items"`
}

// UpdatePurchaseRequest body para PUT /api/purchases/:id. Solo se aplican los
// campos presentes; items reemplaza las líneas completas (no permitido en PAID).
type UpdatePurchaseRequest struct {
	Date   *string                `json:"date,omitempty"`
	Status *string                `json:"status,omitempty"`
	Note   *string                `json:"note,omitempty"`
	Items  *[]PurchaseItemRequest `json:"items,omitempty"`
}

// PurchaseItemResponse línea de compra en respuestas.
type PurchaseItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Note      string          `json:"note,omitempty"`
	Total     decimal.Decimal `json:"total"`
}

// PurchaseResponse compra con detalle.
type PurchaseResponse struct {
	ID         string                 `json:"id"`
	Code       string                 `json:"code"`
	Date       string                 `json:"date"`
	ProviderID string                 `json:"provider_id"`
	Status     string                 `json:"status"`
	Note       string                 `json:"note,omitempty"`
	Items      []PurchaseItemResponse `json:"items"`
}
