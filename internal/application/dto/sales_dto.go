package dto

import "github.com/shopspring/decimal"

// CheckoutItemRequest línea solicitada en POST /api/transactions.
type CheckoutItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
}

// CheckoutRequest body para POST /api/transactions.
type CheckoutRequest struct {
	PaymentMethod  string                `json:"payment_method"`
	CustomerName   string                `json:"customer_name,omitempty"`
	CustomerPhone  string                `json:"customer_phone,omitempty"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	Items          []CheckoutItemRequest `json:"items"`
}

// SaleLineItemResponse línea de venta en respuestas (con foto de nombre y precio).
type SaleLineItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int64           `json:"quantity"`
	Discount    decimal.Decimal `json:"discount"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// TransactionResponse venta con detalle.
type TransactionResponse struct {
	ID             string                 `json:"id"`
	Number         string                 `json:"number"`
	Date           string                 `json:"date"`
	PaymentMethod  string                 `json:"payment_method"`
	CustomerName   string                 `json:"customer_name,omitempty"`
	CustomerPhone  string                 `json:"customer_phone,omitempty"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	TotalAmount    decimal.Decimal        `json:"total_amount"`
	TaxAmount      decimal.Decimal        `json:"tax_amount"`
	NetAmount      decimal.Decimal        `json:"net_amount"`
	Status         string                 `json:"status"`
	Items          []SaleLineItemResponse `json:"items"`
}

// TodaySalesResponse suma del neto de ventas COMPLETED del día (UTC).
type TodaySalesResponse struct {
	Date     string          `json:"date"`
	NetTotal decimal.Decimal `json:"net_total"`
}
