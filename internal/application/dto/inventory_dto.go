package dto

// AdjustmentRequest body para POST /api/inventory/adjustments.
// Quantity es el delta con signo: positivo entrada, negativo salida.
type AdjustmentRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Kind      string `json:"kind"` // ADJUSTMENT, DAMAGE, TRANSFER, RETURN
	Reference string `json:"reference,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// MovementResponse movimiento de inventario en respuestas.
type MovementResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Kind      string `json:"kind"`
	Quantity  int64  `json:"quantity"`
	Reference string `json:"reference,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
	CreatedBy string `json:"created_by,omitempty"`
}
