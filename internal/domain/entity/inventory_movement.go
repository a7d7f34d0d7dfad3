package entity

import "time"

// Clases de movimiento de inventario.
const (
	MovementKindPurchase   = "PURCHASE"   // entrada por compra
	MovementKindSale       = "SALE"       // salida por venta
	MovementKindAdjustment = "ADJUSTMENT" // ajuste manual
	MovementKindReturn     = "RETURN"     // reverso (venta anulada, compra revertida)
	MovementKindDamage     = "DAMAGE"     // baja por daño
	MovementKindTransfer   = "TRANSFER"   // traslado
)

// ValidMovementKind verifica que la clase de movimiento sea conocida.
func ValidMovementKind(kind string) bool {
	switch kind {
	case MovementKindPurchase, MovementKindSale, MovementKindAdjustment,
		MovementKindReturn, MovementKindDamage, MovementKindTransfer:
		return true
	}
	return false
}

// InventoryMovement es un hecho inmutable del libro de inventario: se crea una vez
// y nunca se modifica ni se borra. La suma de Quantity por producto debe coincidir
// con la existencia actual del producto (invariante de conciliación).
type InventoryMovement struct {
	ID        string
	ProductID string
	Kind      string
	Quantity  int64  // delta con signo: positivo entrada, negativo salida
	Reference string // número de transacción o código de compra que lo originó (enlace blando)
	Notes     string
	CreatedAt time.Time
	CreatedBy string // UserID
}
