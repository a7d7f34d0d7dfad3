// Package pricing calcula totales de venta. Funciones puras, sin estado:
// la capa de aplicación las usa dentro de la transacción de checkout y los
// totales almacenados siempre deben poder recomputarse desde las líneas.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jmrosales/pos-api/internal/domain"
)

// Line es la entrada mínima para totalizar una línea de venta.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int64
	Discount  decimal.Decimal
}

// LineTotal calcula quantity*unitPrice − discount.
// Cero es un total válido (descuento del 100%); un resultado negativo por
// descuento excesivo se rechaza con ErrInvalidInput, igual que quantity <= 0
// o discount < 0.
func LineTotal(unitPrice decimal.Decimal, quantity int64, discount decimal.Decimal) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, domain.ErrInvalidInput
	}
	if discount.IsNegative() || unitPrice.IsNegative() {
		return decimal.Zero, domain.ErrInvalidInput
	}
	total := unitPrice.Mul(decimal.NewFromInt(quantity)).Sub(discount)
	if total.IsNegative() {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return total.Round(2), nil
}

// TransactionTotals calcula (total, impuesto, neto) de una transacción:
// total = Σ LineTotal, tax = total*taxRate, net = total + tax − discount.
// Montos de moneda a 2 decimales.
func TransactionTotals(lines []Line, discount, taxRate decimal.Decimal) (total, tax, net decimal.Decimal, err error) {
	if discount.IsNegative() || taxRate.IsNegative() {
		return decimal.Zero, decimal.Zero, decimal.Zero, domain.ErrInvalidInput
	}
	for _, line := range lines {
		lineTotal, lineErr := LineTotal(line.UnitPrice, line.Quantity, line.Discount)
		if lineErr != nil {
			return decimal.Zero, decimal.Zero, decimal.Zero, lineErr
		}
		total = total.Add(lineTotal)
	}
	tax = total.Mul(taxRate).Round(2)
	net = total.Add(tax).Sub(discount).Round(2)
	return total.Round(2), tax, net, nil
}
