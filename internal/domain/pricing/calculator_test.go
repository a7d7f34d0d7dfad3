package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmrosales/pos-api/internal/domain"
	"github.com/jmrosales/pos-api/internal/domain/pricing"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestLineTotal_SinDescuento(t *testing.T) {
	total, err := pricing.LineTotal(d("10.00"), 2, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, d("20.00").Equal(total), "2 x 10.00 debe dar 20.00, dio %s", total)
}

func TestLineTotal_ConDescuento(t *testing.T) {
	total, err := pricing.LineTotal(d("10.00"), 3, d("5.00"))
	require.NoError(t, err)
	assert.True(t, d("25.00").Equal(total))
}

// El total cero es válido: descuento exacto del 100% de la línea.
func TestLineTotal_DescuentoTotalDaCero(t *testing.T) {
	total, err := pricing.LineTotal(d("10"), 2, d("20"))
	require.NoError(t, err)
	assert.True(t, total.IsZero(), "descuento igual al subtotal debe dar 0, dio %s", total)
}

// Un descuento que deja la línea en negativo se rechaza.
func TestLineTotal_DescuentoExcesivoRechazado(t *testing.T) {
	_, err := pricing.LineTotal(d("10"), 2, d("21"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLineTotal_CantidadInvalida(t *testing.T) {
	_, err := pricing.LineTotal(d("10"), 0, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = pricing.LineTotal(d("10"), -1, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLineTotal_DescuentoNegativo(t *testing.T) {
	_, err := pricing.LineTotal(d("10"), 1, d("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransactionTotals_UnaLineaConIVA10(t *testing.T) {
	lines := []pricing.Line{{UnitPrice: d("100.00"), Quantity: 1, Discount: decimal.Zero}}

	total, tax, net, err := pricing.TransactionTotals(lines, decimal.Zero, d("0.10"))
	require.NoError(t, err)
	assert.True(t, d("100.00").Equal(total))
	assert.True(t, d("10.00").Equal(tax))
	assert.True(t, d("110.00").Equal(net))
}

func TestTransactionTotals_VariasLineasYDescuentoGlobal(t *testing.T) {
	lines := []pricing.Line{
		{UnitPrice: d("10.00"), Quantity: 2, Discount: decimal.Zero}, // 20.00
		{UnitPrice: d("7.50"), Quantity: 4, Discount: d("2.50")},     // 27.50
	}

	total, tax, net, err := pricing.TransactionTotals(lines, d("5.00"), d("0.10"))
	require.NoError(t, err)
	assert.True(t, d("47.50").Equal(total))
	assert.True(t, d("4.75").Equal(tax))
	// net = 47.50 + 4.75 - 5.00
	assert.True(t, d("47.25").Equal(net))
}

// net == total + tax − descuento, recomputado de forma independiente.
func TestTransactionTotals_InvarianteNeto(t *testing.T) {
	lines := []pricing.Line{
		{UnitPrice: d("3.33"), Quantity: 3, Discount: d("0.99")},
		{UnitPrice: d("19.99"), Quantity: 1, Discount: decimal.Zero},
	}
	discount := d("1.25")

	total, tax, net, err := pricing.TransactionTotals(lines, discount, d("0.10"))
	require.NoError(t, err)
	assert.True(t, total.Add(tax).Sub(discount).Round(2).Equal(net))
}

func TestTransactionTotals_LineaInvalidaPropagaError(t *testing.T) {
	lines := []pricing.Line{
		{UnitPrice: d("10"), Quantity: 1, Discount: decimal.Zero},
		{UnitPrice: d("10"), Quantity: 0, Discount: decimal.Zero},
	}
	_, _, _, err := pricing.TransactionTotals(lines, decimal.Zero, d("0.10"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransactionTotals_DescuentoGlobalNegativo(t *testing.T) {
	_, _, _, err := pricing.TransactionTotals(nil, d("-1"), d("0.10"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
