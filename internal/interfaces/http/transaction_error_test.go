package http

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmrosales/pos-api/internal/application/dto"
	"github.com/jmrosales/pos-api/internal/application/sales"
	"github.com/jmrosales/pos-api/internal/domain"
	"github.com/jmrosales/pos-api/internal/domain/entity"
)

// Cada error de dominio tiene un estado HTTP definido: regla de negocio → 400,
// no encontrado (incluido proveedor) → 404. Nunca 500 para un error de dominio.
func TestTransactionError_MapeoDeEstados(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"no encontrado", fmt.Errorf("%w: transacción t1", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{"proveedor no encontrado", fmt.Errorf("%w: prov-1", domain.ErrProviderNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{"stock insuficiente", fmt.Errorf("%w para Café", domain.ErrInsufficientStock), fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{"ya anulada", domain.ErrAlreadyCancelled, fiber.StatusBadRequest, "ALREADY_CANCELLED"},
		{"conflicto", domain.ErrConflict, fiber.StatusBadRequest, "CONFLICT"},
		{"entrada inválida", domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{"duplicado", domain.ErrDuplicate, fiber.StatusBadRequest, "DUPLICATE"},
		{"infraestructura", fmt.Errorf("conexión rechazada"), fiber.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/err", func(c *fiber.Ctx) error {
				return transactionError(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/err", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.wantCode, body.Code)
		})
	}
}

// Repo mínimo para ejercer las consultas del handler.
type stubTxnRepo struct{}

func (stubTxnRepo) Create(txn *entity.SaleTransaction) error         { return nil }
func (stubTxnRepo) GetByID(id string) (*entity.SaleTransaction, error) { return nil, nil }
func (stubTxnRepo) UpdateStatus(id, status string, updatedAt time.Time) error { return nil }
func (stubTxnRepo) ListByDateRange(from, to time.Time) ([]*entity.SaleTransaction, error) {
	return nil, nil
}
func (stubTxnRepo) SumNetByDateRange(from, to time.Time, status string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

// El rango de fechas acepta startDate/endDate y los alias start_date/end_date.
func TestListByDateRange_NombresDeParametros(t *testing.T) {
	svc := sales.NewService(nil, nil, stubTxnRepo{}, decimal.RequireFromString("0.10"), "TXN-")
	handler := NewTransactionHandler(svc)
	app := fiber.New()
	app.Get("/api/transactions/date-range", handler.ListByDateRange)

	cases := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"camelCase", "startDate=2025-03-01&endDate=2025-03-31", fiber.StatusOK},
		{"snake_case", "start_date=2025-03-01&end_date=2025-03-31", fiber.StatusOK},
		{"mezclado", "startDate=2025-03-01&end_date=2025-03-31", fiber.StatusOK},
		{"sin parámetros", "", fiber.StatusBadRequest},
		{"fecha malformada", "startDate=01-03-2025&endDate=2025-03-31", fiber.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", "/api/transactions/date-range?"+tc.query, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}
