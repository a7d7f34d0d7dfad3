package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jmrosales/pos-api/internal/application/dto"
	"github.com/jmrosales/pos-api/internal/application/sales"
	"github.com/jmrosales/pos-api/internal/domain"
	"github.com/jmrosales/pos-api/internal/domain/entity"
)

// TransactionHandler maneja las peticiones HTTP de ventas (protegido).
type TransactionHandler struct {
	uc *sales.Service
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *sales.Service) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// Checkout godoc
// @Summary      Registrar venta (checkout)
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Líneas, método de pago y descuento global"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Checkout(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := sales.CheckoutInput{
		PaymentMethod:  in.PaymentMethod,
		CustomerName:   in.CustomerName,
		CustomerPhone:  in.CustomerPhone,
		DiscountAmount: in.DiscountAmount,
	}
	for _, item := range in.Items {
		input.Items = append(input.Items, sales.CheckoutLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
		})
	}
	txn, err := h.uc.Checkout(c.Context(), userID, input)
	if err != nil {
		return transactionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(txn))
}

// Cancel godoc
// @Summary      Anular venta
// @Description  Restaura el inventario con movimientos RETURN y pasa la venta a CANCELLED.
// @Tags         transactions
// @Security     Bearer
// @Param        id  path  string  true  "ID de la transacción"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/cancel [post]
func (h *TransactionHandler) Cancel(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Cancel(c.Context(), id, userID); err != nil {
		return transactionError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	txn, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(toTransactionResponse(txn))
}

// ListToday godoc
// @Summary      Ventas del día (UTC)
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/transactions/today [get]
func (h *TransactionHandler) ListToday(c *fiber.Ctx) error {
	list, err := h.uc.ListToday(c.Context())
	if err != nil {
		return transactionError(c, err)
	}
	out := make([]*dto.TransactionResponse, 0, len(list))
	for _, txn := range list {
		out = append(out, toTransactionResponse(txn))
	}
	return c.JSON(out)
}

// TodaySales godoc
// @Summary      Total neto de ventas COMPLETED del día (UTC)
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TodaySalesResponse
// @Router       /api/transactions/today/sales [get]
func (h *TransactionHandler) TodaySales(c *fiber.Ctx) error {
	net, err := h.uc.TodaySales(c.Context())
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(dto.TodaySalesResponse{
		Date:     time.Now().UTC().Format("2006-01-02"),
		NetTotal: net,
	})
}

// ListByDateRange godoc
// @Summary      Ventas por rango de fechas
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        startDate  query  string  true  "YYYY-MM-DD (inclusive); alias start_date"
// @Param        endDate    query  string  true  "YYYY-MM-DD (inclusive); alias end_date"
// @Success      200  {array}   dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions/date-range [get]
func (h *TransactionHandler) ListByDateRange(c *fiber.Ctx) error {
	start, err := time.Parse("2006-01-02", queryAlias(c, "startDate", "start_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "startDate inválido (YYYY-MM-DD)"})
	}
	end, err := time.Parse("2006-01-02", queryAlias(c, "endDate", "end_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "endDate inválido (YYYY-MM-DD)"})
	}
	list, err := h.uc.ListByDateRange(c.Context(), start, end)
	if err != nil {
		return transactionError(c, err)
	}
	out := make([]*dto.TransactionResponse, 0, len(list))
	for _, txn := range list {
		out = append(out, toTransactionResponse(txn))
	}
	return c.JSON(out)
}

// queryAlias lee el primer query param presente de los nombres dados.
func queryAlias(c *fiber.Ctx, names ...string) string {
	for _, name := range names {
		if v := c.Query(name); v != "" {
			return v
		}
	}
	return ""
}

// transactionError mapea errores de dominio a HTTP. Las violaciones de regla
// de negocio (stock insuficiente, ya anulada, conflicto) son 400: la petición
// era inválida dado el estado actual, no hay nada que reintentar tal cual.
func transactionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrProviderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ALREADY_CANCELLED", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toTransactionResponse(txn *entity.SaleTransaction) *dto.TransactionResponse {
	out := &dto.TransactionResponse{
		ID:             txn.ID,
		Number:         txn.Number,
		Date:           txn.Date.UTC().Format(time.RFC3339),
		PaymentMethod:  txn.PaymentMethod,
		CustomerName:   txn.CustomerName,
		CustomerPhone:  txn.CustomerPhone,
		DiscountAmount: txn.DiscountAmount,
		TotalAmount:    txn.TotalAmount,
		TaxAmount:      txn.TaxAmount,
		NetAmount:      txn.NetAmount,
		Status:         txn.Status,
		Items:          make([]dto.SaleLineItemResponse, 0, len(txn.Items)),
	}
	for _, item := range txn.Items {
		out.Items = append(out.Items, dto.SaleLineItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Discount:    item.Discount,
			LineTotal:   item.LineTotal,
		})
	}
	return out
}
