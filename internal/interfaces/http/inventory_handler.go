package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jmrosales/pos-api/internal/application/dto"
	"github.com/jmrosales/pos-api/internal/application/ledger"
	"github.com/jmrosales/pos-api/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del libro de inventario (protegido).
type InventoryHandler struct {
	uc *ledger.Service
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *ledger.Service) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterAdjustment godoc
// @Summary      Registrar ajuste manual de inventario
// @Description  Aplica un delta con signo a la existencia del producto y agrega
//	el movimiento al libro. Las clases PURCHASE y SALE no se aceptan aquí:
//	solo las generan sus flujos.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "product_id, quantity (delta con signo), kind"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) RegisterAdjustment(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.RegisterAdjustment(c.Context(), ledger.AdjustmentInput{
		ProductID: in.ProductID,
		Delta:     in.Quantity,
		Kind:      in.Kind,
		Reference: in.Reference,
		Notes:     in.Notes,
		UserID:    userID,
	})
	if err != nil {
		return transactionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// ListMovements godoc
// @Summary      Listar movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD, exclusivo)"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/product/{id} [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (YYYY-MM-DD)"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (YYYY-MM-DD)"})
		}
		to = &t
	}
	limit, offset := pagination(c)
	list, err := h.uc.ListByProduct(c.Context(), productID, from, to, limit, offset)
	if err != nil {
		return transactionError(c, err)
	}
	out := make([]*dto.MovementResponse, 0, len(list))
	for _, mov := range list {
		out = append(out, toMovementResponse(mov))
	}
	return c.JSON(out)
}

func toMovementResponse(mov *entity.InventoryMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:        mov.ID,
		ProductID: mov.ProductID,
		Kind:      mov.Kind,
		Quantity:  mov.Quantity,
		Reference: mov.Reference,
		Notes:     mov.Notes,
		CreatedAt: mov.CreatedAt.UTC().Format(time.RFC3339),
		CreatedBy: mov.CreatedBy,
	}
}
