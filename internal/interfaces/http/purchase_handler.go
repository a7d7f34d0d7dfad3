package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jmrosales/pos-api/internal/application/dto"
	"github.com/jmrosales/pos-api/internal/application/purchases"
	"github.com/jmrosales/pos-api/internal/domain/entity"
)

// PurchaseHandler maneja las peticiones HTTP de compras (protegido).
type PurchaseHandler struct {
	uc *purchases.Service
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchases.Service) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Proveedor, fecha, estado y líneas"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := purchases.CreateInput{
		ProviderID: in.ProviderID,
		Status:     in.Status,
		Note:       in.Note,
		Items:      toItemInputs(in.Items),
	}
	if in.Date != "" {
		date, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date inválida (YYYY-MM-DD)"})
		}
		input.Date = date
	}
	purchase, err := h.uc.CreatePurchase(c.Context(), userID, input)
	if err != nil {
		return transactionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseResponse(purchase))
}

// Update godoc
// @Summary      Actualizar orden de compra
// @Description  Patch parcial: fecha, nota, estado y/o reemplazo de líneas. Las
//	transiciones hacia/desde PAID aplican o revierten el inventario.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la compra"
// @Param        body  body  dto.UpdatePurchaseRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [put]
func (h *PurchaseHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	patch := purchases.UpdateInput{
		Status: in.Status,
		Note:   in.Note,
	}
	if in.Date != nil {
		date, err := time.Parse("2006-01-02", *in.Date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date inválida (YYYY-MM-DD)"})
		}
		patch.Date = &date
	}
	if in.Items != nil {
		items := toItemInputs(*in.Items)
		patch.Items = &items
	}
	purchase, err := h.uc.UpdatePurchase(c.Context(), id, userID, patch)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(toPurchaseResponse(purchase))
}

// Delete godoc
// @Summary      Eliminar orden de compra
// @Description  Soft delete. Si la compra está en PAID, primero revierte el inventario.
// @Tags         purchases
// @Security     Bearer
// @Param        id  path  string  true  "ID de la compra"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.DeletePurchase(c.Context(), id, userID); err != nil {
		return transactionError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener compra por ID
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	purchase, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(toPurchaseResponse(purchase))
}

// ListByProvider godoc
// @Summary      Listar compras por proveedor
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del proveedor"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.PurchaseResponse
// @Router       /api/purchases/provider/{id} [get]
func (h *PurchaseHandler) ListByProvider(c *fiber.Ctx) error {
	providerID := c.Params("id")
	if providerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	limit, offset := pagination(c)
	list, err := h.uc.ListByProvider(c.Context(), providerID, limit, offset)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(toPurchaseResponses(list))
}

// ListByStatus godoc
// @Summary      Listar compras por estado
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        status  path   string  true   "PENDING | PAID | CANCELLED"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.PurchaseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchases/status/{status} [get]
func (h *PurchaseHandler) ListByStatus(c *fiber.Ctx) error {
	status := c.Params("status")
	limit, offset := pagination(c)
	list, err := h.uc.ListByStatus(c.Context(), status, limit, offset)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(toPurchaseResponses(list))
}

func pagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func toItemInputs(items []dto.PurchaseItemRequest) []purchases.ItemInput {
	out := make([]purchases.ItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, purchases.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			Note:      item.Note,
		})
	}
	return out
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	out := &dto.PurchaseResponse{
		ID:         p.ID,
		Code:       p.Code,
		Date:       p.Date.UTC().Format("2006-01-02"),
		ProviderID: p.ProviderID,
		Status:     p.Status,
		Note:       p.Note,
		Items:      make([]dto.PurchaseItemResponse, 0, len(p.Items)),
	}
	for _, item := range p.Items {
		out.Items = append(out.Items, dto.PurchaseItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			Note:      item.Note,
			Total:     item.Total,
		})
	}
	return out
}

func toPurchaseResponses(list []*entity.Purchase) []*dto.PurchaseResponse {
	out := make([]*dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPurchaseResponse(p))
	}
	return out
}
