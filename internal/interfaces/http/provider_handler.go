package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmrosales/pos-api/internal/application/dto"
	"github.com/jmrosales/pos-api/internal/application/usecase"
)

// ProviderHandler maneja las peticiones HTTP para Provider (protegido).
type ProviderHandler struct {
	uc *usecase.ProviderUseCase
}

// NewProviderHandler construye el handler.
func NewProviderHandler(uc *usecase.ProviderUseCase) *ProviderHandler {
	return &ProviderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear proveedor
// @Tags         providers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProviderRequest  true  "Datos del proveedor"
// @Success      201   {object}  dto.ProviderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/providers [post]
func (h *ProviderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProviderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return transactionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener proveedor por ID
// @Tags         providers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.ProviderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/providers/{id} [get]
func (h *ProviderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar proveedores
// @Tags         providers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.ProviderResponse
// @Router       /api/providers [get]
func (h *ProviderHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	out, err := h.uc.List(limit, offset)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar proveedor
// @Tags         providers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del proveedor"
// @Param        body  body  dto.UpdateProviderRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProviderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/providers/{id} [put]
func (h *ProviderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProviderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar proveedor (soft delete)
// @Tags         providers
// @Security     Bearer
// @Param        id  path  string  true  "ID del proveedor"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/providers/{id} [delete]
func (h *ProviderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return transactionError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
