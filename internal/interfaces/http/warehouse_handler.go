package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/application/usecase"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
)

// WarehouseHandler maneja bodegas y sus ubicaciones (protegido).
type WarehouseHandler struct {
	uc *usecase.WarehouseUseCase
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(uc *usecase.WarehouseUseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

// Create godoc
// @Summary      Crear una bodega
// @Tags         warehouses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWarehouseRequest  true  "code, name, is_quarantine"
// @Success      201   {object}  dto.WarehouseResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/warehouses [post]
func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	warehouse, err := h.uc.Create(in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(warehouse)
}

// GetByID godoc
// @Summary      Obtener una bodega por ID
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la bodega"
// @Success      200  {object}  dto.WarehouseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *fiber.Ctx) error {
	warehouse, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if warehouse == nil {
		return respondDomainError(c, domain.ErrNotFound)
	}
	return c.JSON(warehouse)
}

// Update godoc
// @Summary      Actualizar una bodega (parcial)
// @Tags         warehouses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la bodega"
// @Param        body  body  dto.UpdateWarehouseRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.WarehouseResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	warehouse, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(warehouse)
}

// List godoc
// @Summary      Listar bodegas
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "límite (default 20)"
// @Param        offset  query  int  false  "offset"
// @Success      200  {array}  dto.WarehouseResponse
// @Router       /api/warehouses [get]
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	warehouses, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(warehouses)
}

// Delete godoc
// @Summary      Desactivar una bodega
// @Tags         warehouses
// @Security     Bearer
// @Param        id  path  string  true  "ID de la bodega"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id} [delete]
func (h *WarehouseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateBin godoc
// @Summary      Crear una ubicación dentro de una bodega
// @Tags         warehouses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la bodega"
// @Param        body  body  dto.CreateBinRequest true  "code y descripción"
// @Success      201   {object}  dto.BinResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id}/bins [post]
func (h *WarehouseHandler) CreateBin(c *fiber.Ctx) error {
	var in dto.CreateBinRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	bin, err := h.uc.CreateBin(c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(bin)
}

// ListBins godoc
// @Summary      Listar ubicaciones de una bodega
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la bodega"
// @Param        limit   query  int     false  "límite (default 20)"
// @Param        offset  query  int     false  "offset"
// @Success      200  {array}  dto.BinResponse
// @Router       /api/warehouses/{id}/bins [get]
func (h *WarehouseHandler) ListBins(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	bins, err := h.uc.ListBins(c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(bins)
}
