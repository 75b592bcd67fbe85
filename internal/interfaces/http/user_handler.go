package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/application/usecase"
)

// UserHandler administra usuarios, roles y bodegas asignadas (solo admin,
// salvo /me).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, err := h.uc.GetByID(GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(user)
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "límite (default 20)"
// @Param        offset  query  int  false  "offset"
// @Success      200  {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	users, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(users)
}

// GetByID godoc
// @Summary      Obtener un usuario por ID
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	user, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(user)
}

// SetRole godoc
// @Summary      Cambiar el rol de un usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del usuario"
// @Param        body  body  object  true  "role: admin | inventory_manager | warehouse_staff"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/role [put]
func (h *UserHandler) SetRole(c *fiber.Ctx) error {
	var in struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	user, err := h.uc.SetRole(c.Params("id"), in.Role)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(user)
}

// SetWarehouses godoc
// @Summary      Reemplazar las bodegas asignadas de un usuario
// @Description  Lista vacía significa "sin bodegas asignadas"; su efecto
//
//	depende del modo de scoping (legacy: todo, estricto: nada).
//
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del usuario"
// @Param        body  body  dto.SetWarehousesRequest true  "warehouse_ids"
// @Success      200   {object}  dto.UserResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/warehouses [put]
func (h *UserHandler) SetWarehouses(c *fiber.Ctx) error {
	var in dto.SetWarehousesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	user, err := h.uc.SetAllowedWarehouses(c.Params("id"), in.WarehouseIDs)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(user)
}
