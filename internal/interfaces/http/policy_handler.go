package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/application/usecase"
)

// PolicyHandler administra las políticas de aprobación (solo admin).
type PolicyHandler struct {
	uc *usecase.PolicyUseCase
}

// NewPolicyHandler construye el handler.
func NewPolicyHandler(uc *usecase.PolicyUseCase) *PolicyHandler {
	return &PolicyHandler{uc: uc}
}

// Create godoc
// @Summary      Crear una política de aprobación
// @Description  threshold nulo exige aprobación siempre; warehouse_id vacío
//
//	crea una política global para el tipo de documento.
//
// @Tags         policies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePolicyRequest  true  "document_kind, warehouse_id (opcional), threshold (opcional)"
// @Success      201   {object}  dto.PolicyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/policies [post]
func (h *PolicyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePolicyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	policy, err := h.uc.Create(in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(policy)
}

// Update godoc
// @Summary      Actualizar una política de aprobación
// @Tags         policies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la política"
// @Param        body  body  dto.UpdatePolicyRequest  true  "campos a actualizar; clear_threshold pone el umbral en nulo"
// @Success      200   {object}  dto.PolicyResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/policies/{id} [put]
func (h *PolicyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePolicyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	policy, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(policy)
}

// List godoc
// @Summary      Listar políticas de aprobación
// @Tags         policies
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "límite (default 20)"
// @Param        offset  query  int  false  "offset"
// @Success      200  {array}  dto.PolicyResponse
// @Router       /api/policies [get]
func (h *PolicyHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	policies, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(policies)
}

// Delete godoc
// @Summary      Eliminar una política de aprobación
// @Tags         policies
// @Security     Bearer
// @Param        id  path  string  true  "ID de la política"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/policies/{id} [delete]
func (h *PolicyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
