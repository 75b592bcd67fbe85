package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// respondDomainError traduce errores de dominio a respuestas HTTP. Los
// sentinels del motor pueden venir envueltos en DocumentError, por eso se
// usa errors.Is y el mensaje conserva el detalle.
func respondDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrApprovalRequired):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "APPROVAL_REQUIRED", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateApproval):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_APPROVAL", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrBinWarehouseMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "BIN_WAREHOUSE_MISMATCH", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransfer):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_TRANSFER", Message: err.Error()})
	case errors.Is(err, domain.ErrPolicyEvaluation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "POLICY_EVALUATION", Message: err.Error()})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// actorLoader resuelve el usuario autenticado completo (rol y bodegas
// asignadas) a partir del UserID del token. El scoping necesita el usuario
// fresco de BD, no solo los claims.
type actorLoader struct {
	users repository.UserRepository
}

func (l actorLoader) load(c *fiber.Ctx) (*entity.User, error) {
	userID := GetUserID(c)
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := l.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}
