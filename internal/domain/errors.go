package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores del motor de documentos. Toda transición fallida retorna uno de
// estos; el handler HTTP los traduce a respuestas de usuario.
var (
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrApprovalRequired       = errors.New("el documento requiere aprobación")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrBinWarehouseMismatch   = errors.New("la ubicación no pertenece a la bodega del documento")
	ErrInvalidTransfer        = errors.New("bodega origen y destino no pueden ser la misma")
	ErrPolicyEvaluation       = errors.New("error evaluando política de aprobación")
	ErrDuplicateApproval      = errors.New("el documento ya fue aprobado")
)

// DocumentError envuelve un sentinel del motor con detalle legible
// (producto, bodega, cantidades). Mantiene errors.Is contra el sentinel.
type DocumentError struct {
	Err    error
	Detail string
}

func (e *DocumentError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Detail
}

func (e *DocumentError) Unwrap() error { return e.Err }

// NewDocumentError construye un DocumentError con detalle.
func NewDocumentError(err error, detail string) *DocumentError {
	return &DocumentError{Err: err, Detail: detail}
}
