package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockmaster-api/internal/application/documents"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// DocumentHandler maneja el ciclo de vida de los documentos de inventario
// (protegido).
type DocumentHandler struct {
	uc     *documents.WorkflowUseCase
	actors actorLoader
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *documents.WorkflowUseCase, users repository.UserRepository) *DocumentHandler {
	return &DocumentHandler{uc: uc, actors: actorLoader{users: users}}
}

// Create godoc
// @Summary      Crear un documento de inventario en borrador
// @Description  Soporta los seis tipos (receipt, delivery, transfer, adjustment,
//
//	return, cycle_count). El consecutivo se asigna de forma atómica
//	y requires_approval se estampa según las políticas vigentes.
//
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "kind, warehouse_id, items y campos del tipo"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return respondDomainError(c, err)
	}
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.Create(c.Context(), actor, toCreateInput(in))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToDocumentResponse(doc))
}

// List godoc
// @Summary      Listar documentos
// @Description  Filtra por kind, status y warehouse_id (separados por coma).
//
//	El scoping de bodegas del usuario se aplica siempre.
//
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        kind          query  string  false  "tipo de documento"
// @Param        status        query  string  false  "estado"
// @Param        warehouse_id  query  string  false  "IDs de bodega separados por coma"
// @Param        limit         query  int     false  "límite (default 20)"
// @Param        offset        query  int     false  "offset"
// @Success      200  {array}  dto.DocumentResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return respondDomainError(c, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	filter := repository.DocumentFilter{
		Kind:         entity.DocumentKind(c.Query("kind")),
		Status:       entity.DocumentStatus(c.Query("status")),
		WarehouseIDs: splitIDs(c.Query("warehouse_id")),
		CreatedBy:    c.Query("created_by"),
		Limit:        page.Limit,
		Offset:       page.Offset,
	}
	docs, err := h.uc.List(c.Context(), actor, filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]*dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, dto.ToDocumentResponse(d))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener un documento por ID
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return respondDomainError(c, err)
	}
	doc, err := h.uc.GetByID(c.Context(), actor, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToDocumentResponse(doc))
}

// SetStatus godoc
// @Summary      Cambiar el estado de un documento
// @Description  Transiciones administrativas (draft→waiting→ready, cancelación).
//
//	Completar se hace vía /validate, nunca por aquí.
//
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del documento"
// @Param        body  body  dto.SetStatusRequest  true  "status destino"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/status [patch]
func (h *DocumentHandler) SetStatus(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return respondDomainError(c, err)
	}
	var in dto.SetStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.SetStatus(c.Context(), actor, c.Params("id"), entity.DocumentStatus(in.Status))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToDocumentResponse(doc))
}

// Approve godoc
// @Summary      Aprobar un documento
// @Description  Registra la aprobación (única por documento) y levanta el gate.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true   "ID del documento"
// @Param        body  body  dto.ApproveRequest  false  "notas de aprobación"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/approve [post]
func (h *DocumentHandler) Approve(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return respondDomainError(c, err)
	}
	var in dto.ApproveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	doc, err := h.uc.Approve(c.Context(), actor, c.Params("id"), in.Notes)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToDocumentResponse(doc))
}

// Validate godoc
// @Summary      Validar y completar un documento
// @Description  Única transición que muta stock. Aplica el efecto del tipo
//
//	dentro de una transacción y deja asiento en el libro por línea.
//	Los conteos cíclicos no pasan por aquí: usar /complete-count.
//
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/validate [post]
func (h *DocumentHandler) Validate(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return respondDomainError(c, err)
	}
	doc, err := h.uc.ValidateAndComplete(c.Context(), actor, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToDocumentResponse(doc))
}

// UpdateCounts godoc
// @Summary      Registrar cantidades contadas de un conteo cíclico
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la tarea de conteo"
// @Param        body  body  dto.UpdateCountsRequest  true  "cantidades contadas por línea"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/counts [post]
func (h *DocumentHandler) UpdateCounts(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return respondDomainError(c, err)
	}
	var in dto.UpdateCountsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	counts := make([]documents.CountInput, 0, len(in.Counts))
	for _, cnt := range in.Counts {
		counts = append(counts, documents.CountInput{ItemID: cnt.ItemID, CountedQuantity: cnt.CountedQuantity})
	}
	doc, err := h.uc.UpdateCounts(c.Context(), actor, c.Params("id"), counts)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToDocumentResponse(doc))
}

// CompleteCount godoc
// @Summary      Completar una tarea de conteo cíclico
// @Description  Calcula varianzas contra el saldo vivo y, si las hay, genera
//
//	y completa un ajuste tipo set en la misma transacción.
//
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la tarea de conteo"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/complete-count [post]
func (h *DocumentHandler) CompleteCount(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return respondDomainError(c, err)
	}
	doc, err := h.uc.CompleteCycleCount(c.Context(), actor, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToDocumentResponse(doc))
}

// toCreateInput arma la entrada del caso de uso poblando solo el payload
// que corresponde al kind.
func toCreateInput(in dto.CreateDocumentRequest) documents.CreateDocumentInput {
	out := documents.CreateDocumentInput{
		Kind:        entity.DocumentKind(in.Kind),
		WarehouseID: in.WarehouseID,
		Notes:       in.Notes,
	}
	switch out.Kind {
	case entity.KindReceipt:
		out.Receipt = &entity.ReceiptData{Supplier: in.Supplier, SupplierReference: in.SupplierReference}
	case entity.KindDelivery:
		out.Delivery = &entity.DeliveryData{Customer: in.Customer, CustomerReference: in.CustomerReference, ShippingAddress: in.ShippingAddress}
	case entity.KindTransfer:
		out.Transfer = &entity.TransferData{ToWarehouseID: in.ToWarehouseID}
	case entity.KindAdjustment:
		out.Adjustment = &entity.AdjustmentData{Reason: in.Reason, AdjustmentType: in.AdjustmentType}
	case entity.KindReturn:
		out.Return = &entity.ReturnData{DeliveryID: in.DeliveryID, Reason: in.Reason, Disposition: in.Disposition}
	case entity.KindCycleCount:
		out.CycleCount = &entity.CycleCountData{ScheduledDate: in.ScheduledDate, Method: in.CountMethod}
	}
	out.Items = make([]documents.ItemInput, 0, len(in.Items))
	for _, item := range in.Items {
		out.Items = append(out.Items, documents.ItemInput{
			ProductID:        item.ProductID,
			BinID:            item.BinID,
			Quantity:         item.Quantity,
			UnitOfMeasure:    item.UnitOfMeasure,
			CurrentQuantity:  item.CurrentQuantity,
			ExpectedQuantity: item.ExpectedQuantity,
			UnitPrice:        item.UnitPrice,
			Reason:           item.Reason,
		})
	}
	return out
}

// splitIDs separa una lista de IDs por coma; "" devuelve nil (sin filtro).
func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
