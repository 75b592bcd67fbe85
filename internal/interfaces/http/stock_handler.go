package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/application/stock"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// StockHandler expone saldos, libro de stock y auditoría (protegido, solo
// lectura: el stock solo muta completando documentos).
type StockHandler struct {
	uc     *stock.QueryUseCase
	actors actorLoader
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.QueryUseCase, users repository.UserRepository) *StockHandler {
	return &StockHandler{uc: uc, actors: actorLoader{users: users}}
}

// GetBalance godoc
// @Summary      Saldo de un producto en una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    path      string  true  "ID del producto"
// @Param        warehouse_id  path      string  true  "ID de la bodega"
// @Success      200  {object}  dto.StockBalanceResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/{warehouse_id}/{product_id} [get]
func (h *StockHandler) GetBalance(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return respondDomainError(c, err)
	}
	balance, err := h.uc.GetBalance(actor, c.Params("product_id"), c.Params("warehouse_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToStockBalanceResponse(balance))
}

// ListBalances godoc
// @Summary      Listar saldos de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "IDs de bodega separados por coma"
// @Param        limit         query  int     false  "límite (default 20)"
// @Param        offset        query  int     false  "offset"
// @Success      200  {array}  dto.StockBalanceResponse
// @Router       /api/stock [get]
func (h *StockHandler) ListBalances(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return respondDomainError(c, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	balances, err := h.uc.ListBalances(actor, splitIDs(c.Query("warehouse_id")), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]*dto.StockBalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, dto.ToStockBalanceResponse(b))
	}
	return c.JSON(out)
}

// ListLedger godoc
// @Summary      Consultar el libro de stock
// @Description  Asientos inmutables ordenados del más reciente al más antiguo.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id       query  string  false  "ID del producto"
// @Param        warehouse_id     query  string  false  "IDs de bodega separados por coma"
// @Param        transaction_type query  string  false  "tipo de transacción"
// @Param        document_number  query  string  false  "número de documento"
// @Param        limit            query  int     false  "límite (default 20)"
// @Param        offset           query  int     false  "offset"
// @Success      200  {array}  dto.LedgerEntryResponse
// @Router       /api/stock/ledger [get]
func (h *StockHandler) ListLedger(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return respondDomainError(c, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	filter := repository.LedgerFilter{
		ProductID:       c.Query("product_id"),
		WarehouseIDs:    splitIDs(c.Query("warehouse_id")),
		TransactionType: c.Query("transaction_type"),
		DocumentNumber:  c.Query("document_number"),
		Limit:           page.Limit,
		Offset:          page.Offset,
	}
	entries, err := h.uc.ListLedger(actor, filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]*dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ToLedgerEntryResponse(e))
	}
	return c.JSON(out)
}

// ListAudit godoc
// @Summary      Consultar el log de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        document_kind  query  string  false  "tipo de documento"
// @Param        document_id    query  string  false  "ID del documento"
// @Param        action         query  string  false  "acción (status_change, approval, validation)"
// @Param        user_id        query  string  false  "usuario que ejecutó la acción"
// @Param        limit          query  int     false  "límite (default 20)"
// @Param        offset         query  int     false  "offset"
// @Success      200  {array}  dto.AuditEntryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/audit [get]
func (h *StockHandler) ListAudit(c *fiber.Ctx) error {
	actor, err := h.actors.load(c)
	if err != nil {
		return respondDomainError(c, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	filter := repository.AuditFilter{
		DocumentKind: entity.DocumentKind(c.Query("document_kind")),
		DocumentID:   c.Query("document_id"),
		Action:       c.Query("action"),
		UserID:       c.Query("user_id"),
		Limit:        page.Limit,
		Offset:       page.Offset,
	}
	entries, err := h.uc.ListAudit(actor, filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]*dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ToAuditEntryResponse(e))
	}
	return c.JSON(out)
}
