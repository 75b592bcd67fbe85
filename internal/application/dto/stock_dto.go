package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

// StockBalanceResponse saldo de un producto en una bodega.
type StockBalanceResponse struct {
	ProductID        string          `json:"product_id"`
	WarehouseID      string          `json:"warehouse_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReservedQuantity decimal.Decimal `json:"reserved_quantity"`
	Available        decimal.Decimal `json:"available"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToStockBalanceResponse mapea el saldo para HTTP.
func ToStockBalanceResponse(b *entity.StockBalance) *StockBalanceResponse {
	if b == nil {
		return nil
	}
	return &StockBalanceResponse{
		ProductID:        b.ProductID,
		WarehouseID:      b.WarehouseID,
		Quantity:         b.Quantity,
		ReservedQuantity: b.ReservedQuantity,
		Available:        b.Available(),
		UpdatedAt:        b.UpdatedAt,
	}
}

// LedgerEntryResponse asiento del libro de stock.
type LedgerEntryResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	WarehouseID     string          `json:"warehouse_id"`
	BinID           string          `json:"bin_id,omitempty"`
	TransactionType string          `json:"transaction_type"`
	DocumentNumber  string          `json:"document_number"`
	Quantity        decimal.Decimal `json:"quantity"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	Reference       string          `json:"reference,omitempty"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToLedgerEntryResponse mapea un asiento para HTTP.
func ToLedgerEntryResponse(e *entity.LedgerEntry) *LedgerEntryResponse {
	if e == nil {
		return nil
	}
	return &LedgerEntryResponse{
		ID:              e.ID,
		ProductID:       e.ProductID,
		WarehouseID:     e.WarehouseID,
		BinID:           e.BinID,
		TransactionType: e.TransactionType,
		DocumentNumber:  e.DocumentNumber,
		Quantity:        e.Quantity,
		BalanceAfter:    e.BalanceAfter,
		Reference:       e.Reference,
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt,
	}
}

// AuditEntryResponse registro de auditoría.
type AuditEntryResponse struct {
	ID           string    `json:"id"`
	DocumentKind string    `json:"document_kind"`
	DocumentID   string    `json:"document_id"`
	Action       string    `json:"action"`
	WarehouseID  string    `json:"warehouse_id,omitempty"`
	UserID       string    `json:"user_id"`
	Message      string    `json:"message,omitempty"`
	Before       json.RawMessage `json:"before,omitempty"`
	After        json.RawMessage `json:"after,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToAuditEntryResponse mapea un registro de auditoría para HTTP.
func ToAuditEntryResponse(e *entity.AuditEntry) *AuditEntryResponse {
	if e == nil {
		return nil
	}
	return &AuditEntryResponse{
		ID:           e.ID,
		DocumentKind: string(e.DocumentKind),
		DocumentID:   e.DocumentID,
		Action:       e.Action,
		WarehouseID:  e.WarehouseID,
		UserID:       e.UserID,
		Message:      e.Message,
		Before:       e.Before,
		After:        e.After,
		CreatedAt:    e.CreatedAt,
	}
}
