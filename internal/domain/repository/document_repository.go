package repository

import "github.com/tu-usuario/stockmaster-api/internal/domain/entity"

// DocumentFilter filtros para listados de documentos. WarehouseIDs nil = sin
// filtro de bodega (ya intersectado con el scoping del usuario por el caller).
type DocumentFilter struct {
	Kind         entity.DocumentKind
	Status       entity.DocumentStatus
	WarehouseIDs []string
	CreatedBy    string
	Limit        int
	Offset       int
}

// DocumentRepository puerto de persistencia de documentos y sus líneas.
// Las líneas pertenecen al documento (se borran en cascada con él).
type DocumentRepository interface {
	Create(doc *entity.Document) error
	GetByID(id string) (*entity.Document, error)
	GetByNumber(number string) (*entity.Document, error)
	Update(doc *entity.Document) error
	UpdateItemCounts(documentID string, items []entity.DocumentItem) error
	List(filter DocumentFilter) ([]*entity.Document, error)
	Delete(id string) error
}
