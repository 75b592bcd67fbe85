package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo asignador de consecutivos sobre PostgreSQL: una fila por
// prefijo de documento, incrementada y retornada en una sola sentencia.
// El upsert serializa asignaciones concurrentes sobre la misma fila, así
// que nunca se entregan números duplicados.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente consecutivo para el tipo de documento.
func (r *SequenceRepo) Next(kind entity.DocumentKind) (int64, error) {
	query := `
		INSERT INTO document_sequences (prefix, last_value)
		VALUES ($1, 1)
		ON CONFLICT (prefix)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`
	var next int64
	err := r.q.QueryRow(context.Background(), query, kind.NumberPrefix()).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", kind.NumberPrefix(), err)
	}
	return next, nil
}
