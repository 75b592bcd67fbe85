package repository

import "github.com/tu-usuario/stockmaster-api/internal/domain/entity"

// SequenceRepository asigna consecutivos de documento de forma atómica.
// Next debe ser serializable entre creaciones concurrentes (una fila por
// prefijo, incrementada y retornada en la misma sentencia) para que nunca
// se dupliquen números de documento.
type SequenceRepository interface {
	Next(kind entity.DocumentKind) (int64, error)
}
