package repository

import "github.com/tu-usuario/stock-ledger/internal/domain/entity"

// ProjectionRepository define el puerto de la proyección de cantidades por
// (ubicación, artículo). Solo el LedgerStore escribe aquí; el resto del
// sistema lee.
type ProjectionRepository interface {
	// Get devuelve la proyección comprometida; clave inexistente = cantidad cero.
	Get(locationID, itemID string) (*entity.Projection, error)
	// GetForUpdate bloquea la clave hasta el commit/rollback de la transacción
	// en curso. Solo tiene sentido dentro de un TxRunner.
	GetForUpdate(locationID, itemID string) (*entity.Projection, error)
	Upsert(p *entity.Projection) error
	ListByLocation(locationID string) ([]*entity.Projection, error)
}
