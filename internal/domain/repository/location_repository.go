package repository

import "github.com/tu-usuario/stock-ledger/internal/domain/entity"

// LocationRepository define el puerto de persistencia para ubicaciones (DIP).
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	// GetCentralBase devuelve la base central o nil si no hay ninguna registrada.
	GetCentralBase() (*entity.Location, error)
	Update(location *entity.Location) error
	List(limit, offset int) ([]*entity.Location, error)
}
