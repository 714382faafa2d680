package memory

import (
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo adaptador en memoria del registro de ubicaciones.
type LocationRepo struct {
	store *Store
}

// NewLocationRepository construye el adaptador.
func NewLocationRepository(store *Store) *LocationRepo {
	return &LocationRepo{store: store}
}

// Create registra una ubicación nueva.
func (r *LocationRepo) Create(location *entity.Location) error {
	r.store.mu.Lock()
	r.store.locations[location.ID] = cloneLocation(location)
	r.store.mu.Unlock()
	return nil
}

// GetByID devuelve una ubicación o nil si no existe.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if l, ok := r.store.locations[id]; ok {
		return cloneLocation(l), nil
	}
	return nil, nil
}

// GetCentralBase devuelve la base central o nil si todavía no hay.
func (r *LocationRepo) GetCentralBase() (*entity.Location, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, l := range r.store.locations {
		if l.Kind == entity.LocationKindCentralBase {
			return cloneLocation(l), nil
		}
	}
	return nil, nil
}

// Update reemplaza los campos de la ubicación.
func (r *LocationRepo) Update(location *entity.Location) error {
	r.store.mu.Lock()
	r.store.locations[location.ID] = cloneLocation(location)
	r.store.mu.Unlock()
	return nil
}

// List devuelve ubicaciones con paginación simple.
func (r *LocationRepo) List(limit, offset int) ([]*entity.Location, error) {
	r.store.mu.RLock()
	all := make([]*entity.Location, 0, len(r.store.locations))
	for _, l := range r.store.locations {
		all = append(all, cloneLocation(l))
	}
	r.store.mu.RUnlock()
	sortByCreatedAtLocations(all)
	return paginate(all, limit, offset), nil
}
