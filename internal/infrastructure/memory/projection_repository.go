package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.ProjectionRepository = (*ProjectionRepo)(nil)

// ProjectionRepo adaptador en memoria de la proyección de cantidades.
type ProjectionRepo struct {
	store *Store
	tx    *tx
}

// NewProjectionRepository construye el adaptador de solo-lectura comprometida.
func NewProjectionRepository(store *Store) *ProjectionRepo {
	return &ProjectionRepo{store: store}
}

// Get devuelve la proyección comprometida; clave inexistente = cantidad cero.
func (r *ProjectionRepo) Get(locationID, itemID string) (*entity.Projection, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if p, ok := r.store.projections[projectionKey(locationID, itemID)]; ok {
		return cloneProjection(p), nil
	}
	return &entity.Projection{LocationID: locationID, ItemID: itemID, Quantity: decimal.Zero}, nil
}

// GetForUpdate bloquea la clave para esta transacción (hasta commit/rollback)
// y devuelve la proyección: el valor en staging si la propia transacción ya la
// tocó, si no el comprometido.
func (r *ProjectionRepo) GetForUpdate(locationID, itemID string) (*entity.Projection, error) {
	if r.tx == nil {
		// Sin transacción no hay a quién liberar el lock; lectura simple.
		return r.Get(locationID, itemID)
	}
	key := projectionKey(locationID, itemID)
	r.tx.lockKey(key)
	if p, ok := r.tx.stagedProj[key]; ok {
		return cloneProjection(p), nil
	}
	return r.Get(locationID, itemID)
}

// Upsert escribe la proyección. Dentro de una transacción queda en staging.
func (r *ProjectionRepo) Upsert(p *entity.Projection) error {
	c := cloneProjection(p)
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now()
	}
	key := projectionKey(c.LocationID, c.ItemID)
	if r.tx != nil {
		r.tx.stagedProj[key] = c
		return nil
	}
	r.store.mu.Lock()
	r.store.projections[key] = c
	r.store.mu.Unlock()
	return nil
}

// ListByLocation devuelve las proyecciones comprometidas de una ubicación.
func (r *ProjectionRepo) ListByLocation(locationID string) ([]*entity.Projection, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Projection
	for _, p := range r.store.projections {
		if p.LocationID == locationID {
			out = append(out, cloneProjection(p))
		}
	}
	return out, nil
}
