package memory

import (
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.ProductionDefinitionRepository = (*ProductionDefinitionRepo)(nil)
var _ repository.ProductionRunRepository = (*ProductionRunRepo)(nil)

// ProductionDefinitionRepo adaptador en memoria de recetas.
type ProductionDefinitionRepo struct {
	store *Store
}

// NewProductionDefinitionRepository construye el adaptador.
func NewProductionDefinitionRepository(store *Store) *ProductionDefinitionRepo {
	return &ProductionDefinitionRepo{store: store}
}

// Create registra una receta nueva.
func (r *ProductionDefinitionRepo) Create(def *entity.ProductionDefinition) error {
	r.store.mu.Lock()
	r.store.definitions[def.ID] = cloneDefinition(def)
	r.store.mu.Unlock()
	return nil
}

// GetByID devuelve una receta o nil si no existe.
func (r *ProductionDefinitionRepo) GetByID(id string) (*entity.ProductionDefinition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if d, ok := r.store.definitions[id]; ok {
		return cloneDefinition(d), nil
	}
	return nil, nil
}

// Update reemplaza los campos de la receta.
func (r *ProductionDefinitionRepo) Update(def *entity.ProductionDefinition) error {
	r.store.mu.Lock()
	r.store.definitions[def.ID] = cloneDefinition(def)
	r.store.mu.Unlock()
	return nil
}

// List devuelve recetas con paginación simple.
func (r *ProductionDefinitionRepo) List(limit, offset int) ([]*entity.ProductionDefinition, error) {
	r.store.mu.RLock()
	all := make([]*entity.ProductionDefinition, 0, len(r.store.definitions))
	for _, d := range r.store.definitions {
		all = append(all, cloneDefinition(d))
	}
	r.store.mu.RUnlock()
	sortByCreatedAtDefinitions(all)
	return paginate(all, limit, offset), nil
}

// ProductionRunRepo adaptador en memoria de ejecuciones de producción.
type ProductionRunRepo struct {
	store *Store
}

// NewProductionRunRepository construye el adaptador.
func NewProductionRunRepository(store *Store) *ProductionRunRepo {
	return &ProductionRunRepo{store: store}
}

// Create registra una ejecución nueva.
func (r *ProductionRunRepo) Create(run *entity.ProductionRun) error {
	r.store.mu.Lock()
	r.store.runs[run.ID] = cloneRun(run)
	r.store.mu.Unlock()
	return nil
}

// GetByID devuelve una ejecución o nil si no existe.
func (r *ProductionRunRepo) GetByID(id string) (*entity.ProductionRun, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if run, ok := r.store.runs[id]; ok {
		return cloneRun(run), nil
	}
	return nil, nil
}

// Update reemplaza los campos de la ejecución.
func (r *ProductionRunRepo) Update(run *entity.ProductionRun) error {
	r.store.mu.Lock()
	r.store.runs[run.ID] = cloneRun(run)
	r.store.mu.Unlock()
	return nil
}

// ListByDefinition devuelve las ejecuciones de una receta.
func (r *ProductionRunRepo) ListByDefinition(definitionID string, limit, offset int) ([]*entity.ProductionRun, error) {
	r.store.mu.RLock()
	var all []*entity.ProductionRun
	for _, run := range r.store.runs {
		if run.DefinitionID == definitionID {
			all = append(all, cloneRun(run))
		}
	}
	r.store.mu.RUnlock()
	sortByCreatedAtRuns(all)
	return paginate(all, limit, offset), nil
}
