package memory

import (
	"golang.org/x/text/cases"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo adaptador en memoria del catálogo de artículos.
type StockItemRepo struct {
	store *Store
}

// NewStockItemRepository construye el adaptador.
func NewStockItemRepository(store *Store) *StockItemRepo {
	return &StockItemRepo{store: store}
}

// Create registra un artículo nuevo.
func (r *StockItemRepo) Create(item *entity.StockItem) error {
	r.store.mu.Lock()
	r.store.items[item.ID] = cloneItem(item)
	r.store.mu.Unlock()
	return nil
}

// GetByID devuelve un artículo o nil si no existe.
func (r *StockItemRepo) GetByID(id string) (*entity.StockItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if i, ok := r.store.items[id]; ok {
		return cloneItem(i), nil
	}
	return nil, nil
}

// ExistsDenomination compara denominaciones con case folding Unicode (las
// denominaciones vienen con acentos: "Pâte", "Café").
func (r *StockItemRepo) ExistsDenomination(category, denomination string) (bool, error) {
	folder := cases.Fold()
	want := folder.String(denomination)
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, i := range r.store.items {
		if i.Category == category && folder.String(i.Denomination) == want {
			return true, nil
		}
	}
	return false, nil
}

// Update reemplaza los campos del artículo.
func (r *StockItemRepo) Update(item *entity.StockItem) error {
	r.store.mu.Lock()
	r.store.items[item.ID] = cloneItem(item)
	r.store.mu.Unlock()
	return nil
}

// List devuelve artículos con paginación simple.
func (r *StockItemRepo) List(limit, offset int) ([]*entity.StockItem, error) {
	r.store.mu.RLock()
	all := make([]*entity.StockItem, 0, len(r.store.items))
	for _, i := range r.store.items {
		all = append(all, cloneItem(i))
	}
	r.store.mu.RUnlock()
	sortByCreatedAtItems(all)
	return paginate(all, limit, offset), nil
}
