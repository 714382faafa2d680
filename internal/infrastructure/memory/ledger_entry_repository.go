package memory

import (
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.LedgerEntryRepository = (*LedgerEntryRepo)(nil)

// LedgerEntryRepo adaptador en memoria del log append-only. Fuera de una
// transacción lee el estado comprometido; dentro (tx != nil) los Append van a
// staging hasta el commit.
type LedgerEntryRepo struct {
	store *Store
	tx    *tx
}

// NewLedgerEntryRepository construye el adaptador de solo-lectura comprometida.
func NewLedgerEntryRepository(store *Store) *LedgerEntryRepo {
	return &LedgerEntryRepo{store: store}
}

// Append apendiza un asiento. Dentro de una transacción queda en staging.
func (r *LedgerEntryRepo) Append(entry *entity.LedgerEntry) error {
	e := cloneEntry(entry)
	if r.tx != nil {
		r.tx.stagedEntries = append(r.tx.stagedEntries, e)
		return nil
	}
	r.store.mu.Lock()
	idx := len(r.store.entries)
	r.store.entries = append(r.store.entries, e)
	r.store.entryByID[e.ID] = idx
	k := projectionKey(e.LocationID, e.ItemID)
	r.store.entryByKey[k] = append(r.store.entryByKey[k], idx)
	r.store.mu.Unlock()
	return nil
}

// GetByID devuelve un asiento comprometido o nil.
func (r *LedgerEntryRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	idx, ok := r.store.entryByID[id]
	if !ok {
		return nil, nil
	}
	return cloneEntry(r.store.entries[idx]), nil
}

// ListByKey devuelve los asientos comprometidos de (ubicación, artículo) en
// orden de commit.
func (r *LedgerEntryRepo) ListByKey(locationID, itemID string) ([]*entity.LedgerEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	idxs := r.store.entryByKey[projectionKey(locationID, itemID)]
	out := make([]*entity.LedgerEntry, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, cloneEntry(r.store.entries[i]))
	}
	return out, nil
}

// ListByProductionRun devuelve los asientos comprometidos de una ejecución de
// producción, en orden de commit.
func (r *LedgerEntryRepo) ListByProductionRun(runID string) ([]*entity.LedgerEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.LedgerEntry
	for _, e := range r.store.entries {
		if e.RelatedProductionRunID == runID {
			out = append(out, cloneEntry(e))
		}
	}
	return out, nil
}
