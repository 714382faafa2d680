package memory

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con semántica transaccional sobre el Store:
// staging de asientos y proyecciones + locks por clave adquiridos vía
// GetForUpdate y liberados en commit/rollback. Es el equivalente en memoria
// del Begin/Commit/Rollback de una base transaccional.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el estado compartido.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos atados a una transacción en memoria. Si fn devuelve
// error no se aplica nada (rollback); si no, el staging se aplica de forma
// atómica y recién entonces se liberan los locks de clave.
func (r *TxRunner) Run(ctx context.Context, fn func(
	entryRepo repository.LedgerEntryRepository,
	projectionRepo repository.ProjectionRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := &tx{
		store:      r.store,
		heldSet:    make(map[string]bool),
		stagedProj: make(map[string]*entity.Projection),
	}
	defer t.rollback()

	entryRepo := &LedgerEntryRepo{store: r.store, tx: t}
	projectionRepo := &ProjectionRepo{store: r.store, tx: t}

	if err := fn(entryRepo, projectionRepo); err != nil {
		return err
	}
	t.commit()
	return nil
}

// tx transacción en memoria: claves bloqueadas + cambios en staging.
type tx struct {
	store         *Store
	held          []string // claves bloqueadas, en orden de adquisición
	heldSet       map[string]bool
	stagedEntries []*entity.LedgerEntry
	stagedProj    map[string]*entity.Projection
	done          bool
}

// lockKey adquiere el lock de la clave si aún no lo tiene esta transacción.
// El orden global de adquisición es responsabilidad del caller (las
// operaciones multi-clave bloquean en orden lexicográfico).
func (t *tx) lockKey(key string) {
	if t.heldSet[key] {
		return
	}
	t.store.keyLock(key).Lock()
	t.held = append(t.held, key)
	t.heldSet[key] = true
}

// commit aplica el staging al estado compartido y libera los locks. El
// aplicado completo ocurre bajo el mutex del store: un lector nunca ve un
// asiento sin su proyección actualizada.
func (t *tx) commit() {
	if t.done {
		return
	}
	t.store.mu.Lock()
	for _, e := range t.stagedEntries {
		idx := len(t.store.entries)
		t.store.entries = append(t.store.entries, e)
		t.store.entryByID[e.ID] = idx
		k := projectionKey(e.LocationID, e.ItemID)
		t.store.entryByKey[k] = append(t.store.entryByKey[k], idx)
	}
	for k, p := range t.stagedProj {
		t.store.projections[k] = p
	}
	t.store.mu.Unlock()
	t.release()
}

// rollback descarta el staging y libera los locks. Idempotente tras commit.
func (t *tx) rollback() {
	if t.done {
		return
	}
	t.release()
}

func (t *tx) release() {
	t.done = true
	for i := len(t.held) - 1; i >= 0; i-- {
		t.store.keyLock(t.held[i]).Unlock()
	}
	t.held = nil
}
