package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.LedgerEntryRepository = (*LedgerEntryRepo)(nil)

// LedgerEntryRepo implementación del log append-only sobre PostgreSQL (usable
// con pool o tx). La columna seq (bigserial) materializa el orden de commit.
type LedgerEntryRepo struct {
	q Querier
}

// NewLedgerEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerEntryRepository(q Querier) *LedgerEntryRepo {
	return &LedgerEntryRepo{q: q}
}

const ledgerEntryColumns = `id, ts, location_id, item_id, kind, quantity, unit, actor_id, related_entry_id, related_production_run_id`

// Append persiste un asiento. Nunca hay UPDATE ni DELETE sobre esta tabla.
func (r *LedgerEntryRepo) Append(entry *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, ts, location_id, item_id, kind, quantity, unit, actor_id, related_entry_id, related_production_run_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.Timestamp, entry.LocationID, entry.ItemID, entry.Kind,
		entry.Quantity, entry.Unit, nullable(entry.ActorID),
		nullable(entry.RelatedEntryID), nullable(entry.RelatedProductionRunID),
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID; nil si no existe.
func (r *LedgerEntryRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE id = $1`
	e, err := scanEntry(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return e, nil
}

// ListByKey devuelve los asientos de (ubicación, artículo) en orden de commit.
func (r *LedgerEntryRepo) ListByKey(locationID, itemID string) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries WHERE location_id = $1 AND item_id = $2
		ORDER BY seq`
	rows, err := r.q.Query(context.Background(), query, locationID, itemID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListByProductionRun devuelve los asientos de una ejecución en orden de commit.
func (r *LedgerEntryRepo) ListByProductionRun(runID string) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries WHERE related_production_run_id = $1
		ORDER BY seq`
	rows, err := r.q.Query(context.Background(), query, runID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries by run: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntry(row pgx.Row) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	var actorID, relatedEntryID, relatedRunID *string
	err := row.Scan(
		&e.ID, &e.Timestamp, &e.LocationID, &e.ItemID, &e.Kind,
		&e.Quantity, &e.Unit, &actorID, &relatedEntryID, &relatedRunID,
	)
	if err != nil {
		return nil, err
	}
	e.ActorID = deref(actorID)
	e.RelatedEntryID = deref(relatedEntryID)
	e.RelatedProductionRunID = deref(relatedRunID)
	return &e, nil
}

func scanEntries(rows pgx.Rows) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
