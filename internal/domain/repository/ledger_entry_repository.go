package repository

import "github.com/tu-usuario/stock-ledger/internal/domain/entity"

// LedgerEntryRepository define el puerto del log append-only de asientos.
// Los asientos solo se apendizan; nunca hay Update ni Delete.
type LedgerEntryRepository interface {
	Append(entry *entity.LedgerEntry) error
	GetByID(id string) (*entity.LedgerEntry, error)
	// ListByKey devuelve los asientos de (ubicación, artículo) en orden de commit.
	ListByKey(locationID, itemID string) ([]*entity.LedgerEntry, error)
	ListByProductionRun(runID string) ([]*entity.LedgerEntry, error)
}
