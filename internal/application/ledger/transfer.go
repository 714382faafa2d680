package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// TransferInput entrada para Transfer.
type TransferInput struct {
	FromLocationID string
	ToLocationID   string
	ItemID         string
	Quantity       decimal.Decimal
	Unit           string
	ActorID        string
}

// TransferCoordinator expresa una transferencia como un par de asientos
// transfer-out/transfer-in comprometidos en una sola transacción. Las dos
// claves de proyección viven bajo locks independientes: se adquieren siempre
// en orden lexicográfico global (locationID, itemID) para que dos
// transferencias en sentidos opuestos no puedan interbloquearse.
type TransferCoordinator struct {
	txRunner TxRunner
}

// NewTransferCoordinator construye el coordinador.
func NewTransferCoordinator(txRunner TxRunner) *TransferCoordinator {
	return &TransferCoordinator{txRunner: txRunner}
}

// Execute valida la suficiencia en origen y compromete ambas patas con
// punteros RelatedEntryID cruzados, todo-o-nada. La validación de catálogo
// (artículo, unidades, ubicaciones) es responsabilidad del caller.
func (c *TransferCoordinator) Execute(ctx context.Context, input TransferInput) (*entity.LedgerEntry, *entity.LedgerEntry, error) {
	now := time.Now()
	outEntry := &entity.LedgerEntry{
		ID:         uuid.New().String(),
		Timestamp:  now,
		LocationID: input.FromLocationID,
		ItemID:     input.ItemID,
		Kind:       entity.EntryKindTransferOut,
		Quantity:   input.Quantity,
		Unit:       input.Unit,
		ActorID:    input.ActorID,
	}
	inEntry := &entity.LedgerEntry{
		ID:         uuid.New().String(),
		Timestamp:  now,
		LocationID: input.ToLocationID,
		ItemID:     input.ItemID,
		Kind:       entity.EntryKindTransferIn,
		Quantity:   input.Quantity,
		Unit:       input.Unit,
		ActorID:    input.ActorID,
	}
	// Patas enlazadas: cada asiento apunta a su contraparte.
	outEntry.RelatedEntryID = inEntry.ID
	inEntry.RelatedEntryID = outEntry.ID

	err := c.txRunner.Run(ctx, func(
		entryRepo repository.LedgerEntryRepository,
		projectionRepo repository.ProjectionRepository,
	) error {
		// Bloquear ambas claves en orden lexicográfico global.
		first, second := input.FromLocationID, input.ToLocationID
		if lockKeyOrder(second, input.ItemID) < lockKeyOrder(first, input.ItemID) {
			first, second = second, first
		}
		projections := make(map[string]*entity.Projection, 2)
		for _, locationID := range []string{first, second} {
			proj, err := projectionRepo.GetForUpdate(locationID, input.ItemID)
			if err != nil {
				return err
			}
			projections[locationID] = proj
		}

		src := projections[input.FromLocationID]
		dst := projections[input.ToLocationID]
		if src.Quantity.LessThan(input.Quantity) {
			return domain.ErrInsufficientStock
		}

		if err := entryRepo.Append(outEntry); err != nil {
			return err
		}
		if err := entryRepo.Append(inEntry); err != nil {
			return err
		}
		src.Quantity = src.Quantity.Sub(input.Quantity)
		dst.Quantity = dst.Quantity.Add(input.Quantity)
		src.UpdatedAt = now
		dst.UpdatedAt = now
		if err := projectionRepo.Upsert(src); err != nil {
			return err
		}
		return projectionRepo.Upsert(dst)
	})
	if err != nil {
		return nil, nil, err
	}
	return outEntry, inEntry, nil
}

// lockKeyOrder clave de ordenación global de locks (coincide con la clave de
// proyección).
func lockKeyOrder(locationID, itemID string) string {
	return locationID + "|" + itemID
}
