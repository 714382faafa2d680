package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	ledgerdomain "github.com/tu-usuario/stock-ledger/internal/domain/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
	"github.com/tu-usuario/stock-ledger/pkg/pubsub"
)

// Store es el LedgerStore: punto de entrada de todos los movimientos de stock.
// Cada movimiento valida, apendiza el asiento y actualiza la proyección en una
// sola sección crítica por clave (ubicación, artículo), y publica el evento de
// proyección recién después del commit. Dos salidas concurrentes contra el
// mismo stock no pueden pasar ambas el chequeo de suficiencia.
type Store struct {
	txRunner       TxRunner
	itemRepo       repository.StockItemRepository
	locationRepo   repository.LocationRepository
	entryRepo      repository.LedgerEntryRepository
	projectionRepo repository.ProjectionRepository
	notifier       *pubsub.Notifier
	log            *logger.Logger
}

// NewStore construye el LedgerStore.
func NewStore(
	txRunner TxRunner,
	itemRepo repository.StockItemRepository,
	locationRepo repository.LocationRepository,
	entryRepo repository.LedgerEntryRepository,
	projectionRepo repository.ProjectionRepository,
	notifier *pubsub.Notifier,
	log *logger.Logger,
) *Store {
	return &Store{
		txRunner:       txRunner,
		itemRepo:       itemRepo,
		locationRepo:   locationRepo,
		entryRepo:      entryRepo,
		projectionRepo: projectionRepo,
		notifier:       notifier,
		log:            log,
	}
}

// MovementInput entrada para RecordMovement.
type MovementInput struct {
	LocationID string
	ItemID     string
	Kind       string // entry, exit, transfer-out, transfer-in
	Quantity   decimal.Decimal
	Unit       string // símbolo de unidad; debe coincidir con la del artículo
	ActorID    string

	// RelatedProductionRunID lo setea el motor de producción para los asientos
	// de una ejecución; vacío en movimientos directos.
	RelatedProductionRunID string
}

// RecordMovement registra un movimiento de stock. Toda validación ocurre antes
// de tocar el ledger; una llamada rechazada no deja ningún estado parcial.
// Para movimientos de salida la cantidad proyectada resultante debe ser >= 0,
// si no falla con ErrInsufficientStock.
func (s *Store) RecordMovement(ctx context.Context, input MovementInput) (*entity.LedgerEntry, error) {
	if err := s.validateMovement(input); err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &entity.LedgerEntry{
		ID:                     uuid.New().String(),
		Timestamp:              now,
		LocationID:             input.LocationID,
		ItemID:                 input.ItemID,
		Kind:                   input.Kind,
		Quantity:               input.Quantity,
		Unit:                   input.Unit,
		ActorID:                input.ActorID,
		RelatedProductionRunID: input.RelatedProductionRunID,
	}

	var newQty decimal.Decimal
	err := s.txRunner.Run(ctx, func(
		entryRepo repository.LedgerEntryRepository,
		projectionRepo repository.ProjectionRepository,
	) error {
		proj, err := projectionRepo.GetForUpdate(input.LocationID, input.ItemID)
		if err != nil {
			return err
		}
		q := proj.Quantity.Add(entry.SignedQuantity())
		if q.IsNegative() {
			return domain.ErrInsufficientStock
		}
		if err := entryRepo.Append(entry); err != nil {
			return err
		}
		proj.Quantity = q
		proj.UpdatedAt = now
		if err := projectionRepo.Upsert(proj); err != nil {
			return err
		}
		newQty = q
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(pubsub.ProjectionChangedEvent{
		LocationID:  input.LocationID,
		ItemID:      input.ItemID,
		NewQuantity: newQty,
		At:          now,
	})
	s.log.Debug().
		Str("entry_id", entry.ID).
		Str("location_id", input.LocationID).
		Str("item_id", input.ItemID).
		Str("kind", input.Kind).
		Str("quantity", input.Quantity.String()).
		Msg("movimiento registrado")
	return entry, nil
}

// Transfer mueve stock entre dos ubicaciones como débito/crédito emparejado.
// Delega en el TransferCoordinator; se expone acá porque comparte la garantía
// de atomicidad de un movimiento simple.
func (s *Store) Transfer(ctx context.Context, input TransferInput) (*entity.LedgerEntry, *entity.LedgerEntry, error) {
	if err := s.validateTransfer(input); err != nil {
		return nil, nil, err
	}

	coordinator := &TransferCoordinator{txRunner: s.txRunner}
	outEntry, inEntry, err := coordinator.Execute(ctx, input)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	srcQty, _ := s.GetQuantity(input.FromLocationID, input.ItemID)
	dstQty, _ := s.GetQuantity(input.ToLocationID, input.ItemID)
	s.notifier.Publish(pubsub.ProjectionChangedEvent{
		LocationID: input.FromLocationID, ItemID: input.ItemID, NewQuantity: srcQty, At: now,
	})
	s.notifier.Publish(pubsub.ProjectionChangedEvent{
		LocationID: input.ToLocationID, ItemID: input.ItemID, NewQuantity: dstQty, At: now,
	})
	s.log.Debug().
		Str("from_location_id", input.FromLocationID).
		Str("to_location_id", input.ToLocationID).
		Str("item_id", input.ItemID).
		Str("quantity", input.Quantity.String()).
		Msg("transferencia registrada")
	return outEntry, inEntry, nil
}

// GetQuantity lee la cantidad proyectada comprometida de (ubicación, artículo).
// Nunca espera más que la sección crítica mínima de lectura; clave sin
// movimientos = cero.
func (s *Store) GetQuantity(locationID, itemID string) (decimal.Decimal, error) {
	proj, err := s.projectionRepo.Get(locationID, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	return proj.Quantity, nil
}

// ReplayHistory devuelve los asientos comprometidos de (ubicación, artículo)
// en orden de commit. Secuencia finita y repetible: sirve para auditoría y
// para reconstruir la proyección.
func (s *Store) ReplayHistory(locationID, itemID string) ([]*entity.LedgerEntry, error) {
	return s.entryRepo.ListByKey(locationID, itemID)
}

// RebuildProjection recalcula la proyección de una clave replayando su
// historia, bajo el lock de la clave. Útil tras una restauración o ante una
// proyección bajo sospecha.
func (s *Store) RebuildProjection(ctx context.Context, locationID, itemID string) (decimal.Decimal, error) {
	now := time.Now()
	var rebuilt decimal.Decimal
	err := s.txRunner.Run(ctx, func(
		entryRepo repository.LedgerEntryRepository,
		projectionRepo repository.ProjectionRepository,
	) error {
		proj, err := projectionRepo.GetForUpdate(locationID, itemID)
		if err != nil {
			return err
		}
		entries, err := entryRepo.ListByKey(locationID, itemID)
		if err != nil {
			return err
		}
		proj.Quantity = ledgerdomain.Balance(entries)
		proj.UpdatedAt = now
		if err := projectionRepo.Upsert(proj); err != nil {
			return err
		}
		rebuilt = proj.Quantity
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	s.notifier.Publish(pubsub.ProjectionChangedEvent{
		LocationID: locationID, ItemID: itemID, NewQuantity: rebuilt, At: now,
	})
	return rebuilt, nil
}

// validateMovement valida tipo, cantidad, artículo (existente, activo, unidad)
// y ubicación (existente, activa).
func (s *Store) validateMovement(input MovementInput) error {
	if !entity.ValidEntryKind(input.Kind) {
		return domain.ErrInvalidInput
	}
	if !input.Quantity.IsPositive() {
		return domain.ErrInvalidQuantity
	}
	if err := s.checkItem(input.ItemID, input.Unit); err != nil {
		return err
	}
	return s.checkLocation(input.LocationID)
}

func (s *Store) validateTransfer(input TransferInput) error {
	if input.FromLocationID == input.ToLocationID {
		return domain.ErrInvalidInput
	}
	if !input.Quantity.IsPositive() {
		return domain.ErrInvalidQuantity
	}
	if err := s.checkItem(input.ItemID, input.Unit); err != nil {
		return err
	}
	if err := s.checkLocation(input.FromLocationID); err != nil {
		return err
	}
	return s.checkLocation(input.ToLocationID)
}

func (s *Store) checkItem(itemID, unit string) error {
	item, err := s.itemRepo.GetByID(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrUnknownItem
	}
	if !item.Active {
		return domain.ErrInactiveItem
	}
	// Sin conversión implícita: el símbolo debe coincidir exactamente.
	if unit != item.Unit.Symbol {
		return domain.ErrUnitMismatch
	}
	return nil
}

func (s *Store) checkLocation(locationID string) error {
	location, err := s.locationRepo.GetByID(locationID)
	if err != nil {
		return err
	}
	if location == nil {
		return domain.ErrUnknownLocation
	}
	if !location.Active {
		return domain.ErrInactiveLocation
	}
	return nil
}
