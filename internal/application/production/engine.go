package production

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// Engine ejecuta producciones: convierte stock de ingredientes en stock de
// producto terminado según una receta, escalado a la cantidad solicitada del
// ingrediente principal. Una ejecución termina en completed (todos los
// asientos posteados) o failed (ledger restaurado), nunca a medias: los
// asientos se postean de a uno (un lock de clave por vez) y un fallo de
// posteo se resuelve con asientos compensatorios.
type Engine struct {
	definitionRepo repository.ProductionDefinitionRepository
	runRepo        repository.ProductionRunRepository
	itemRepo       repository.StockItemRepository
	locationRepo   repository.LocationRepository
	store          *ledger.Store
	log            *logger.Logger

	mu       sync.Mutex
	runLocks map[string]*sync.Mutex
}

// NewEngine construye el motor de producción.
func NewEngine(
	definitionRepo repository.ProductionDefinitionRepository,
	runRepo repository.ProductionRunRepository,
	itemRepo repository.StockItemRepository,
	locationRepo repository.LocationRepository,
	store *ledger.Store,
	log *logger.Logger,
) *Engine {
	return &Engine{
		definitionRepo: definitionRepo,
		runRepo:        runRepo,
		itemRepo:       itemRepo,
		locationRepo:   locationRepo,
		store:          store,
		log:            log,
		runLocks:       make(map[string]*sync.Mutex),
	}
}

// DefinitionInput entrada para registrar una receta.
type DefinitionInput struct {
	ProducedType string
	Denomination string
	Principal    entity.PrincipalIngredient
	RecipeLines  []entity.RecipeLine
	Result       entity.ResultItem
}

// CreateDefinition registra una receta. Cada línea (incluido el principal y el
// resultado) debe referir a un artículo existente y su unidad debe coincidir
// con la declarada del artículo.
func (e *Engine) CreateDefinition(input DefinitionInput) (*entity.ProductionDefinition, error) {
	if strings.TrimSpace(input.Denomination) == "" || !entity.ValidProducedType(input.ProducedType) {
		return nil, domain.ErrInvalidInput
	}
	if !input.Principal.QuantityPerBatchUnit.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if err := e.checkRecipeItem(input.Principal.ItemID, input.Principal.Unit); err != nil {
		return nil, err
	}
	for _, line := range input.RecipeLines {
		if !line.QuantityPerBatchUnit.IsPositive() {
			return nil, domain.ErrInvalidQuantity
		}
		if err := e.checkRecipeItem(line.IngredientItemID, line.Unit); err != nil {
			return nil, err
		}
	}
	if err := e.checkRecipeItem(input.Result.ItemID, input.Result.Unit); err != nil {
		return nil, err
	}

	now := time.Now()
	def := &entity.ProductionDefinition{
		ID:           uuid.New().String(),
		ProducedType: input.ProducedType,
		Denomination: strings.TrimSpace(input.Denomination),
		Principal:    input.Principal,
		RecipeLines:  append([]entity.RecipeLine(nil), input.RecipeLines...),
		Result:       input.Result,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.definitionRepo.Create(def); err != nil {
		return nil, err
	}
	e.log.Info().Str("definition_id", def.ID).Str("denomination", def.Denomination).Msg("receta registrada")
	return def, nil
}

// GetDefinition devuelve una receta.
func (e *Engine) GetDefinition(id string) (*entity.ProductionDefinition, error) {
	def, err := e.definitionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, domain.ErrDefinitionNotFound
	}
	return def, nil
}

// ListDefinitions devuelve recetas con paginación.
func (e *Engine) ListDefinitions(limit, offset int) ([]*entity.ProductionDefinition, error) {
	return e.definitionRepo.List(limit, offset)
}

// CreateRun crea una ejecución en scheduled. No toca el ledger: una ejecución
// nunca ejecutada se puede descartar sin más.
func (e *Engine) CreateRun(definitionID string, requestedPrincipalQuantity decimal.Decimal, actorID string) (*entity.ProductionRun, error) {
	if !requestedPrincipalQuantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	def, err := e.definitionRepo.GetByID(definitionID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, domain.ErrDefinitionNotFound
	}
	if !def.Active {
		return nil, domain.ErrInactiveDefinition
	}

	run := &entity.ProductionRun{
		ID:                         uuid.New().String(),
		DefinitionID:               definitionID,
		RequestedPrincipalQuantity: requestedPrincipalQuantity,
		Status:                     entity.RunStatusScheduled,
		ActorID:                    actorID,
		CreatedAt:                  time.Now(),
	}
	if err := e.runRepo.Create(run); err != nil {
		return nil, err
	}
	return run, nil
}

// GetRun devuelve una ejecución.
func (e *Engine) GetRun(id string) (*entity.ProductionRun, error) {
	run, err := e.runRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.ErrRunNotFound
	}
	return run, nil
}

// scaledLine una línea de receta ya escalada al factor de la ejecución.
type scaledLine struct {
	itemID   string
	quantity decimal.Decimal
	unit     string
}

// Execute ejecuta una producción programada. Factor de escala =
// cantidad solicitada / cantidad por unidad de lote del ingrediente principal;
// cada línea debita su cantidad escalada en la base central y el artículo
// resultado acredita el factor (unidades de lote producidas).
//
// Execute sobre una ejecución ya terminal es un no-op que devuelve el
// resultado almacenado; no vuelve a postear asientos.
func (e *Engine) Execute(ctx context.Context, runID string) (*entity.ProductionRun, error) {
	// Serializar por run: dos Execute concurrentes del mismo id ven una sola
	// ejecución y el segundo recibe el resultado terminal.
	lock := e.runLock(runID)
	lock.Lock()
	defer lock.Unlock()

	run, err := e.runRepo.GetByID(runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.ErrRunNotFound
	}
	if run.Terminal() {
		return run, nil
	}

	def, err := e.definitionRepo.GetByID(run.DefinitionID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, domain.ErrDefinitionNotFound
	}
	if !def.Active {
		return e.fail(run, domain.ErrInactiveDefinition)
	}
	base, err := e.locationRepo.GetCentralBase()
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, domain.ErrUnknownLocation
	}

	factor := run.RequestedPrincipalQuantity.Div(def.Principal.QuantityPerBatchUnit)
	lines := make([]scaledLine, 0, len(def.RecipeLines)+1)
	lines = append(lines, scaledLine{
		itemID:   def.Principal.ItemID,
		quantity: run.RequestedPrincipalQuantity,
		unit:     def.Principal.Unit,
	})
	for _, line := range def.RecipeLines {
		lines = append(lines, scaledLine{
			itemID:   line.IngredientItemID,
			quantity: line.QuantityPerBatchUnit.Mul(factor),
			unit:     line.Unit,
		})
	}

	// Pre-flight de solo lectura contra la proyección actual: si alguna línea
	// no alcanza, la ejecución falla sin postear ningún asiento.
	for _, line := range lines {
		available, err := e.store.GetQuantity(base.ID, line.itemID)
		if err != nil {
			return nil, err
		}
		if available.LessThan(line.quantity) {
			insufficient := &domain.InsufficientIngredientError{
				ItemID:    line.itemID,
				Required:  line.quantity,
				Available: available,
			}
			failed, ferr := e.fail(run, insufficient)
			if ferr != nil {
				return nil, ferr
			}
			return failed, insufficient
		}
	}

	run.Status = entity.RunStatusInProgress
	if err := e.runRepo.Update(run); err != nil {
		return nil, err
	}

	// Fase de posteo: una salida por línea y al final la entrada del resultado,
	// todas etiquetadas con el run. El pre-flight y el posteo no están
	// serializados entre sí: cada salida se revalida en el LedgerStore y un
	// fallo acá es fatal para la ejecución, con compensación de lo ya posteado.
	var posted []*entity.LedgerEntry
	for _, line := range lines {
		entry, err := e.store.RecordMovement(ctx, ledger.MovementInput{
			LocationID:             base.ID,
			ItemID:                 line.itemID,
			Kind:                   entity.EntryKindExit,
			Quantity:               line.quantity,
			Unit:                   line.unit,
			ActorID:                run.ActorID,
			RelatedProductionRunID: run.ID,
		})
		if err != nil {
			return e.abort(ctx, run, posted, err)
		}
		posted = append(posted, entry)
	}
	resultEntry, err := e.store.RecordMovement(ctx, ledger.MovementInput{
		LocationID:             base.ID,
		ItemID:                 def.Result.ItemID,
		Kind:                   entity.EntryKindEntry,
		Quantity:               factor,
		Unit:                   def.Result.Unit,
		ActorID:                run.ActorID,
		RelatedProductionRunID: run.ID,
	})
	if err != nil {
		return e.abort(ctx, run, posted, err)
	}
	posted = append(posted, resultEntry)

	now := time.Now()
	run.Status = entity.RunStatusCompleted
	run.CompletedAt = &now
	run.LedgerEntryIDs = entryIDs(posted)
	if err := e.runRepo.Update(run); err != nil {
		return nil, err
	}
	e.log.Info().
		Str("run_id", run.ID).
		Str("definition_id", def.ID).
		Str("factor", factor.String()).
		Int("entries", len(posted)).
		Msg("producción completada")
	return run, nil
}

// abort compensa los asientos ya posteados (asiento inverso por cada salida) y
// deja la ejecución en failed. La compensación son entradas puras: no pueden
// fallar por insuficiencia.
func (e *Engine) abort(ctx context.Context, run *entity.ProductionRun, posted []*entity.LedgerEntry, cause error) (*entity.ProductionRun, error) {
	for _, entry := range posted {
		comp, err := e.store.RecordMovement(ctx, ledger.MovementInput{
			LocationID:             entry.LocationID,
			ItemID:                 entry.ItemID,
			Kind:                   entity.EntryKindEntry,
			Quantity:               entry.Quantity,
			Unit:                   entry.Unit,
			ActorID:                run.ActorID,
			RelatedProductionRunID: run.ID,
		})
		if err != nil {
			// No debería pasar; queda registrado para intervención manual.
			e.log.Error().Err(err).
				Str("run_id", run.ID).
				Str("entry_id", entry.ID).
				Msg("falló la compensación de un asiento de producción")
			continue
		}
		run.LedgerEntryIDs = append(run.LedgerEntryIDs, entry.ID, comp.ID)
	}
	failed, err := e.fail(run, cause)
	if err != nil {
		return nil, err
	}
	return failed, cause
}

// fail transiciona la ejecución a failed (estado terminal).
func (e *Engine) fail(run *entity.ProductionRun, cause error) (*entity.ProductionRun, error) {
	now := time.Now()
	run.Status = entity.RunStatusFailed
	run.FailureReason = cause.Error()
	run.CompletedAt = &now
	if err := e.runRepo.Update(run); err != nil {
		return nil, err
	}
	e.log.Warn().Str("run_id", run.ID).Str("reason", run.FailureReason).Msg("producción fallida")
	return run, nil
}

func (e *Engine) checkRecipeItem(itemID, unit string) error {
	item, err := e.itemRepo.GetByID(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrUnknownItem
	}
	if !item.Active {
		return domain.ErrInactiveItem
	}
	if unit != item.Unit.Symbol {
		return domain.ErrUnitMismatch
	}
	return nil
}

func (e *Engine) runLock(runID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.runLocks[runID]
	if !ok {
		l = &sync.Mutex{}
		e.runLocks[runID] = l
	}
	return l
}

func entryIDs(entries []*entity.LedgerEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}
