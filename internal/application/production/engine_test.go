package production_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/application/production"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/memory"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
	"github.com/tu-usuario/stock-ledger/pkg/pubsub"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: motor de producción sobre el backend en memoria con la receta del
// pan: 2 kg de harina por unidad de lote, resultado en unités.
// ──────────────────────────────────────────────────────────────────────────────

type engineFixture struct {
	engine   *production.Engine
	store    *ledger.Store
	itemRepo repository.StockItemRepository
	flour    *entity.StockItem
	bread    *entity.StockItem
	base     *entity.Location
	def      *entity.ProductionDefinition
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	mem := memory.NewStore()
	itemRepo := memory.NewStockItemRepository(mem)
	locationRepo := memory.NewLocationRepository(mem)
	store := ledger.NewStore(
		memory.NewTxRunner(mem),
		itemRepo,
		locationRepo,
		memory.NewLedgerEntryRepository(mem),
		memory.NewProjectionRepository(mem),
		pubsub.New(),
		logger.Nop(),
	)
	engine := production.NewEngine(
		memory.NewProductionDefinitionRepository(mem),
		memory.NewProductionRunRepository(mem),
		itemRepo,
		locationRepo,
		store,
		logger.Nop(),
	)

	now := time.Now()
	flour := &entity.StockItem{
		ID: uuid.New().String(), Denomination: "Farine",
		Category: entity.CategoryIngredient,
		Unit:     entity.Unit{Name: "kilogramme", Symbol: "kg"},
		Active:   true, CreatedAt: now, UpdatedAt: now,
	}
	bread := &entity.StockItem{
		ID: uuid.New().String(), Denomination: "Pain",
		Category: entity.CategoryConsommable,
		Unit:     entity.Unit{Name: "unité", Symbol: "u"},
		Active:   true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, itemRepo.Create(flour))
	require.NoError(t, itemRepo.Create(bread))

	base := &entity.Location{
		ID: uuid.New().String(), Denomination: "Base Central",
		Kind: entity.LocationKindCentralBase, Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, locationRepo.Create(base))

	def, err := engine.CreateDefinition(production.DefinitionInput{
		ProducedType: entity.ProducedTypeMenu,
		Denomination: "Pain maison",
		Principal: entity.PrincipalIngredient{
			ItemID:               flour.ID,
			QuantityPerBatchUnit: decimal.NewFromInt(2),
			Unit:                 "kg",
		},
		Result: entity.ResultItem{ItemID: bread.ID, Unit: "u"},
	})
	require.NoError(t, err)

	return &engineFixture{
		engine: engine, store: store, itemRepo: itemRepo,
		flour: flour, bread: bread, base: base, def: def,
	}
}

func (f *engineFixture) seedFlour(t *testing.T, qty string) {
	t.Helper()
	_, err := f.store.RecordMovement(context.Background(), ledger.MovementInput{
		LocationID: f.base.ID,
		ItemID:     f.flour.ID,
		Kind:       entity.EntryKindEntry,
		Quantity:   decimal.RequireFromString(qty),
		Unit:       "kg",
	})
	require.NoError(t, err)
}

func (f *engineFixture) quantity(t *testing.T, itemID string) decimal.Decimal {
	t.Helper()
	q, err := f.store.GetQuantity(f.base.ID, itemID)
	require.NoError(t, err)
	return q
}

// Con 10 kg de harina y una receta de 2 kg por unidad de lote, pedir 6 kg
// produce 3 unidades y deja 4 kg: factor de escala = 6 / 2 = 3.
func TestExecute_ProduccionEscalada(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	f.seedFlour(t, "10")

	run, err := f.engine.CreateRun(f.def.ID, decimal.NewFromInt(6), "panadero")
	require.NoError(t, err)
	assert.Equal(t, entity.RunStatusScheduled, run.Status)

	done, err := f.engine.Execute(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RunStatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.Len(t, done.LedgerEntryIDs, 2, "una salida de harina y una entrada de pan")

	assert.True(t, f.quantity(t, f.flour.ID).Equal(decimal.NewFromInt(4)))
	assert.True(t, f.quantity(t, f.bread.ID).Equal(decimal.NewFromInt(3)))
}

// Pedir más de lo que hay falla en el pre-flight: la ejecución queda en failed
// sin postear ningún asiento.
func TestExecute_InsuficienciaEnPreflight(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	f.seedFlour(t, "10")

	run1, err := f.engine.CreateRun(f.def.ID, decimal.NewFromInt(6), "panadero")
	require.NoError(t, err)
	_, err = f.engine.Execute(ctx, run1.ID)
	require.NoError(t, err)

	// Quedan 4 kg; pedir 6 kg más no alcanza.
	run2, err := f.engine.CreateRun(f.def.ID, decimal.NewFromInt(6), "panadero")
	require.NoError(t, err)
	failed, err := f.engine.Execute(ctx, run2.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientIngredient)
	require.NotNil(t, failed)
	assert.Equal(t, entity.RunStatusFailed, failed.Status)
	assert.NotEmpty(t, failed.FailureReason)
	assert.Empty(t, failed.LedgerEntryIDs, "el pre-flight no postea asientos")

	var detail *domain.InsufficientIngredientError
	require.ErrorAs(t, err, &detail)
	assert.Equal(t, f.flour.ID, detail.ItemID)
	assert.True(t, detail.Required.Equal(decimal.NewFromInt(6)))
	assert.True(t, detail.Available.Equal(decimal.NewFromInt(4)))

	// El estado del ledger no se movió.
	assert.True(t, f.quantity(t, f.flour.ID).Equal(decimal.NewFromInt(4)))
	assert.True(t, f.quantity(t, f.bread.ID).Equal(decimal.NewFromInt(3)))
}

// Re-ejecutar una ejecución terminal devuelve el resultado almacenado sin
// volver a postear.
func TestExecute_TerminalEsIdempotente(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	f.seedFlour(t, "10")

	run, err := f.engine.CreateRun(f.def.ID, decimal.NewFromInt(6), "panadero")
	require.NoError(t, err)
	first, err := f.engine.Execute(ctx, run.ID)
	require.NoError(t, err)

	again, err := f.engine.Execute(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Status, again.Status)
	assert.Equal(t, first.LedgerEntryIDs, again.LedgerEntryIDs)

	// Mismo saldo: nada se posteó de nuevo.
	assert.True(t, f.quantity(t, f.flour.ID).Equal(decimal.NewFromInt(4)))
	assert.True(t, f.quantity(t, f.bread.ID).Equal(decimal.NewFromInt(3)))
}

// Si un posteo falla después de haber debitado ingredientes (acá: el artículo
// resultado se desactivó entre la programación y la ejecución), los débitos ya
// posteados se compensan con asientos inversos y la ejecución queda en failed
// con el ledger restaurado.
func TestExecute_FalloPosteriorCompensa(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	f.seedFlour(t, "10")

	run, err := f.engine.CreateRun(f.def.ID, decimal.NewFromInt(6), "panadero")
	require.NoError(t, err)

	f.bread.Active = false
	require.NoError(t, f.itemRepo.Update(f.bread))

	failed, err := f.engine.Execute(ctx, run.ID)
	assert.ErrorIs(t, err, domain.ErrInactiveItem)
	require.NotNil(t, failed)
	assert.Equal(t, entity.RunStatusFailed, failed.Status)
	// Débito + compensación quedan ambos registrados en la ejecución.
	assert.Len(t, failed.LedgerEntryIDs, 2)

	// El saldo de harina volvió al punto de partida; no se acreditó pan.
	assert.True(t, f.quantity(t, f.flour.ID).Equal(decimal.NewFromInt(10)))
	assert.True(t, f.quantity(t, f.bread.ID).IsZero())

	// La historia conserva el débito y su inverso: el ledger nunca se edita.
	history, err := f.store.ReplayHistory(f.base.ID, f.flour.ID)
	require.NoError(t, err)
	require.Len(t, history, 3, "siembra + salida + compensación")
	assert.Equal(t, entity.EntryKindExit, history[1].Kind)
	assert.Equal(t, entity.EntryKindEntry, history[2].Kind)
	assert.Equal(t, run.ID, history[1].RelatedProductionRunID)
	assert.Equal(t, run.ID, history[2].RelatedProductionRunID)
}

func TestCreateRun_Validaciones(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.engine.CreateRun(f.def.ID, decimal.Zero, "")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.engine.CreateRun("no-existe", decimal.NewFromInt(1), "")
	assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
}

func TestCreateDefinition_UnidadDebeCoincidir(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.engine.CreateDefinition(production.DefinitionInput{
		ProducedType: entity.ProducedTypeMenu,
		Denomination: "Receta rota",
		Principal: entity.PrincipalIngredient{
			ItemID:               f.flour.ID,
			QuantityPerBatchUnit: decimal.NewFromInt(2),
			Unit:                 "l", // la harina se declara en kg
		},
		Result: entity.ResultItem{ItemID: f.bread.ID, Unit: "u"},
	})
	assert.ErrorIs(t, err, domain.ErrUnitMismatch)
}

func TestExecute_RunInexistente(t *testing.T) {
	f := newEngineFixture(t)
	_, err := f.engine.Execute(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}
