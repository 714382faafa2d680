package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/memory"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
	"github.com/tu-usuario/stock-ledger/pkg/pubsub"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: un LedgerStore sobre el backend en memoria con un artículo (kg) y
// dos ubicaciones activas sembrados directamente en los repositorios.
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store        *ledger.Store
	notifier     *pubsub.Notifier
	itemRepo     repository.StockItemRepository
	locationRepo repository.LocationRepository
	item         *entity.StockItem
	base         *entity.Location
	stand        *entity.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := memory.NewStore()
	itemRepo := memory.NewStockItemRepository(mem)
	locationRepo := memory.NewLocationRepository(mem)
	notifier := pubsub.New()
	store := ledger.NewStore(
		memory.NewTxRunner(mem),
		itemRepo,
		locationRepo,
		memory.NewLedgerEntryRepository(mem),
		memory.NewProjectionRepository(mem),
		notifier,
		logger.Nop(),
	)

	now := time.Now()
	item := &entity.StockItem{
		ID:           uuid.New().String(),
		Denomination: "Farine",
		Category:     entity.CategoryIngredient,
		Unit:         entity.Unit{Name: "kilogramme", Symbol: "kg"},
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, itemRepo.Create(item))

	base := &entity.Location{
		ID: uuid.New().String(), Denomination: "Base Central",
		Kind: entity.LocationKindCentralBase, Active: true, CreatedAt: now, UpdatedAt: now,
	}
	stand := &entity.Location{
		ID: uuid.New().String(), Denomination: "Stand Plage",
		Kind: entity.LocationKindStand, Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, locationRepo.Create(base))
	require.NoError(t, locationRepo.Create(stand))

	return &fixture{
		store: store, notifier: notifier,
		itemRepo: itemRepo, locationRepo: locationRepo,
		item: item, base: base, stand: stand,
	}
}

func (f *fixture) movement(kind string, qty string) ledger.MovementInput {
	return ledger.MovementInput{
		LocationID: f.base.ID,
		ItemID:     f.item.ID,
		Kind:       kind,
		Quantity:   decimal.RequireFromString(qty),
		Unit:       "kg",
		ActorID:    "tester",
	}
}

func (f *fixture) mustQuantity(t *testing.T, locationID string) decimal.Decimal {
	t.Helper()
	q, err := f.store.GetQuantity(locationID, f.item.ID)
	require.NoError(t, err)
	return q
}

func TestRecordMovement_EntradaActualizaProyeccion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.store.RecordMovement(ctx, f.movement(entity.EntryKindEntry, "10.5"))
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, entity.EntryKindEntry, entry.Kind)

	assert.True(t, f.mustQuantity(t, f.base.ID).Equal(decimal.RequireFromString("10.5")))

	_, err = f.store.RecordMovement(ctx, f.movement(entity.EntryKindExit, "4"))
	require.NoError(t, err)
	assert.True(t, f.mustQuantity(t, f.base.ID).Equal(decimal.RequireFromString("6.5")))
}

func TestRecordMovement_SalidaInsuficiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.RecordMovement(ctx, f.movement(entity.EntryKindEntry, "3"))
	require.NoError(t, err)

	_, err = f.store.RecordMovement(ctx, f.movement(entity.EntryKindExit, "5"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El rechazo no deja estado parcial: ni asiento ni cambio de proyección.
	assert.True(t, f.mustQuantity(t, f.base.ID).Equal(decimal.NewFromInt(3)))
	history, err := f.store.ReplayHistory(f.base.ID, f.item.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	// Sacar exactamente todo sí es válido (el invariante es >= 0).
	_, err = f.store.RecordMovement(ctx, f.movement(entity.EntryKindExit, "3"))
	require.NoError(t, err)
	assert.True(t, f.mustQuantity(t, f.base.ID).IsZero())
}

func TestRecordMovement_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*ledger.MovementInput)
		wantErr error
	}{
		{"tipo desconocido", func(m *ledger.MovementInput) { m.Kind = "ajuste" }, domain.ErrInvalidInput},
		{"cantidad cero", func(m *ledger.MovementInput) { m.Quantity = decimal.Zero }, domain.ErrInvalidQuantity},
		{"cantidad negativa", func(m *ledger.MovementInput) { m.Quantity = decimal.NewFromInt(-1) }, domain.ErrInvalidQuantity},
		{"artículo desconocido", func(m *ledger.MovementInput) { m.ItemID = "no-existe" }, domain.ErrUnknownItem},
		{"ubicación desconocida", func(m *ledger.MovementInput) { m.LocationID = "no-existe" }, domain.ErrUnknownLocation},
		{"unidad distinta a la declarada", func(m *ledger.MovementInput) { m.Unit = "l" }, domain.ErrUnitMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := f.movement(entity.EntryKindEntry, "1")
			tc.mutate(&in)
			_, err := f.store.RecordMovement(ctx, in)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	// Nada de lo anterior tocó el ledger.
	history, err := f.store.ReplayHistory(f.base.ID, f.item.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRecordMovement_ArticuloInactivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.item.Active = false
	require.NoError(t, f.itemRepo.Update(f.item))

	_, err := f.store.RecordMovement(ctx, f.movement(entity.EntryKindEntry, "1"))
	assert.ErrorIs(t, err, domain.ErrInactiveItem)
}

func TestRecordMovement_UbicacionInactiva(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.stand.Active = false
	require.NoError(t, f.locationRepo.Update(f.stand))

	in := f.movement(entity.EntryKindEntry, "1")
	in.LocationID = f.stand.ID
	_, err := f.store.RecordMovement(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInactiveLocation)
}

func TestTransfer_DebitoYCreditoAtomicos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.RecordMovement(ctx, f.movement(entity.EntryKindEntry, "10"))
	require.NoError(t, err)

	out, in, err := f.store.Transfer(ctx, ledger.TransferInput{
		FromLocationID: f.base.ID,
		ToLocationID:   f.stand.ID,
		ItemID:         f.item.ID,
		Quantity:       decimal.NewFromInt(4),
		Unit:           "kg",
		ActorID:        "tester",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.EntryKindTransferOut, out.Kind)
	assert.Equal(t, entity.EntryKindTransferIn, in.Kind)
	// Las dos patas quedan enlazadas entre sí.
	assert.Equal(t, in.ID, out.RelatedEntryID)
	assert.Equal(t, out.ID, in.RelatedEntryID)

	assert.True(t, f.mustQuantity(t, f.base.ID).Equal(decimal.NewFromInt(6)))
	assert.True(t, f.mustQuantity(t, f.stand.ID).Equal(decimal.NewFromInt(4)))
}

func TestTransfer_InsuficienciaNoDejaNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.RecordMovement(ctx, f.movement(entity.EntryKindEntry, "2"))
	require.NoError(t, err)

	_, _, err = f.store.Transfer(ctx, ledger.TransferInput{
		FromLocationID: f.base.ID,
		ToLocationID:   f.stand.ID,
		ItemID:         f.item.ID,
		Quantity:       decimal.NewFromInt(5),
		Unit:           "kg",
		ActorID:        "tester",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ninguna de las dos patas se aplicó.
	assert.True(t, f.mustQuantity(t, f.base.ID).Equal(decimal.NewFromInt(2)))
	assert.True(t, f.mustQuantity(t, f.stand.ID).IsZero())
	history, err := f.store.ReplayHistory(f.stand.ID, f.item.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTransfer_MismaUbicacionRechazada(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.store.Transfer(context.Background(), ledger.TransferInput{
		FromLocationID: f.base.ID,
		ToLocationID:   f.base.ID,
		ItemID:         f.item.ID,
		Quantity:       decimal.NewFromInt(1),
		Unit:           "kg",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReplayHistory_OrdenDeCommitYRebuild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	quantities := []string{"5", "2", "1"}
	kinds := []string{entity.EntryKindEntry, entity.EntryKindExit, entity.EntryKindEntry}
	for i := range quantities {
		_, err := f.store.RecordMovement(ctx, f.movement(kinds[i], quantities[i]))
		require.NoError(t, err)
	}

	history, err := f.store.ReplayHistory(f.base.ID, f.item.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i := range history {
		assert.Equal(t, kinds[i], history[i].Kind, "asiento %d fuera de orden", i)
	}

	// Rebuild replaya la historia y llega al mismo saldo que la proyección.
	rebuilt, err := f.store.RebuildProjection(ctx, f.base.ID, f.item.ID)
	require.NoError(t, err)
	assert.True(t, rebuilt.Equal(decimal.NewFromInt(4)), "5 - 2 + 1 = 4")
	assert.True(t, f.mustQuantity(t, f.base.ID).Equal(rebuilt))
}

func TestGetQuantity_ClaveSinMovimientosEsCero(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.mustQuantity(t, f.stand.ID).IsZero())
}

// Dos salidas concurrentes contra el mismo stock jamás pueden pasar ambas el
// chequeo de suficiencia si la suma excede lo disponible: el total de éxitos
// queda acotado por el stock sembrado y la proyección nunca es negativa.
func TestRecordMovement_SalidasConcurrentesNoNegativizan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const seeded = 10
	const attempts = 25
	_, err := f.store.RecordMovement(ctx, f.movement(entity.EntryKindEntry, "10"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.store.RecordMovement(ctx, f.movement(entity.EntryKindExit, "1"))
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, seeded, successes, "deben pasar exactamente tantas salidas como stock había")
	final := f.mustQuantity(t, f.base.ID)
	assert.True(t, final.IsZero(), "cantidad final: %s", final)

	// La historia replayada balancea igual que la proyección.
	history, err := f.store.ReplayHistory(f.base.ID, f.item.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1+seeded)
}

// El evento publicado tras cada commit lleva la clave afectada; los
// consumidores lo usan como invalidación.
func TestRecordMovement_PublicaEventoDeProyeccion(t *testing.T) {
	f := newFixture(t)
	sub := f.notifier.Subscribe(pubsub.Filter{LocationID: f.base.ID, ItemID: f.item.ID})
	defer sub.Cancel()

	_, err := f.store.RecordMovement(context.Background(), f.movement(entity.EntryKindEntry, "7"))
	require.NoError(t, err)

	select {
	case ev := <-sub.C:
		assert.Equal(t, f.base.ID, ev.LocationID)
		assert.Equal(t, f.item.ID, ev.ItemID)
		assert.True(t, ev.NewQuantity.Equal(decimal.NewFromInt(7)))
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó el evento de proyección")
	}
}
