package alerts_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/application/alerts"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/memory"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
	"github.com/tu-usuario/stock-ledger/pkg/pubsub"
)

type monitorFixture struct {
	monitor *alerts.Monitor
	store   *ledger.Store
	item    *entity.StockItem
	base    *entity.Location
}

func newMonitorFixture(t *testing.T) *monitorFixture {
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
		ID: uuid.New().String(), Denomination: "Farine",
		Category:       entity.CategoryIngredient,
		Unit:           entity.Unit{Name: "kilogramme", Symbol: "kg"},
		AlertThreshold: decimal.NewFromInt(5),
		Active:         true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, itemRepo.Create(item))
	base := &entity.Location{
		ID: uuid.New().String(), Denomination: "Base Central",
		Kind: entity.LocationKindCentralBase, Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, locationRepo.Create(base))

	monitor := alerts.NewMonitor(itemRepo, store, notifier, logger.Nop())
	monitor.Start()
	t.Cleanup(monitor.Stop)

	return &monitorFixture{monitor: monitor, store: store, item: item, base: base}
}

func (f *monitorFixture) move(t *testing.T, kind, qty string) {
	t.Helper()
	_, err := f.store.RecordMovement(context.Background(), ledger.MovementInput{
		LocationID: f.base.ID,
		ItemID:     f.item.ID,
		Kind:       kind,
		Quantity:   decimal.RequireFromString(qty),
		Unit:       "kg",
	})
	require.NoError(t, err)
}

// La alerta se activa cuando la cantidad cae a <= umbral y se despeja cuando
// vuelve a superarlo. El monitor consume eventos en background, así que la
// aserción es eventual.
func TestMonitor_ActivaYDespeja(t *testing.T) {
	f := newMonitorFixture(t)

	f.move(t, entity.EntryKindEntry, "10")
	// 10 > 5: sin alertas.
	require.Eventually(t, func() bool {
		return len(f.monitor.GetActiveAlerts("")) == 0
	}, 2*time.Second, 10*time.Millisecond)

	// 10 - 6 = 4 <= 5: alerta activa.
	f.move(t, entity.EntryKindExit, "6")
	require.Eventually(t, func() bool {
		active := f.monitor.GetActiveAlerts("")
		return len(active) == 1 && active[0].ItemID == f.item.ID
	}, 2*time.Second, 10*time.Millisecond)

	active := f.monitor.GetActiveAlerts(f.base.ID)
	require.Len(t, active, 1)
	assert.True(t, active[0].CurrentQuantity.Equal(decimal.NewFromInt(4)))
	assert.True(t, active[0].Threshold.Equal(decimal.NewFromInt(5)))

	// 4 + 7 = 11 > 5: despejada.
	f.move(t, entity.EntryKindEntry, "7")
	require.Eventually(t, func() bool {
		return len(f.monitor.GetActiveAlerts("")) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

// El umbral es inclusivo: exactamente el umbral también alerta.
func TestMonitor_UmbralInclusivo(t *testing.T) {
	f := newMonitorFixture(t)

	f.move(t, entity.EntryKindEntry, "5")
	require.Eventually(t, func() bool {
		return len(f.monitor.GetActiveAlerts("")) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMonitor_FiltroPorUbicacion(t *testing.T) {
	f := newMonitorFixture(t)

	f.move(t, entity.EntryKindEntry, "2") // 2 <= 5: alerta
	require.Eventually(t, func() bool {
		return len(f.monitor.GetActiveAlerts(f.base.ID)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Empty(t, f.monitor.GetActiveAlerts("otra-ubicacion"))
}
