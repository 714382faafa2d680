package alerts

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
	"github.com/tu-usuario/stock-ledger/pkg/pubsub"
)

// QuantityReader lectura de la cantidad proyectada comprometida (lo implementa
// el LedgerStore).
type QuantityReader interface {
	GetQuantity(locationID, itemID string) (decimal.Decimal, error)
}

// Monitor mantiene las alertas por umbral. Se suscribe a los eventos de
// proyección y, por cada cambio, relee la cantidad actual (el evento es solo
// una invalidación) y la compara con el umbral del artículo: alerta activa
// cuando cantidad <= umbral, despejada cuando sube por encima. Estado derivado
// puro; jamás escribe en el ledger.
type Monitor struct {
	itemRepo repository.StockItemRepository
	reader   QuantityReader
	notifier *pubsub.Notifier
	log      *logger.Logger

	mu     sync.RWMutex
	alerts map[string]*entity.Alert

	sub  *pubsub.Subscription
	done chan struct{}
}

// NewMonitor construye el monitor.
func NewMonitor(itemRepo repository.StockItemRepository, reader QuantityReader, notifier *pubsub.Notifier, log *logger.Logger) *Monitor {
	return &Monitor{
		itemRepo: itemRepo,
		reader:   reader,
		notifier: notifier,
		log:      log,
		alerts:   make(map[string]*entity.Alert),
	}
}

// Start suscribe el monitor al notifier y arranca el consumo en background.
func (m *Monitor) Start() {
	m.sub = m.notifier.Subscribe(pubsub.Filter{})
	m.done = make(chan struct{})
	go func() {
		defer close(m.done)
		for ev := range m.sub.C {
			m.Refresh(ev.LocationID, ev.ItemID)
		}
	}()
}

// Stop da de baja la suscripción y espera a que termine el consumo.
func (m *Monitor) Stop() {
	if m.sub == nil {
		return
	}
	m.sub.Cancel()
	<-m.done
}

// Refresh recalcula la alerta de una clave contra la cantidad actual.
func (m *Monitor) Refresh(locationID, itemID string) {
	item, err := m.itemRepo.GetByID(itemID)
	if err != nil || item == nil {
		return
	}
	quantity, err := m.reader.GetQuantity(locationID, itemID)
	if err != nil {
		m.log.Error().Err(err).Str("location_id", locationID).Str("item_id", itemID).Msg("releer cantidad para alerta")
		return
	}
	active := quantity.LessThanOrEqual(item.AlertThreshold)

	key := locationID + "|" + itemID
	m.mu.Lock()
	prev := m.alerts[key]
	m.alerts[key] = &entity.Alert{
		LocationID:      locationID,
		ItemID:          itemID,
		Active:          active,
		CurrentQuantity: quantity,
		Threshold:       item.AlertThreshold,
		UpdatedAt:       time.Now(),
	}
	m.mu.Unlock()

	if prev == nil || prev.Active != active {
		evt := m.log.Info().
			Str("location_id", locationID).
			Str("item_id", itemID).
			Str("quantity", quantity.String()).
			Str("threshold", item.AlertThreshold.String())
		if active {
			evt.Msg("alerta de stock activada")
		} else {
			evt.Msg("alerta de stock despejada")
		}
	}
}

// GetActiveAlerts devuelve las alertas activas; locationID vacío = todas las
// ubicaciones.
func (m *Monitor) GetActiveAlerts(locationID string) []*entity.Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*entity.Alert
	for _, a := range m.alerts {
		if !a.Active {
			continue
		}
		if locationID != "" && a.LocationID != locationID {
			continue
		}
		c := *a
		out = append(out, &c)
	}
	return out
}
