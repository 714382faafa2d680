package pubsub_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/pkg/pubsub"
)

func evt(locationID, itemID string, qty int64) pubsub.ProjectionChangedEvent {
	return pubsub.ProjectionChangedEvent{
		LocationID:  locationID,
		ItemID:      itemID,
		NewQuantity: decimal.NewFromInt(qty),
		At:          time.Now(),
	}
}

func recv(t *testing.T, s *pubsub.Subscription) pubsub.ProjectionChangedEvent {
	t.Helper()
	select {
	case ev, ok := <-s.C:
		require.True(t, ok, "la suscripción no debe estar cerrada")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timeout esperando evento")
		return pubsub.ProjectionChangedEvent{}
	}
}

func TestNotifier_FanOutATodasLasSuscripciones(t *testing.T) {
	n := pubsub.New()
	s1 := n.Subscribe(pubsub.Filter{})
	s2 := n.Subscribe(pubsub.Filter{})
	defer s1.Cancel()
	defer s2.Cancel()

	n.Publish(evt("loc-1", "item-1", 5))

	assert.Equal(t, "item-1", recv(t, s1).ItemID)
	assert.Equal(t, "item-1", recv(t, s2).ItemID)
}

func TestNotifier_FiltroPorClave(t *testing.T) {
	n := pubsub.New()
	filtered := n.Subscribe(pubsub.Filter{LocationID: "loc-1", ItemID: "item-1"})
	all := n.Subscribe(pubsub.Filter{})
	defer filtered.Cancel()
	defer all.Cancel()

	n.Publish(evt("loc-2", "item-1", 1)) // no coincide con el filtro
	n.Publish(evt("loc-1", "item-1", 2))

	// La suscripción filtrada solo ve el segundo evento.
	got := recv(t, filtered)
	assert.Equal(t, "loc-1", got.LocationID)
	assert.True(t, got.NewQuantity.Equal(decimal.NewFromInt(2)))

	// La abierta ve ambos, en orden de publicación.
	assert.Equal(t, "loc-2", recv(t, all).LocationID)
	assert.Equal(t, "loc-1", recv(t, all).LocationID)
}

// Un consumidor lento no debe frenar al publicador: los eventos se encolan en
// la suscripción y Publish retorna de inmediato.
func TestNotifier_PublicadorNoBloqueaConConsumidorLento(t *testing.T) {
	n := pubsub.New()
	slow := n.Subscribe(pubsub.Filter{})
	defer slow.Cancel()

	const total = 1000
	done := make(chan struct{})
	go func() {
		for i := 0; i < total; i++ {
			n.Publish(evt("loc-1", "item-1", int64(i)))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish bloqueado por un consumidor que no lee")
	}

	// Entrega at-least-once y en orden por clave: se consume todo, en orden.
	for i := 0; i < total; i++ {
		ev := recv(t, slow)
		require.True(t, ev.NewQuantity.Equal(decimal.NewFromInt(int64(i))),
			"evento %d fuera de orden: %s", i, ev.NewQuantity)
	}
}

func TestSubscription_CancelCierraElCanal(t *testing.T) {
	n := pubsub.New()
	s := n.Subscribe(pubsub.Filter{})
	s.Cancel()

	select {
	case _, ok := <-s.C:
		assert.False(t, ok, "C debe estar cerrado tras Cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("C no se cerró tras Cancel")
	}

	// Publicar después de cancelar no debe entregar nada ni explotar.
	n.Publish(evt("loc-1", "item-1", 1))
}
