package pubsub

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ProjectionChangedEvent señala que la cantidad proyectada de una clave
// (ubicación, artículo) cambió tras un commit del ledger. El payload es una
// pista de invalidación: un consumidor que necesite exactitud debe releer la
// cantidad actual en vez de confiar en NewQuantity.
type ProjectionChangedEvent struct {
	LocationID  string
	ItemID      string
	NewQuantity decimal.Decimal
	At          time.Time
}

// Filter limita los eventos que recibe una suscripción. Campo vacío = sin filtro.
type Filter struct {
	LocationID string
	ItemID     string
}

func (f Filter) matches(ev ProjectionChangedEvent) bool {
	if f.LocationID != "" && f.LocationID != ev.LocationID {
		return false
	}
	if f.ItemID != "" && f.ItemID != ev.ItemID {
		return false
	}
	return true
}

// Subscription entrega eventos por C. Cada suscripción tiene su propia cola
// FIFO y una goroutine de bombeo: el publicador nunca bloquea y la entrega es
// at-least-once, en orden de publicación por clave.
type Subscription struct {
	C <-chan ProjectionChangedEvent

	notifier *Notifier
	filter   Filter
	ch       chan ProjectionChangedEvent
	done     chan struct{}

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []ProjectionChangedEvent
	closed bool
}

// Cancel da de baja la suscripción. C se cierra; los eventos encolados y no
// consumidos se descartan.
func (s *Subscription) Cancel() {
	s.notifier.unsubscribe(s)
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.done)
		s.cond.Broadcast()
	}
	s.mu.Unlock()
}

func (s *Subscription) enqueue(ev ProjectionChangedEvent) {
	s.mu.Lock()
	if !s.closed {
		s.queue = append(s.queue, ev)
		s.cond.Signal()
	}
	s.mu.Unlock()
}

func (s *Subscription) pump() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			close(s.ch)
			return
		}
		ev := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.ch <- ev:
		case <-s.done:
			close(s.ch)
			return
		}
	}
}

// Notifier fan-out publish/subscribe de eventos de proyección para consumo
// casi-en-tiempo-real (monitor de alertas, refresco de UI externa).
type Notifier struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// New construye el notifier.
func New() *Notifier {
	return &Notifier{subs: make(map[*Subscription]struct{})}
}

// Subscribe registra una suscripción con el filtro indicado.
func (n *Notifier) Subscribe(filter Filter) *Subscription {
	ch := make(chan ProjectionChangedEvent)
	s := &Subscription{
		C:        ch,
		notifier: n,
		filter:   filter,
		ch:       ch,
		done:     make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)

	n.mu.Lock()
	n.subs[s] = struct{}{}
	n.mu.Unlock()

	go s.pump()
	return s
}

// Publish entrega el evento a todas las suscripciones cuyo filtro coincide.
// Lo llama el LedgerStore después de cada commit; nunca bloquea.
func (n *Notifier) Publish(ev ProjectionChangedEvent) {
	n.mu.RLock()
	for s := range n.subs {
		if s.filter.matches(ev) {
			s.enqueue(ev)
		}
	}
	n.mu.RUnlock()
}

func (n *Notifier) unsubscribe(s *Subscription) {
	n.mu.Lock()
	delete(n.subs, s)
	n.mu.Unlock()
}
