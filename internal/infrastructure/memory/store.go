package memory

import (
	"sync"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// Store estado compartido en memoria: log append-only de asientos, proyección
// de cantidades y catálogos. Los adaptadores de este paquete implementan los
// puertos de domain/repository sobre este estado, con un lock por clave
// (ubicación, artículo) para las escrituras del ledger; claves distintas
// avanzan en paralelo.
type Store struct {
	mu          sync.RWMutex
	entries     []*entity.LedgerEntry
	entryByID   map[string]int
	entryByKey  map[string][]int // clave -> índices en entries, en orden de commit
	projections map[string]*entity.Projection
	items       map[string]*entity.StockItem
	locations   map[string]*entity.Location
	definitions map[string]*entity.ProductionDefinition
	runs        map[string]*entity.ProductionRun

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex // lock por clave de proyección
}

// NewStore construye el estado en memoria vacío.
func NewStore() *Store {
	return &Store{
		entryByID:   make(map[string]int),
		entryByKey:  make(map[string][]int),
		projections: make(map[string]*entity.Projection),
		items:       make(map[string]*entity.StockItem),
		locations:   make(map[string]*entity.Location),
		definitions: make(map[string]*entity.ProductionDefinition),
		runs:        make(map[string]*entity.ProductionRun),
	}
}

// projectionKey clave canónica de la proyección.
func projectionKey(locationID, itemID string) string {
	return locationID + "|" + itemID
}

// keyLock devuelve (creándolo si hace falta) el mutex de una clave.
func (s *Store) keyLock(key string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	if s.locks == nil {
		s.locks = make(map[string]*sync.Mutex)
	}
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func cloneEntry(e *entity.LedgerEntry) *entity.LedgerEntry {
	c := *e
	return &c
}

func cloneProjection(p *entity.Projection) *entity.Projection {
	c := *p
	return &c
}

func cloneItem(i *entity.StockItem) *entity.StockItem {
	c := *i
	return &c
}

func cloneLocation(l *entity.Location) *entity.Location {
	c := *l
	return &c
}

func cloneDefinition(d *entity.ProductionDefinition) *entity.ProductionDefinition {
	c := *d
	c.RecipeLines = append([]entity.RecipeLine(nil), d.RecipeLines...)
	return &c
}

func cloneRun(r *entity.ProductionRun) *entity.ProductionRun {
	c := *r
	c.LedgerEntryIDs = append([]string(nil), r.LedgerEntryIDs...)
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
