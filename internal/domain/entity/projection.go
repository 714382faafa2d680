package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Projection representa la cantidad actual proyectada de un artículo en una
// ubicación. Derivada de los asientos del ledger (reconstruible por replay);
// se mantiene incremental por rendimiento. Solo el LedgerStore la escribe.
type Projection struct {
	LocationID string
	ItemID     string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
