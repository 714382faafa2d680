package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento del ledger.
const (
	EntryKindEntry       = "entry"        // entrada de stock
	EntryKindExit        = "exit"         // salida de stock
	EntryKindTransferOut = "transfer-out" // pata de salida de una transferencia
	EntryKindTransferIn  = "transfer-in"  // pata de entrada de una transferencia
)

// LedgerEntry es la unidad atómica e inmutable de verdad: un movimiento de
// stock. Un asiento nunca se muta ni se borra; las correcciones se hacen
// apendizando asientos compensatorios.
type LedgerEntry struct {
	ID                     string
	Timestamp              time.Time
	LocationID             string
	ItemID                 string
	Kind                   string
	Quantity               decimal.Decimal // siempre > 0; el signo lo determina Kind
	Unit                   string          // símbolo; debe coincidir con la unidad declarada del artículo
	ActorID                string
	RelatedEntryID         string // enlaza las dos patas de una transferencia
	RelatedProductionRunID string // asientos posteados por una ejecución de producción
}

// ValidEntryKind verifica que el tipo de asiento sea uno de los conocidos.
func ValidEntryKind(k string) bool {
	switch k {
	case EntryKindEntry, EntryKindExit, EntryKindTransferOut, EntryKindTransferIn:
		return true
	}
	return false
}

// OutboundKind indica si el tipo de asiento resta stock.
func OutboundKind(k string) bool {
	return k == EntryKindExit || k == EntryKindTransferOut
}

// SignedQuantity devuelve la cantidad con signo: entry/transfer-in positiva,
// exit/transfer-out negativa.
func (e *LedgerEntry) SignedQuantity() decimal.Decimal {
	if OutboundKind(e.Kind) {
		return e.Quantity.Neg()
	}
	return e.Quantity
}
