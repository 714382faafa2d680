package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// Balance calcula la cantidad proyectada de una clave (ubicación, artículo)
// como suma firmada de sus asientos en orden de commit (servicio de dominio).
// entry/transfer-in suman; exit/transfer-out restan.
func Balance(entries []*entity.LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.SignedQuantity())
	}
	return total
}
