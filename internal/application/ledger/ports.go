package ledger

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios
// atados a esa transacción. Garantiza la atomicidad asiento + proyección del
// ledger: o se comprometen juntos o no se compromete nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		entryRepo repository.LedgerEntryRepository,
		projectionRepo repository.ProjectionRepository,
	) error) error
}
