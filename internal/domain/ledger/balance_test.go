package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/ledger"
)

func entry(kind string, qty string) *entity.LedgerEntry {
	return &entity.LedgerEntry{Kind: kind, Quantity: decimal.RequireFromString(qty)}
}

func TestBalance_SumaConSigno(t *testing.T) {
	entries := []*entity.LedgerEntry{
		entry(entity.EntryKindEntry, "10"),
		entry(entity.EntryKindExit, "3"),
		entry(entity.EntryKindTransferIn, "2.5"),
		entry(entity.EntryKindTransferOut, "1.5"),
	}
	assert.True(t, ledger.Balance(entries).Equal(decimal.RequireFromString("8")),
		"10 - 3 + 2.5 - 1.5 = 8")
}

func TestBalance_SinAsientosEsCero(t *testing.T) {
	assert.True(t, ledger.Balance(nil).IsZero())
}
