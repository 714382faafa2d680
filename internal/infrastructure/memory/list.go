package memory

import (
	"sort"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// paginate aplica limit/offset sobre un slice ya ordenado. limit <= 0 = sin límite.
func paginate[T any](all []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []T{}
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}

// Los listados se ordenan por fecha de alta para que la paginación sea estable
// (los maps de Go no tienen orden).

func sortByCreatedAtItems(items []*entity.StockItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

func sortByCreatedAtLocations(locations []*entity.Location) {
	sort.Slice(locations, func(i, j int) bool {
		if locations[i].CreatedAt.Equal(locations[j].CreatedAt) {
			return locations[i].ID < locations[j].ID
		}
		return locations[i].CreatedAt.Before(locations[j].CreatedAt)
	})
}

func sortByCreatedAtDefinitions(defs []*entity.ProductionDefinition) {
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].CreatedAt.Equal(defs[j].CreatedAt) {
			return defs[i].ID < defs[j].ID
		}
		return defs[i].CreatedAt.Before(defs[j].CreatedAt)
	})
}

func sortByCreatedAtRuns(runs []*entity.ProductionRun) {
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAt.Before(runs[j].CreatedAt)
	})
}
