package entity

import "time"

// Tipos de ubicación física.
const (
	LocationKindCentralBase = "central-base"
	LocationKindWarehouse   = "warehouse"
	LocationKindPointOfSale = "point-of-sale"
	LocationKindStand       = "stand"
)

// Location representa una ubicación física con stock. Exactamente una
// ubicación es la base central: punto de entrada obligatorio de todo stock
// nuevo antes de su distribución (invariante de negocio, garantizado por
// unicidad en el registro y no por caminos especiales en el ledger).
type Location struct {
	ID           string
	Denomination string
	Kind         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidLocationKind verifica que el tipo de ubicación sea uno de los conocidos.
func ValidLocationKind(k string) bool {
	switch k {
	case LocationKindCentralBase, LocationKindWarehouse, LocationKindPointOfSale, LocationKindStand:
		return true
	}
	return false
}
