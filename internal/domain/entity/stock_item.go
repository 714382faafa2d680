package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de artículo rastreable.
const (
	CategoryIngredient  = "ingredient"
	CategoryConsommable = "consommable"
	CategoryPerissable  = "perissable"
	CategoryMateriel    = "materiel"
	CategoryEmballage   = "emballage"
)

// Unit unidad de medida declarada de un artículo (kg, l, unité...).
type Unit struct {
	Name   string
	Symbol string
}

// StockItem representa un artículo rastreable del catálogo. La identidad es
// inmutable; los campos descriptivos se editan desde el catálogo. Nunca se
// borra físicamente: se desactiva, para preservar la integridad referencial
// del ledger.
type StockItem struct {
	ID             string
	Denomination   string
	Category       string
	Unit           Unit
	UnitPrice      decimal.Decimal // >= 0; puede ser 0 para placeholders
	AlertThreshold decimal.Decimal // >= 0; alerta activa cuando cantidad <= umbral
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidCategory verifica que la categoría sea una de las conocidas.
func ValidCategory(c string) bool {
	switch c {
	case CategoryIngredient, CategoryConsommable, CategoryPerissable, CategoryMateriel, CategoryEmballage:
		return true
	}
	return false
}
