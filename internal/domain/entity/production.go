package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto elaborado.
const (
	ProducedTypeMenu             = "menu"
	ProducedTypeBoisson          = "boisson"
	ProducedTypeOtherConsommable = "other-consommable"
)

// Estados de una ejecución de producción.
const (
	RunStatusScheduled  = "scheduled"
	RunStatusInProgress = "in-progress"
	RunStatusCompleted  = "completed"
	RunStatusFailed     = "failed"
)

// RecipeLine línea de receta: cantidad de un ingrediente por unidad de lote.
type RecipeLine struct {
	IngredientItemID     string
	QuantityPerBatchUnit decimal.Decimal
	Unit                 string
}

// PrincipalIngredient ancla la proporción de escalado: solicitar N unidades
// del ingrediente principal escala todas las líneas y el resultado.
type PrincipalIngredient struct {
	ItemID               string
	QuantityPerBatchUnit decimal.Decimal
	Unit                 string
}

// ResultItem artículo terminado que acredita la producción.
type ResultItem struct {
	ItemID string
	Unit   string
}

// ProductionDefinition receta de producción.
type ProductionDefinition struct {
	ID           string
	ProducedType string
	Denomination string
	Principal    PrincipalIngredient
	RecipeLines  []RecipeLine
	Result       ResultItem
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidProducedType verifica que el tipo de producto elaborado sea conocido.
func ValidProducedType(t string) bool {
	switch t {
	case ProducedTypeMenu, ProducedTypeBoisson, ProducedTypeOtherConsommable:
		return true
	}
	return false
}

// ProductionRun una ejecución de la receta, escalada a la cantidad solicitada
// del ingrediente principal (expresada en la unidad de ese ingrediente).
// Nace en scheduled y transiciona atómicamente a completed (todos los asientos
// posteados) o failed (ledger restaurado); nunca queda aplicada a medias.
type ProductionRun struct {
	ID                         string
	DefinitionID               string
	RequestedPrincipalQuantity decimal.Decimal
	Status                     string
	FailureReason              string // motivo cuando Status = failed
	ActorID                    string
	CreatedAt                  time.Time
	CompletedAt                *time.Time
	LedgerEntryIDs             []string // asientos posteados, incluidos los compensatorios
}

// Terminal indica si la ejecución ya llegó a un estado final.
func (r *ProductionRun) Terminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}
