package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// RecipeLineDTO una línea de receta: cantidad de ingrediente por unidad de lote.
type RecipeLineDTO struct {
	IngredientItemID string          `json:"ingredient_item_id"`
	QuantityPerBatch decimal.Decimal `json:"quantity_per_batch"`
	Unit             string          `json:"unit"`
}

// PrincipalDTO el ingrediente principal, ancla del escalado.
type PrincipalDTO struct {
	ItemID           string          `json:"item_id"`
	QuantityPerBatch decimal.Decimal `json:"quantity_per_batch"`
	Unit             string          `json:"unit"`
}

// ResultItemDTO el artículo terminado que acredita la producción.
type ResultItemDTO struct {
	ItemID string `json:"item_id"`
	Unit   string `json:"unit"`
}

// CreateDefinitionRequest body para POST /api/production/definitions.
type CreateDefinitionRequest struct {
	ProducedType string          `json:"produced_type"`
	Denomination string          `json:"denomination"`
	Principal    PrincipalDTO    `json:"principal"`
	RecipeLines  []RecipeLineDTO `json:"recipe_lines"`
	Result       ResultItemDTO   `json:"result"`
}

// DefinitionDTO representación HTTP de una receta.
type DefinitionDTO struct {
	ID           string          `json:"id"`
	ProducedType string          `json:"produced_type"`
	Denomination string          `json:"denomination"`
	Principal    PrincipalDTO    `json:"principal"`
	RecipeLines  []RecipeLineDTO `json:"recipe_lines"`
	Result       ResultItemDTO   `json:"result"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewDefinitionDTO mapea la entidad a su DTO.
func NewDefinitionDTO(def *entity.ProductionDefinition) DefinitionDTO {
	lines := make([]RecipeLineDTO, 0, len(def.RecipeLines))
	for _, line := range def.RecipeLines {
		lines = append(lines, RecipeLineDTO{
			IngredientItemID: line.IngredientItemID,
			QuantityPerBatch: line.QuantityPerBatchUnit,
			Unit:             line.Unit,
		})
	}
	return DefinitionDTO{
		ID:           def.ID,
		ProducedType: def.ProducedType,
		Denomination: def.Denomination,
		Principal: PrincipalDTO{
			ItemID:           def.Principal.ItemID,
			QuantityPerBatch: def.Principal.QuantityPerBatchUnit,
			Unit:             def.Principal.Unit,
		},
		RecipeLines: lines,
		Result:      ResultItemDTO{ItemID: def.Result.ItemID, Unit: def.Result.Unit},
		Active:      def.Active,
		CreatedAt:   def.CreatedAt,
		UpdatedAt:   def.UpdatedAt,
	}
}

// CreateRunRequest body para POST /api/production/runs. La cantidad solicitada
// se expresa en la unidad del ingrediente principal de la receta.
type CreateRunRequest struct {
	DefinitionID               string          `json:"definition_id"`
	RequestedPrincipalQuantity decimal.Decimal `json:"requested_principal_quantity"`
	ActorID                    string          `json:"actor_id,omitempty"`
}

// RunDTO representación HTTP de una ejecución de producción.
type RunDTO struct {
	ID                         string          `json:"id"`
	DefinitionID               string          `json:"definition_id"`
	RequestedPrincipalQuantity decimal.Decimal `json:"requested_principal_quantity"`
	Status                     string          `json:"status"`
	FailureReason              string          `json:"failure_reason,omitempty"`
	ActorID                    string          `json:"actor_id,omitempty"`
	CreatedAt                  time.Time       `json:"created_at"`
	CompletedAt                *time.Time      `json:"completed_at,omitempty"`
	LedgerEntryIDs             []string        `json:"ledger_entry_ids,omitempty"`
}

// NewRunDTO mapea la entidad a su DTO.
func NewRunDTO(run *entity.ProductionRun) RunDTO {
	return RunDTO{
		ID:                         run.ID,
		DefinitionID:               run.DefinitionID,
		RequestedPrincipalQuantity: run.RequestedPrincipalQuantity,
		Status:                     run.Status,
		FailureReason:              run.FailureReason,
		ActorID:                    run.ActorID,
		CreatedAt:                  run.CreatedAt,
		CompletedAt:                run.CompletedAt,
		LedgerEntryIDs:             run.LedgerEntryIDs,
	}
}
