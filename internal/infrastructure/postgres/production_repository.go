package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var (
	_ repository.ProductionDefinitionRepository = (*ProductionDefinitionRepo)(nil)
	_ repository.ProductionRunRepository        = (*ProductionRunRepo)(nil)
)

// ProductionDefinitionRepo implementación del repositorio de recetas sobre
// PostgreSQL. Las líneas de receta viven en production_recipe_lines, ordenadas
// por posición.
type ProductionDefinitionRepo struct {
	q Querier
}

// NewProductionDefinitionRepository construye el adaptador.
func NewProductionDefinitionRepository(q Querier) *ProductionDefinitionRepo {
	return &ProductionDefinitionRepo{q: q}
}

// Create inserta la receta y sus líneas.
func (r *ProductionDefinitionRepo) Create(def *entity.ProductionDefinition) error {
	ctx := context.Background()
	query := `
		INSERT INTO production_definitions
			(id, produced_type, denomination, principal_item_id, principal_qty_per_batch, principal_unit,
			 result_item_id, result_unit, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		def.ID, def.ProducedType, def.Denomination,
		def.Principal.ItemID, def.Principal.QuantityPerBatchUnit, def.Principal.Unit,
		def.Result.ItemID, def.Result.Unit, def.Active, def.CreatedAt, def.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create production definition: %w", err)
	}
	return r.insertLines(ctx, def)
}

// GetByID obtiene una receta con sus líneas; nil si no existe.
func (r *ProductionDefinitionRepo) GetByID(id string) (*entity.ProductionDefinition, error) {
	query := `
		SELECT id, produced_type, denomination, principal_item_id, principal_qty_per_batch, principal_unit,
		       result_item_id, result_unit, active, created_at, updated_at
		FROM production_definitions WHERE id = $1`
	def, err := scanDefinition(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production definition: %w", err)
	}
	if err := r.loadLines(def); err != nil {
		return nil, err
	}
	return def, nil
}

// Update persiste la receta y reescribe sus líneas.
func (r *ProductionDefinitionRepo) Update(def *entity.ProductionDefinition) error {
	ctx := context.Background()
	query := `
		UPDATE production_definitions
		SET produced_type = $2, denomination = $3, principal_item_id = $4,
		    principal_qty_per_batch = $5, principal_unit = $6,
		    result_item_id = $7, result_unit = $8, active = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		def.ID, def.ProducedType, def.Denomination,
		def.Principal.ItemID, def.Principal.QuantityPerBatchUnit, def.Principal.Unit,
		def.Result.ItemID, def.Result.Unit, def.Active, def.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update production definition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDefinitionNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM production_recipe_lines WHERE definition_id = $1`, def.ID); err != nil {
		return fmt.Errorf("clear recipe lines: %w", err)
	}
	return r.insertLines(ctx, def)
}

// List devuelve recetas paginadas, con líneas, por orden de creación.
func (r *ProductionDefinitionRepo) List(limit, offset int) ([]*entity.ProductionDefinition, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, produced_type, denomination, principal_item_id, principal_qty_per_batch, principal_unit,
		       result_item_id, result_unit, active, created_at, updated_at
		FROM production_definitions ORDER BY created_at, id
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list production definitions: %w", err)
	}
	defer rows.Close()
	var out []*entity.ProductionDefinition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production definition: %w", err)
		}
		out = append(out, def)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, def := range out {
		if err := r.loadLines(def); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *ProductionDefinitionRepo) insertLines(ctx context.Context, def *entity.ProductionDefinition) error {
	query := `
		INSERT INTO production_recipe_lines (definition_id, position, ingredient_item_id, qty_per_batch, unit)
		VALUES ($1, $2, $3, $4, $5)`
	for i, line := range def.RecipeLines {
		_, err := r.q.Exec(ctx, query, def.ID, i, line.IngredientItemID, line.QuantityPerBatchUnit, line.Unit)
		if err != nil {
			return fmt.Errorf("insert recipe line: %w", err)
		}
	}
	return nil
}

func (r *ProductionDefinitionRepo) loadLines(def *entity.ProductionDefinition) error {
	query := `
		SELECT ingredient_item_id, qty_per_batch, unit
		FROM production_recipe_lines WHERE definition_id = $1
		ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, def.ID)
	if err != nil {
		return fmt.Errorf("load recipe lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.RecipeLine
		if err := rows.Scan(&line.IngredientItemID, &line.QuantityPerBatchUnit, &line.Unit); err != nil {
			return fmt.Errorf("scan recipe line: %w", err)
		}
		def.RecipeLines = append(def.RecipeLines, line)
	}
	return rows.Err()
}

func scanDefinition(row pgx.Row) (*entity.ProductionDefinition, error) {
	var def entity.ProductionDefinition
	err := row.Scan(
		&def.ID, &def.ProducedType, &def.Denomination,
		&def.Principal.ItemID, &def.Principal.QuantityPerBatchUnit, &def.Principal.Unit,
		&def.Result.ItemID, &def.Result.Unit, &def.Active, &def.CreatedAt, &def.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &def, nil
}

// ProductionRunRepo implementación del repositorio de ejecuciones sobre
// PostgreSQL. Los IDs de asiento se guardan como text[].
type ProductionRunRepo struct {
	q Querier
}

// NewProductionRunRepository construye el adaptador.
func NewProductionRunRepository(q Querier) *ProductionRunRepo {
	return &ProductionRunRepo{q: q}
}

const productionRunColumns = `id, definition_id, requested_principal_qty, status, failure_reason, actor_id, created_at, completed_at, ledger_entry_ids`

// Create inserta una ejecución nueva.
func (r *ProductionRunRepo) Create(run *entity.ProductionRun) error {
	query := `
		INSERT INTO production_runs
			(id, definition_id, requested_principal_qty, status, failure_reason, actor_id, created_at, completed_at, ledger_entry_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		run.ID, run.DefinitionID, run.RequestedPrincipalQuantity, run.Status,
		nullable(run.FailureReason), nullable(run.ActorID),
		run.CreatedAt, run.CompletedAt, run.LedgerEntryIDs,
	)
	if err != nil {
		return fmt.Errorf("create production run: %w", err)
	}
	return nil
}

// GetByID obtiene una ejecución por ID; nil si no existe.
func (r *ProductionRunRepo) GetByID(id string) (*entity.ProductionRun, error) {
	query := `SELECT ` + productionRunColumns + ` FROM production_runs WHERE id = $1`
	run, err := scanRun(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production run: %w", err)
	}
	return run, nil
}

// Update persiste el estado de la ejecución.
func (r *ProductionRunRepo) Update(run *entity.ProductionRun) error {
	query := `
		UPDATE production_runs
		SET status = $2, failure_reason = $3, completed_at = $4, ledger_entry_ids = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		run.ID, run.Status, nullable(run.FailureReason), run.CompletedAt, run.LedgerEntryIDs,
	)
	if err != nil {
		return fmt.Errorf("update production run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}

// ListByDefinition devuelve ejecuciones de una receta por orden de creación.
func (r *ProductionRunRepo) ListByDefinition(definitionID string, limit, offset int) ([]*entity.ProductionRun, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ` + productionRunColumns + `
		FROM production_runs WHERE definition_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, definitionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list production runs: %w", err)
	}
	defer rows.Close()
	var out []*entity.ProductionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func scanRun(row pgx.Row) (*entity.ProductionRun, error) {
	var run entity.ProductionRun
	var failureReason, actorID *string
	err := row.Scan(
		&run.ID, &run.DefinitionID, &run.RequestedPrincipalQuantity, &run.Status,
		&failureReason, &actorID, &run.CreatedAt, &run.CompletedAt, &run.LedgerEntryIDs,
	)
	if err != nil {
		return nil, err
	}
	run.FailureReason = deref(failureReason)
	run.ActorID = deref(actorID)
	return &run, nil
}
