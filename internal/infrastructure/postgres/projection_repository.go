package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.ProjectionRepository = (*ProjectionRepo)(nil)

// ProjectionRepo implementación de la proyección sobre PostgreSQL (usable con
// pool o tx). El lock por clave del ledger es el lock de fila (SELECT FOR
// UPDATE) de esta tabla.
type ProjectionRepo struct {
	q Querier
}

// NewProjectionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectionRepository(q Querier) *ProjectionRepo {
	return &ProjectionRepo{q: q}
}

// Get obtiene la proyección comprometida; clave inexistente = cantidad cero.
func (r *ProjectionRepo) Get(locationID, itemID string) (*entity.Projection, error) {
	query := `
		SELECT location_id, item_id, quantity, updated_at
		FROM stock_projection WHERE location_id = $1 AND item_id = $2`
	var p entity.Projection
	err := r.q.QueryRow(context.Background(), query, locationID, itemID).Scan(
		&p.LocationID, &p.ItemID, &p.Quantity, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Projection{LocationID: locationID, ItemID: itemID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get projection: %w", err)
	}
	return &p, nil
}

// GetForUpdate obtiene la proyección y bloquea la fila hasta el fin de la
// transacción. Si la clave todavía no tiene fila, la crea en cero primero:
// sin fila no hay nada que bloquear.
func (r *ProjectionRepo) GetForUpdate(locationID, itemID string) (*entity.Projection, error) {
	ctx := context.Background()
	insert := `
		INSERT INTO stock_projection (location_id, item_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (location_id, item_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, locationID, itemID); err != nil {
		return nil, fmt.Errorf("ensure projection row: %w", err)
	}
	query := `
		SELECT location_id, item_id, quantity, updated_at
		FROM stock_projection WHERE location_id = $1 AND item_id = $2
		FOR UPDATE`
	var p entity.Projection
	err := r.q.QueryRow(ctx, query, locationID, itemID).Scan(
		&p.LocationID, &p.ItemID, &p.Quantity, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get projection for update: %w", err)
	}
	return &p, nil
}

// Upsert inserta o actualiza la cantidad proyectada de la clave.
func (r *ProjectionRepo) Upsert(p *entity.Projection) error {
	query := `
		INSERT INTO stock_projection (location_id, item_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (location_id, item_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, p.LocationID, p.ItemID, p.Quantity)
	if err != nil {
		return fmt.Errorf("upsert projection: %w", err)
	}
	return nil
}

// ListByLocation devuelve las proyecciones de una ubicación.
func (r *ProjectionRepo) ListByLocation(locationID string) ([]*entity.Projection, error) {
	query := `
		SELECT location_id, item_id, quantity, updated_at
		FROM stock_projection WHERE location_id = $1
		ORDER BY item_id`
	rows, err := r.q.Query(context.Background(), query, locationID)
	if err != nil {
		return nil, fmt.Errorf("list projections: %w", err)
	}
	defer rows.Close()
	var out []*entity.Projection
	for rows.Next() {
		var p entity.Projection
		if err := rows.Scan(&p.LocationID, &p.ItemID, &p.Quantity, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan projection: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
