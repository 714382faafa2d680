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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del registro de ubicaciones sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, denomination, kind, active, created_at, updated_at`

// Create inserta una ubicación nueva. La unicidad de la base central la
// garantiza el índice único parcial sobre kind.
func (r *LocationRepo) Create(location *entity.Location) error {
	query := `
		INSERT INTO locations (id, denomination, kind, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		location.ID, location.Denomination, location.Kind, location.Active,
		location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCentralBase
		}
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID; nil si no existe.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	loc, err := scanLocation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return loc, nil
}

// GetCentralBase devuelve la base central o nil si no hay ninguna registrada.
func (r *LocationRepo) GetCentralBase() (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE kind = $1`
	loc, err := scanLocation(r.q.QueryRow(context.Background(), query, entity.LocationKindCentralBase))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get central base: %w", err)
	}
	return loc, nil
}

// Update persiste los campos editables de la ubicación.
func (r *LocationRepo) Update(location *entity.Location) error {
	query := `
		UPDATE locations
		SET denomination = $2, kind = $3, active = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		location.ID, location.Denomination, location.Kind, location.Active, location.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUnknownLocation
	}
	return nil
}

// List devuelve ubicaciones paginadas por orden de creación.
func (r *LocationRepo) List(limit, offset int) ([]*entity.Location, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ` + locationColumns + `
		FROM locations ORDER BY created_at, id
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var out []*entity.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var loc entity.Location
	err := row.Scan(&loc.ID, &loc.Denomination, &loc.Kind, &loc.Active, &loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}
