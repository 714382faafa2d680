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

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo implementación del catálogo de artículos sobre PostgreSQL.
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

const stockItemColumns = `id, denomination, category, unit_name, unit_symbol, unit_price, alert_threshold, active, created_at, updated_at`

// Create inserta un artículo nuevo en el catálogo.
func (r *StockItemRepo) Create(item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (id, denomination, category, unit_name, unit_symbol, unit_price, alert_threshold, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Denomination, item.Category, item.Unit.Name, item.Unit.Symbol,
		item.UnitPrice, item.AlertThreshold, item.Active, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateItem
		}
		return fmt.Errorf("create stock item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID; nil si no existe.
func (r *StockItemRepo) GetByID(id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1`
	item, err := scanStockItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return item, nil
}

// ExistsDenomination verifica si ya hay un artículo con esa denominación en la
// categoría (case-insensitive, lo garantiza el índice único sobre lower()).
func (r *StockItemRepo) ExistsDenomination(category, denomination string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM stock_items
			WHERE category = $1 AND lower(denomination) = lower($2)
		)`
	var exists bool
	err := r.q.QueryRow(context.Background(), query, category, denomination).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check denomination: %w", err)
	}
	return exists, nil
}

// Update persiste los campos editables del artículo.
func (r *StockItemRepo) Update(item *entity.StockItem) error {
	query := `
		UPDATE stock_items
		SET denomination = $2, category = $3, unit_name = $4, unit_symbol = $5,
		    unit_price = $6, alert_threshold = $7, active = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.Denomination, item.Category, item.Unit.Name, item.Unit.Symbol,
		item.UnitPrice, item.AlertThreshold, item.Active, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateItem
		}
		return fmt.Errorf("update stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUnknownItem
	}
	return nil
}

// List devuelve artículos paginados por orden de creación.
func (r *StockItemRepo) List(limit, offset int) ([]*entity.StockItem, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ` + stockItemColumns + `
		FROM stock_items ORDER BY created_at, id
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockItem
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var item entity.StockItem
	err := row.Scan(
		&item.ID, &item.Denomination, &item.Category, &item.Unit.Name, &item.Unit.Symbol,
		&item.UnitPrice, &item.AlertThreshold, &item.Active, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
