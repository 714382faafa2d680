package repository

import "github.com/tu-usuario/stock-ledger/internal/domain/entity"

// StockItemRepository define el puerto de persistencia del catálogo de
// artículos rastreables (DIP).
type StockItemRepository interface {
	Create(item *entity.StockItem) error
	GetByID(id string) (*entity.StockItem, error)
	// ExistsDenomination verifica si ya hay un artículo con esa denominación
	// (comparación case-insensitive) dentro de la misma categoría.
	ExistsDenomination(category, denomination string) (bool, error)
	Update(item *entity.StockItem) error
	List(limit, offset int) ([]*entity.StockItem, error)
}
