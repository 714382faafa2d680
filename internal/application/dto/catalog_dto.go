package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// RegisterItemRequest body para POST /api/items.
type RegisterItemRequest struct {
	Denomination   string          `json:"denomination"`
	Category       string          `json:"category"`
	UnitName       string          `json:"unit_name"`
	UnitSymbol     string          `json:"unit_symbol"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
}

// UpdateItemRequest body para PUT /api/items/:id. La categoría y la unidad
// declarada son inmutables y no aparecen acá.
type UpdateItemRequest struct {
	Denomination   string          `json:"denomination"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
}

// StockItemDTO representación HTTP de un artículo del catálogo.
type StockItemDTO struct {
	ID             string          `json:"id"`
	Denomination   string          `json:"denomination"`
	Category       string          `json:"category"`
	UnitName       string          `json:"unit_name"`
	UnitSymbol     string          `json:"unit_symbol"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewStockItemDTO mapea la entidad a su DTO.
func NewStockItemDTO(item *entity.StockItem) StockItemDTO {
	return StockItemDTO{
		ID:             item.ID,
		Denomination:   item.Denomination,
		Category:       item.Category,
		UnitName:       item.Unit.Name,
		UnitSymbol:     item.Unit.Symbol,
		UnitPrice:      item.UnitPrice,
		AlertThreshold: item.AlertThreshold,
		Active:         item.Active,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}

// RegisterLocationRequest body para POST /api/locations.
type RegisterLocationRequest struct {
	Denomination string `json:"denomination"`
	Kind         string `json:"kind"`
}

// LocationDTO representación HTTP de una ubicación.
type LocationDTO struct {
	ID           string    `json:"id"`
	Denomination string    `json:"denomination"`
	Kind         string    `json:"kind"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewLocationDTO mapea la entidad a su DTO.
func NewLocationDTO(location *entity.Location) LocationDTO {
	return LocationDTO{
		ID:           location.ID,
		Denomination: location.Denomination,
		Kind:         location.Kind,
		Active:       location.Active,
		CreatedAt:    location.CreatedAt,
		UpdatedAt:    location.UpdatedAt,
	}
}
