package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Alert estado derivado de alerta por umbral para (ubicación, artículo).
// Se recalcula con cada cambio de proyección; no se persiste como historia.
type Alert struct {
	LocationID      string
	ItemID          string
	Active          bool
	CurrentQuantity decimal.Decimal
	Threshold       decimal.Decimal
	UpdatedAt       time.Time
}
