package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// RecordMovementRequest body para POST /api/ledger/movements.
type RecordMovementRequest struct {
	LocationID string          `json:"location_id"`
	ItemID     string          `json:"item_id"`
	Kind       string          `json:"kind"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	ActorID    string          `json:"actor_id,omitempty"`
}

// TransferRequest body para POST /api/ledger/transfers.
type TransferRequest struct {
	FromLocationID string          `json:"from_location_id"`
	ToLocationID   string          `json:"to_location_id"`
	ItemID         string          `json:"item_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	ActorID        string          `json:"actor_id,omitempty"`
}

// LedgerEntryDTO representación HTTP de un asiento del ledger.
type LedgerEntryDTO struct {
	ID                     string          `json:"id"`
	Timestamp              time.Time       `json:"timestamp"`
	LocationID             string          `json:"location_id"`
	ItemID                 string          `json:"item_id"`
	Kind                   string          `json:"kind"`
	Quantity               decimal.Decimal `json:"quantity"`
	Unit                   string          `json:"unit"`
	ActorID                string          `json:"actor_id,omitempty"`
	RelatedEntryID         string          `json:"related_entry_id,omitempty"`
	RelatedProductionRunID string          `json:"related_production_run_id,omitempty"`
}

// NewLedgerEntryDTO mapea la entidad a su DTO.
func NewLedgerEntryDTO(e *entity.LedgerEntry) LedgerEntryDTO {
	return LedgerEntryDTO{
		ID:                     e.ID,
		Timestamp:              e.Timestamp,
		LocationID:             e.LocationID,
		ItemID:                 e.ItemID,
		Kind:                   e.Kind,
		Quantity:               e.Quantity,
		Unit:                   e.Unit,
		ActorID:                e.ActorID,
		RelatedEntryID:         e.RelatedEntryID,
		RelatedProductionRunID: e.RelatedProductionRunID,
	}
}

// TransferResponse el par débito/crédito de una transferencia.
type TransferResponse struct {
	Out LedgerEntryDTO `json:"out"`
	In  LedgerEntryDTO `json:"in"`
}

// QuantityResponse cantidad proyectada de una clave (ubicación, artículo).
type QuantityResponse struct {
	LocationID string          `json:"location_id"`
	ItemID     string          `json:"item_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// AlertDTO representación HTTP de una alerta de umbral.
type AlertDTO struct {
	LocationID      string          `json:"location_id"`
	ItemID          string          `json:"item_id"`
	Active          bool            `json:"active"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	Threshold       decimal.Decimal `json:"threshold"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewAlertDTO mapea la entidad a su DTO.
func NewAlertDTO(a *entity.Alert) AlertDTO {
	return AlertDTO{
		LocationID:      a.LocationID,
		ItemID:          a.ItemID,
		Active:          a.Active,
		CurrentQuantity: a.CurrentQuantity,
		Threshold:       a.Threshold,
		UpdatedAt:       a.UpdatedAt,
	}
}
