package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
)

// LedgerHandler maneja las peticiones HTTP del ledger: movimientos,
// transferencias, cantidades e historia.
type LedgerHandler struct {
	store *ledger.Store
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(store *ledger.Store) *LedgerHandler {
	return &LedgerHandler{store: store}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.LedgerEntryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [post]
func (h *LedgerHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.store.RecordMovement(c.Context(), ledger.MovementInput{
		LocationID: in.LocationID,
		ItemID:     in.ItemID,
		Kind:       in.Kind,
		Quantity:   in.Quantity,
		Unit:       in.Unit,
		ActorID:    in.ActorID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewLedgerEntryDTO(entry))
}

// Transfer godoc
// @Summary      Transferir stock entre ubicaciones
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/ledger/transfers [post]
func (h *LedgerHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, inEntry, err := h.store.Transfer(c.Context(), ledger.TransferInput{
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		ItemID:         in.ItemID,
		Quantity:       in.Quantity,
		Unit:           in.Unit,
		ActorID:        in.ActorID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		Out: dto.NewLedgerEntryDTO(out),
		In:  dto.NewLedgerEntryDTO(inEntry),
	})
}

// GetQuantity godoc
// @Summary      Cantidad proyectada de (ubicación, artículo)
// @Tags         ledger
// @Produce      json
// @Param        location_id  query  string  true  "ID de ubicación"
// @Param        item_id      query  string  true  "ID de artículo"
// @Success      200  {object}  dto.QuantityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/quantity [get]
func (h *LedgerHandler) GetQuantity(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	itemID := c.Query("item_id")
	if locationID == "" || itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id e item_id son obligatorios"})
	}
	quantity, err := h.store.GetQuantity(locationID, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.QuantityResponse{LocationID: locationID, ItemID: itemID, Quantity: quantity})
}

// ReplayHistory godoc
// @Summary      Historia de asientos de (ubicación, artículo) en orden de commit
// @Tags         ledger
// @Produce      json
// @Param        location_id  query  string  true  "ID de ubicación"
// @Param        item_id      query  string  true  "ID de artículo"
// @Success      200  {array}  dto.LedgerEntryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/history [get]
func (h *LedgerHandler) ReplayHistory(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	itemID := c.Query("item_id")
	if locationID == "" || itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id e item_id son obligatorios"})
	}
	entries, err := h.store.ReplayHistory(locationID, itemID)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.LedgerEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.NewLedgerEntryDTO(e))
	}
	return c.JSON(out)
}

// RebuildProjection godoc
// @Summary      Reconstruir la proyección de una clave replayando su historia
// @Tags         ledger
// @Produce      json
// @Param        location_id  query  string  true  "ID de ubicación"
// @Param        item_id      query  string  true  "ID de artículo"
// @Success      200  {object}  dto.QuantityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/rebuild [post]
func (h *LedgerHandler) RebuildProjection(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	itemID := c.Query("item_id")
	if locationID == "" || itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id e item_id son obligatorios"})
	}
	quantity, err := h.store.RebuildProjection(c.Context(), locationID, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.QuantityResponse{LocationID: locationID, ItemID: itemID, Quantity: quantity})
}
