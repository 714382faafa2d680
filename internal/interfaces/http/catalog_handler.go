package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/catalog"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
)

// CatalogHandler maneja las peticiones HTTP del catálogo de artículos y el
// registro de ubicaciones.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// RegisterItem godoc
// @Summary      Registrar artículo rastreable
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.StockItemDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *CatalogHandler) RegisterItem(c *fiber.Ctx) error {
	var in dto.RegisterItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.RegisterItem(catalog.RegisterItemInput{
		Denomination:   in.Denomination,
		Category:       in.Category,
		UnitName:       in.UnitName,
		UnitSymbol:     in.UnitSymbol,
		UnitPrice:      in.UnitPrice,
		AlertThreshold: in.AlertThreshold,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStockItemDTO(item))
}

// GetItem godoc
// @Summary      Obtener artículo por ID
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  dto.StockItemDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *CatalogHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.uc.GetItem(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockItemDTO(item))
}

// ListItems godoc
// @Summary      Listar artículos
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  dto.StockItemDTO
// @Router       /api/items [get]
func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	items, err := h.uc.ListItems(page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StockItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, dto.NewStockItemDTO(item))
	}
	return c.JSON(out)
}

// UpdateItem godoc
// @Summary      Editar campos descriptivos de un artículo
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.StockItemDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *CatalogHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.UpdateItem(c.Params("id"), catalog.UpdateItemInput{
		Denomination:   in.Denomination,
		UnitPrice:      in.UnitPrice,
		AlertThreshold: in.AlertThreshold,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockItemDTO(item))
}

// DeactivateItem godoc
// @Summary      Desactivar artículo (soft delete)
// @Tags         catalog
// @Produce      json
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *CatalogHandler) DeactivateItem(c *fiber.Ctx) error {
	if err := h.uc.DeactivateItem(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterLocation godoc
// @Summary      Registrar ubicación
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.LocationDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *CatalogHandler) RegisterLocation(c *fiber.Ctx) error {
	var in dto.RegisterLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	location, err := h.uc.RegisterLocation(catalog.RegisterLocationInput{
		Denomination: in.Denomination,
		Kind:         in.Kind,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewLocationDTO(location))
}

// GetLocation godoc
// @Summary      Obtener ubicación por ID
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  dto.LocationDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [get]
func (h *CatalogHandler) GetLocation(c *fiber.Ctx) error {
	location, err := h.uc.GetLocation(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewLocationDTO(location))
}

// ListLocations godoc
// @Summary      Listar ubicaciones
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  dto.LocationDTO
// @Router       /api/locations [get]
func (h *CatalogHandler) ListLocations(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	locations, err := h.uc.ListLocations(page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.LocationDTO, 0, len(locations))
	for _, location := range locations {
		out = append(out, dto.NewLocationDTO(location))
	}
	return c.JSON(out)
}

// DeactivateLocation godoc
// @Summary      Desactivar ubicación
// @Tags         catalog
// @Produce      json
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [delete]
func (h *CatalogHandler) DeactivateLocation(c *fiber.Ctx) error {
	if err := h.uc.DeactivateLocation(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
