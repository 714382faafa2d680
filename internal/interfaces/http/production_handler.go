package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/production"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// ProductionHandler maneja las peticiones HTTP de recetas y ejecuciones de
// producción.
type ProductionHandler struct {
	engine *production.Engine
}

// NewProductionHandler construye el handler.
func NewProductionHandler(engine *production.Engine) *ProductionHandler {
	return &ProductionHandler{engine: engine}
}

// CreateDefinition godoc
// @Summary      Registrar receta de producción
// @Tags         production
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.DefinitionDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/production/definitions [post]
func (h *ProductionHandler) CreateDefinition(c *fiber.Ctx) error {
	var in dto.CreateDefinitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]entity.RecipeLine, 0, len(in.RecipeLines))
	for _, line := range in.RecipeLines {
		lines = append(lines, entity.RecipeLine{
			IngredientItemID:     line.IngredientItemID,
			QuantityPerBatchUnit: line.QuantityPerBatch,
			Unit:                 line.Unit,
		})
	}
	def, err := h.engine.CreateDefinition(production.DefinitionInput{
		ProducedType: in.ProducedType,
		Denomination: in.Denomination,
		Principal: entity.PrincipalIngredient{
			ItemID:               in.Principal.ItemID,
			QuantityPerBatchUnit: in.Principal.QuantityPerBatch,
			Unit:                 in.Principal.Unit,
		},
		RecipeLines: lines,
		Result:      entity.ResultItem{ItemID: in.Result.ItemID, Unit: in.Result.Unit},
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewDefinitionDTO(def))
}

// GetDefinition godoc
// @Summary      Obtener receta por ID
// @Tags         production
// @Produce      json
// @Success      200  {object}  dto.DefinitionDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production/definitions/{id} [get]
func (h *ProductionHandler) GetDefinition(c *fiber.Ctx) error {
	def, err := h.engine.GetDefinition(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewDefinitionDTO(def))
}

// ListDefinitions godoc
// @Summary      Listar recetas
// @Tags         production
// @Produce      json
// @Success      200  {array}  dto.DefinitionDTO
// @Router       /api/production/definitions [get]
func (h *ProductionHandler) ListDefinitions(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	defs, err := h.engine.ListDefinitions(page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.DefinitionDTO, 0, len(defs))
	for _, def := range defs {
		out = append(out, dto.NewDefinitionDTO(def))
	}
	return c.JSON(out)
}

// CreateRun godoc
// @Summary      Programar una ejecución de producción
// @Tags         production
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.RunDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/production/runs [post]
func (h *ProductionHandler) CreateRun(c *fiber.Ctx) error {
	var in dto.CreateRunRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	run, err := h.engine.CreateRun(in.DefinitionID, in.RequestedPrincipalQuantity, in.ActorID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewRunDTO(run))
}

// GetRun godoc
// @Summary      Obtener ejecución por ID
// @Tags         production
// @Produce      json
// @Success      200  {object}  dto.RunDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production/runs/{id} [get]
func (h *ProductionHandler) GetRun(c *fiber.Ctx) error {
	run, err := h.engine.GetRun(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewRunDTO(run))
}

// ExecuteRun godoc
// @Summary      Ejecutar una producción programada
// @Description  Debita los ingredientes escalados en la base central y acredita
//               el producto terminado. Sobre una ejecución ya terminal devuelve
//               el resultado almacenado sin repostear asientos.
// @Tags         production
// @Produce      json
// @Success      200  {object}  dto.RunDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.RunDTO  "ejecución fallida por insuficiencia; el body es la ejecución en failed"
// @Router       /api/production/runs/{id}/execute [post]
func (h *ProductionHandler) ExecuteRun(c *fiber.Ctx) error {
	run, err := h.engine.Execute(c.Context(), c.Params("id"))
	if err != nil {
		// Una ejecución fallida es un resultado, no solo un error: si el motor
		// devolvió el run en failed, va en el body junto al 409.
		if run != nil {
			return c.Status(fiber.StatusConflict).JSON(dto.NewRunDTO(run))
		}
		return writeError(c, err)
	}
	return c.JSON(dto.NewRunDTO(run))
}
