package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/alerts"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
)

// AlertHandler maneja las peticiones HTTP de alertas por umbral.
type AlertHandler struct {
	monitor *alerts.Monitor
}

// NewAlertHandler construye el handler.
func NewAlertHandler(monitor *alerts.Monitor) *AlertHandler {
	return &AlertHandler{monitor: monitor}
}

// GetActiveAlerts godoc
// @Summary      Listar alertas activas
// @Tags         alerts
// @Produce      json
// @Param        location_id  query  string  false  "Filtrar por ubicación. Vacío = todas."
// @Success      200  {array}  dto.AlertDTO
// @Router       /api/alerts [get]
func (h *AlertHandler) GetActiveAlerts(c *fiber.Ctx) error {
	active := h.monitor.GetActiveAlerts(c.Query("location_id"))
	out := make([]dto.AlertDTO, 0, len(active))
	for _, a := range active {
		out = append(out, dto.NewAlertDTO(a))
	}
	return c.JSON(out)
}
