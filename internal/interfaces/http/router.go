package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/alerts"
	"github.com/tu-usuario/stock-ledger/internal/application/catalog"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/application/production"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC    *catalog.UseCase
	LedgerStore  *ledger.Store
	Production   *production.Engine
	AlertMonitor *alerts.Monitor
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catálogo
	items := api.Group("/items")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	items.Post("/", catalogHandler.RegisterItem)
	items.Get("/", catalogHandler.ListItems)
	items.Get("/:id", catalogHandler.GetItem)
	items.Put("/:id", catalogHandler.UpdateItem)
	items.Delete("/:id", catalogHandler.DeactivateItem)

	// Ubicaciones
	locations := api.Group("/locations")
	locations.Post("/", catalogHandler.RegisterLocation)
	locations.Get("/", catalogHandler.ListLocations)
	locations.Get("/:id", catalogHandler.GetLocation)
	locations.Delete("/:id", catalogHandler.DeactivateLocation)

	// Ledger
	ledgerGroup := api.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.LedgerStore)
	ledgerGroup.Post("/movements", ledgerHandler.RecordMovement)
	ledgerGroup.Post("/transfers", ledgerHandler.Transfer)
	ledgerGroup.Get("/quantity", ledgerHandler.GetQuantity)
	ledgerGroup.Get("/history", ledgerHandler.ReplayHistory)
	ledgerGroup.Post("/rebuild", ledgerHandler.RebuildProjection)

	// Producción
	prod := api.Group("/production")
	productionHandler := NewProductionHandler(deps.Production)
	prod.Post("/definitions", productionHandler.CreateDefinition)
	prod.Get("/definitions", productionHandler.ListDefinitions)
	prod.Get("/definitions/:id", productionHandler.GetDefinition)
	prod.Post("/runs", productionHandler.CreateRun)
	prod.Get("/runs/:id", productionHandler.GetRun)
	prod.Post("/runs/:id/execute", productionHandler.ExecuteRun)

	// Alertas
	alertHandler := NewAlertHandler(deps.AlertMonitor)
	api.Get("/alerts", alertHandler.GetActiveAlerts)
}
