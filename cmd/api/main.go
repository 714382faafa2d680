package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/stock-ledger/internal/application/alerts"
	"github.com/tu-usuario/stock-ledger/internal/application/catalog"
	appledger "github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/application/production"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/memory"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/stock-ledger/internal/interfaces/http"
	"github.com/tu-usuario/stock-ledger/pkg/config"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
	"github.com/tu-usuario/stock-ledger/pkg/pubsub"
)

// backends agrupa los puertos de persistencia construidos según LEDGER_BACKEND.
type backends struct {
	txRunner       appledger.TxRunner
	itemRepo       repository.StockItemRepository
	locationRepo   repository.LocationRepository
	entryRepo      repository.LedgerEntryRepository
	projectionRepo repository.ProjectionRepository
	definitionRepo repository.ProductionDefinitionRepository
	runRepo        repository.ProductionRunRepository
	close          func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Ledger.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	b, err := buildBackends(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar backend de persistencia")
	}
	defer b.close()

	notifier := pubsub.New()
	ledgerStore := appledger.NewStore(
		b.txRunner, b.itemRepo, b.locationRepo, b.entryRepo, b.projectionRepo,
		notifier, log,
	)
	catalogUC := catalog.NewUseCase(b.itemRepo, b.locationRepo, log)
	productionEngine := production.NewEngine(
		b.definitionRepo, b.runRepo, b.itemRepo, b.locationRepo, ledgerStore, log,
	)
	alertMonitor := alerts.NewMonitor(b.itemRepo, ledgerStore, notifier, log)
	alertMonitor.Start()
	defer alertMonitor.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:    catalogUC,
		LedgerStore:  ledgerStore,
		Production:   productionEngine,
		AlertMonitor: alertMonitor,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// buildBackends arma los repositorios según el backend configurado. El modo
// memory no requiere infraestructura externa y es el default.
func buildBackends(ctx context.Context, cfg *config.Config) (*backends, error) {
	switch cfg.Ledger.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		return &backends{
			txRunner:       postgres.NewTxRunner(pool),
			itemRepo:       postgres.NewStockItemRepository(pool),
			locationRepo:   postgres.NewLocationRepository(pool),
			entryRepo:      postgres.NewLedgerEntryRepository(pool),
			projectionRepo: postgres.NewProjectionRepository(pool),
			definitionRepo: postgres.NewProductionDefinitionRepository(pool),
			runRepo:        postgres.NewProductionRunRepository(pool),
			close:          pool.Close,
		}, nil
	default:
		store := memory.NewStore()
		return &backends{
			txRunner:       memory.NewTxRunner(store),
			itemRepo:       memory.NewStockItemRepository(store),
			locationRepo:   memory.NewLocationRepository(store),
			entryRepo:      memory.NewLedgerEntryRepository(store),
			projectionRepo: memory.NewProjectionRepository(store),
			definitionRepo: memory.NewProductionDefinitionRepository(store),
			runRepo:        memory.NewProductionRunRepository(store),
			close:          func() {},
		}, nil
	}
}
