package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Almacen-api/internal/application/anomaly"
	"github.com/jhoicas/Almacen-api/internal/application/catalog"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/reconciliation"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
	"github.com/shopspring/decimal"
)

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
		Bool("physical_decrement", cfg.Ledger.AllowPhysicalDecrement).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	balanceRepo := postgres.NewBalanceRepository(pool)
	cycleCountRepo := postgres.NewCycleCountRepository(pool)
	anomalyRepo := postgres.NewAnomalyRepository(pool)
	txRunner := postgres.NewTxRunner(pool, time.Duration(cfg.Ledger.TxTimeoutSeconds)*time.Second)

	catalogUC := catalog.NewUseCase(itemRepo, locationRepo)
	appendUC := ledger.NewAppendMovementUseCase(txRunner, itemRepo, locationRepo)
	consumeUC := ledger.NewConsumeUseCase(txRunner, itemRepo)
	rebuildUC := ledger.NewRebuildUseCase(txRunner)
	queryUC := ledger.NewQueryUseCase(movementRepo, balanceRepo)
	reconciliationUC := reconciliation.NewUseCase(txRunner, cycleCountRepo, balanceRepo, locationRepo)
	anomalyUC := anomaly.NewUseCase(anomalyRepo, movementRepo, balanceRepo, anomaly.Params{
		ConflictThreshold: decimal.NewFromFloat(cfg.Ledger.ConflictThreshold),
		ConflictLookback:  cfg.Ledger.ConflictLookback,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacen Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:       catalogUC,
		AppendMovement:  appendUC,
		Consume:         consumeUC,
		Rebuild:         rebuildUC,
		LedgerQuery:     queryUC,
		Reconciliation:  reconciliationUC,
		Anomaly:         anomalyUC,
		DefaultPhysical: cfg.Ledger.AllowPhysicalDecrement,
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
