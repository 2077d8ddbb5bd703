package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/anomaly"
	"github.com/jhoicas/Almacen-api/internal/application/catalog"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/reconciliation"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC       *catalog.UseCase
	AppendMovement  *ledger.AppendMovementUseCase
	Consume         *ledger.ConsumeUseCase
	Rebuild         *ledger.RebuildUseCase
	LedgerQuery     *ledger.QueryUseCase
	Reconciliation  *reconciliation.UseCase
	Anomaly         *anomaly.UseCase
	DefaultPhysical bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	items := api.Group("/items")
	items.Post("/", catalogHandler.CreateItem)
	items.Get("/", catalogHandler.ListItems)
	items.Get("/:id", catalogHandler.GetItem)

	locations := api.Group("/locations")
	locations.Post("/", catalogHandler.CreateLocation)
	locations.Get("/", catalogHandler.ListLocations)
	locations.Get("/:id", catalogHandler.GetLocation)

	// Ledger de movimientos y saldos
	ledgerHandler := NewLedgerHandler(deps.AppendMovement, deps.Consume, deps.Rebuild, deps.LedgerQuery, deps.DefaultPhysical)
	ledgerGroup := api.Group("/ledger")
	ledgerGroup.Post("/movements", ledgerHandler.AppendMovement)
	ledgerGroup.Get("/movements", ledgerHandler.ListMovements)
	ledgerGroup.Post("/consume", ledgerHandler.Consume)
	ledgerGroup.Get("/balances/:itemID", ledgerHandler.GetBalancesForItem)
	ledgerGroup.Get("/balances/:itemID/:locationID", ledgerHandler.GetBalance)
	ledgerGroup.Post("/rebuild", ledgerHandler.Rebuild)

	// Conteos cíclicos y reconciliación
	ccHandler := NewCycleCountHandler(deps.Reconciliation)
	cc := api.Group("/cycle-counts")
	cc.Post("/", ccHandler.CreateTask)
	cc.Get("/accuracy", ccHandler.Accuracy)
	cc.Get("/:id", ccHandler.GetTask)
	cc.Post("/lines/:lineID/count", ccHandler.SubmitCount)
	cc.Post("/:id/complete", ccHandler.CompleteTask)
	cc.Post("/:id/reconcile", ccHandler.Reconcile)

	// Anomalías (solo lectura, reportes)
	anomalyHandler := NewAnomalyHandler(deps.Anomaly)
	api.Get("/anomalies/summary", anomalyHandler.Summary)
}
