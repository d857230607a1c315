package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartkubik/inventory-core/internal/application/alerts"
	"github.com/smartkubik/inventory-core/internal/application/inventory"
	"github.com/smartkubik/inventory-core/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	LocationUC *usecase.LocationUseCase
	MovementUC *inventory.MovementUseCase
	TransferUC *inventory.TransferUseCase
	RuleUC     *alerts.RuleUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todas las rutas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Catálogo de productos
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Patch("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Ubicaciones / bodegas
	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Patch("/:id", locationHandler.Update)
	locations.Delete("/:id", locationHandler.Delete)

	// Agregados de stock
	inventoryHandler := NewInventoryHandler(deps.MovementUC)
	stockItems := api.Group("/stock-items")
	stockItems.Post("/", inventoryHandler.CreateStockItem)
	stockItems.Get("/", inventoryHandler.ListStockItems)
	stockItems.Get("/:id", inventoryHandler.GetStockItem)
	stockItems.Post("/:id/acknowledge-low-stock", inventoryHandler.AcknowledgeLowStock)
	stockItems.Delete("/:id", inventoryHandler.DeactivateStockItem)

	// Movimientos, reservas y traslados
	inv := api.Group("/inventory")
	inv.Post("/movements", inventoryHandler.CreateMovement)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Post("/reservations", inventoryHandler.Reserve)
	inv.Post("/releases", inventoryHandler.Release)
	transferHandler := NewTransferHandler(deps.TransferUC)
	inv.Post("/transfers", transferHandler.CreateTransfer)

	// Reglas de alerta
	rules := api.Group("/alert-rules")
	alertHandler := NewAlertHandler(deps.RuleUC)
	rules.Post("/", alertHandler.Create)
	rules.Get("/", alertHandler.List)
	rules.Get("/:id", alertHandler.GetByID)
	rules.Patch("/:id", alertHandler.Update)
	rules.Delete("/:id", alertHandler.Delete)
}
