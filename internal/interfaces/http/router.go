package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmrosales/pos-api/internal/application/ledger"
	"github.com/jmrosales/pos-api/internal/application/purchases"
	"github.com/jmrosales/pos-api/internal/application/sales"
	"github.com/jmrosales/pos-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SalesUC    *sales.Service
	PurchaseUC *purchases.Service
	LedgerUC   *ledger.Service
	ProductUC  *usecase.ProductUseCase
	CategoryUC *usecase.CategoryUseCase
	CustomerUC *usecase.CustomerUseCase
	ProviderUC *usecase.ProviderUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todo /api exige Bearer Token; la
// eliminación de compras además exige rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Ventas
	transactions := api.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.SalesUC)
	transactions.Post("/", transactionHandler.Checkout)
	transactions.Get("/today", transactionHandler.ListToday)
	transactions.Get("/today/sales", transactionHandler.TodaySales)
	transactions.Get("/date-range", transactionHandler.ListByDateRange)
	transactions.Get("/:id", transactionHandler.GetByID)
	transactions.Post("/:id/cancel", transactionHandler.Cancel)

	// Compras
	purchasesGroup := api.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchasesGroup.Post("/", purchaseHandler.Create)
	purchasesGroup.Get("/provider/:id", purchaseHandler.ListByProvider)
	purchasesGroup.Get("/status/:status", purchaseHandler.ListByStatus)
	purchasesGroup.Get("/:id", purchaseHandler.GetByID)
	purchasesGroup.Put("/:id", purchaseHandler.Update)
	purchasesGroup.Delete("/:id", RequireRole("admin"), purchaseHandler.Delete)

	// Inventario (libro de movimientos)
	inventory := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	inventory.Post("/adjustments", inventoryHandler.RegisterAdjustment)
	inventory.Get("/movements/product/:id", inventoryHandler.ListMovements)

	// Productos
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Categorías
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	// Clientes
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Proveedores
	providers := api.Group("/providers")
	providerHandler := NewProviderHandler(deps.ProviderUC)
	providers.Post("/", providerHandler.Create)
	providers.Get("/", providerHandler.List)
	providers.Get("/:id", providerHandler.GetByID)
	providers.Put("/:id", providerHandler.Update)
	providers.Delete("/:id", providerHandler.Delete)
}
