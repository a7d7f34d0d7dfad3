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

	"github.com/jmrosales/pos-api/internal/application/ledger"
	"github.com/jmrosales/pos-api/internal/application/purchases"
	"github.com/jmrosales/pos-api/internal/application/sales"
	"github.com/jmrosales/pos-api/internal/application/usecase"
	"github.com/jmrosales/pos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jmrosales/pos-api/internal/interfaces/http"
	"github.com/jmrosales/pos-api/pkg/config"
	"github.com/jmrosales/pos-api/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios atados al pool (consultas); las escrituras transaccionales
	// usan los repos que entrega el TxRunner.
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	providerRepo := postgres.NewProviderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := ledger.NewService(txRunner, productRepo, movementRepo)
	salesUC := sales.NewService(txRunner, ledgerUC, transactionRepo, cfg.POS.TaxRate, cfg.POS.TxnPrefix)
	purchaseUC := purchases.NewService(txRunner, ledgerUC, purchaseRepo, providerRepo, productRepo, cfg.POS.PurchasePrefix)

	productUC := usecase.NewProductUseCase(productRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	providerUC := usecase.NewProviderUseCase(providerRepo)

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
		Title:    "POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SalesUC:    salesUC,
		PurchaseUC: purchaseUC,
		LedgerUC:   ledgerUC,
		ProductUC:  productUC,
		CategoryUC: categoryUC,
		CustomerUC: customerUC,
		ProviderUC: providerUC,
		JWTSecret:  cfg.JWT.Secret,
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
