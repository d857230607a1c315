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

	"github.com/smartkubik/inventory-core/internal/application/alerts"
	"github.com/smartkubik/inventory-core/internal/application/inventory"
	"github.com/smartkubik/inventory-core/internal/application/usecase"
	"github.com/smartkubik/inventory-core/internal/infrastructure/postgres"
	infraredis "github.com/smartkubik/inventory-core/internal/infrastructure/redis"
	httpRouter "github.com/smartkubik/inventory-core/internal/interfaces/http"
	"github.com/smartkubik/inventory-core/pkg/config"
	"github.com/smartkubik/inventory-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
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

	notifier, err := infraredis.NewNotifier(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer notifier.Close()

	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	stockRepo := postgres.NewStockItemRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	ruleRepo := postgres.NewAlertRuleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	evaluator := alerts.NewEvaluator(
		stockRepo, ruleRepo, notifier,
		time.Duration(cfg.Alerts.CooldownHours)*time.Hour,
		log,
	)
	dispatcher := alerts.NewDispatcher(evaluator, alerts.DispatcherConfig{
		QueueSize: cfg.Alerts.QueueSize,
		Retries:   cfg.Alerts.WorkerRetries,
		Backoff:   time.Duration(cfg.Alerts.RetryBackoffMS) * time.Millisecond,
	}, log)
	dispatcher.Start()
	defer dispatcher.Close()

	productUC := usecase.NewProductUseCase(productRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	movementUC := inventory.NewMovementUseCase(txRunner, productRepo, locationRepo, stockRepo, ledgerRepo, dispatcher, log)
	transferUC := inventory.NewTransferUseCase(txRunner, productRepo, locationRepo, dispatcher, log)
	ruleUC := alerts.NewRuleUseCase(ruleRepo, productRepo, locationRepo, log)

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
		Title:    "Inventory Core API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		LocationUC: locationUC,
		MovementUC: movementUC,
		TransferUC: transferUC,
		RuleUC:     ruleUC,
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
