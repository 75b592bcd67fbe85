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
	"github.com/tu-usuario/stockmaster-api/internal/application/approval"
	"github.com/tu-usuario/stockmaster-api/internal/application/auth"
	"github.com/tu-usuario/stockmaster-api/internal/application/documents"
	appstock "github.com/tu-usuario/stockmaster-api/internal/application/stock"
	"github.com/tu-usuario/stockmaster-api/internal/application/usecase"
	"github.com/tu-usuario/stockmaster-api/internal/domain/rbac"
	"github.com/tu-usuario/stockmaster-api/internal/infrastructure/events"
	"github.com/tu-usuario/stockmaster-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/stockmaster-api/internal/interfaces/http"
	"github.com/tu-usuario/stockmaster-api/pkg/config"
	"github.com/tu-usuario/stockmaster-api/pkg/logger"
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
		Bool("strict_scoping", cfg.RBAC.RequireWarehouseMembership).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	binRepo := postgres.NewBinRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	policyRepo := postgres.NewPolicyRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	scoping := rbac.ScopingPolicy{RequireMembership: cfg.RBAC.RequireWarehouseMembership}
	evaluator := approval.NewEvaluator(policyRepo)
	emitter := events.NewLoggerEmitter(log.Zerolog())

	documentUC := documents.NewWorkflowUseCase(
		txRunner, documentRepo, productRepo, warehouseRepo, binRepo,
		evaluator, emitter, scoping,
	)
	stockUC := appstock.NewQueryUseCase(stockRepo, ledgerRepo, auditRepo, scoping)
	productUC := usecase.NewProductUseCase(productRepo, binRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo, binRepo)
	policyUC := usecase.NewPolicyUseCase(policyRepo, warehouseRepo)
	userUC := usecase.NewUserUseCase(userRepo, warehouseRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
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
		Title:    "StockMaster API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		DocumentUC:  documentUC,
		StockUC:     stockUC,
		ProductUC:   productUC,
		WarehouseUC: warehouseUC,
		PolicyUC:    policyUC,
		UserUC:      userUC,
		UserRepo:    userRepo,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando servidor")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor HTTP")
	}
}
