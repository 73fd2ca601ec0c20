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
	"github.com/jhoicas/comi-api/internal/application/alerts"
	"github.com/jhoicas/comi-api/internal/application/analytics"
	"github.com/jhoicas/comi-api/internal/application/articletypes"
	"github.com/jhoicas/comi-api/internal/application/auth"
	"github.com/jhoicas/comi-api/internal/application/clients"
	"github.com/jhoicas/comi-api/internal/application/extraction"
	"github.com/jhoicas/comi-api/internal/application/payments"
	"github.com/jhoicas/comi-api/internal/application/reconciliation"
	"github.com/jhoicas/comi-api/internal/application/reports"
	"github.com/jhoicas/comi-api/internal/application/sales"
	infraai "github.com/jhoicas/comi-api/internal/infrastructure/ai"
	"github.com/jhoicas/comi-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/comi-api/internal/interfaces/http"
	"github.com/jhoicas/comi-api/pkg/config"
	"github.com/jhoicas/comi-api/pkg/logger"
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

	userRepo := postgres.NewUserRepository(pool)
	typeRepo := postgres.NewArticleTypeRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	typeUC := articletypes.NewUseCase(typeRepo)
	clientUC := clients.NewUseCase(clientRepo, saleRepo)
	saleUC := sales.NewUseCase(saleRepo, typeRepo, clientRepo, txRunner)
	paymentUC := payments.NewUseCase(paymentRepo)
	reconciliationUC := reconciliation.NewUseCase(saleRepo, clientRepo, paymentRepo)
	alertUC := alerts.NewUseCase(alertRepo, saleRepo)
	dashboardUC := analytics.NewDashboardUseCase(saleRepo, typeRepo, paymentRepo)
	reportUC := reports.NewUseCase(saleRepo, clientRepo, paymentRepo)

	extractorSvc := infraai.NewOpenRouterService(cfg.AI.OpenRouterAPIKey, cfg.AI.OpenRouterModel)
	extractUC := extraction.NewUseCase(extractorSvc)

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
		Title:    "Comi API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		ArticleTypeUC:    typeUC,
		ClientUC:         clientUC,
		SaleUC:           saleUC,
		PaymentUC:        paymentUC,
		ReconciliationUC: reconciliationUC,
		AlertUC:          alertUC,
		DashboardUC:      dashboardUC,
		ReportUC:         reportUC,
		ExtractUC:        extractUC,
		JWTSecret:        cfg.JWT.Secret,
		Logger:           log,
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
