package http

import (
	"github.com/gofiber/fiber/v2"
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
	"github.com/jhoicas/comi-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	ArticleTypeUC    *articletypes.UseCase
	ClientUC         *clients.UseCase
	SaleUC           *sales.UseCase
	PaymentUC        *payments.UseCase
	ReconciliationUC *reconciliation.UseCase
	AlertUC          *alerts.UseCase
	DashboardUC      *analytics.DashboardUseCase
	ReportUC         *reports.UseCase
	ExtractUC        *extraction.UseCase
	JWTSecret        string
	Logger           *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Patch("/auth/password", authHandler.ChangePassword)

	// Article types (protegido)
	types := protected.Group("/article-types")
	typeHandler := NewArticleTypeHandler(deps.ArticleTypeUC)
	types.Post("/", typeHandler.Create)
	types.Get("/", typeHandler.List)
	types.Get("/:id", typeHandler.Get)
	types.Put("/:id", typeHandler.Update)
	types.Delete("/:id", typeHandler.Delete)
	types.Get("/:id/history", typeHandler.History)

	// Clients (protegido)
	clientsGroup := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clientsGroup.Post("/", clientHandler.Create)
	clientsGroup.Get("/", clientHandler.List)
	clientsGroup.Get("/:id", clientHandler.Get)
	clientsGroup.Put("/:id", clientHandler.Update)
	clientsGroup.Delete("/:id", clientHandler.Delete)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	extractHandler := NewExtractHandler(deps.ExtractUC)
	reconHandler := NewReconciliationHandler(deps.ReconciliationUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Post("/extract", extractHandler.Extract)
	salesGroup.Get("/:id", saleHandler.Get)
	salesGroup.Put("/:id", saleHandler.Update)
	salesGroup.Patch("/:id/estado", saleHandler.SetEstado)
	salesGroup.Delete("/:id", saleHandler.Delete)
	salesGroup.Post("/:id/settle", reconHandler.MarkSettled)
	salesGroup.Delete("/:id/settle", reconHandler.UnmarkSettled)

	// Payments (protegido)
	paymentsGroup := protected.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	paymentsGroup.Post("/", paymentHandler.Create)
	paymentsGroup.Get("/", paymentHandler.List)
	paymentsGroup.Delete("/:id", paymentHandler.Delete)

	// Reconciliation (protegido)
	recon := protected.Group("/reconciliation")
	recon.Get("/", reconHandler.Overview)
	recon.Get("/summary", reconHandler.Summary)

	// Alerts (protegido)
	alertsGroup := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC)
	alertsGroup.Get("/", alertHandler.List)
	alertsGroup.Patch("/:id/read", alertHandler.MarkRead)

	// Dashboard y reports (protegido)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.AlertUC, deps.Logger.Component("dashboard"))
	protected.Get("/dashboard", dashboardHandler.Get)
	reportHandler := NewReportHandler(deps.ReportUC)
	protected.Get("/reports", reportHandler.Get)
}
