package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/comi-api/internal/application/alerts"
	"github.com/jhoicas/comi-api/internal/application/analytics"
	"github.com/jhoicas/comi-api/internal/application/dto"
	"github.com/jhoicas/comi-api/pkg/logger"
)

// DashboardHandler maneja el resumen del dashboard (protegido).
type DashboardHandler struct {
	uc       *analytics.DashboardUseCase
	alertsUC *alerts.UseCase
	log      *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase, alertsUC *alerts.UseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, alertsUC: alertsUC, log: log}
}

// Get GET /api/dashboard
//
// Antes de construir el resumen ejecuta el evaluador de alertas de cobranza:
// abrir el dashboard es el momento natural de detectar facturas en atraso. Un
// fallo del evaluador no bloquea el dashboard, solo se registra.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	now := time.Now()
	if created, err := h.alertsUC.EvaluateCollection(userID, now); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("evaluador de alertas de cobranza falló")
	} else if created > 0 {
		h.log.Info().Int("alertas_nuevas", created).Str("user_id", userID).Msg("alertas de cobranza generadas")
	}

	out, err := h.uc.GetDashboard(userID, now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
