package repository

import "github.com/jhoicas/comi-api/internal/domain/entity"

// AlertRepository define el puerto de persistencia para Alert, incluida la
// verificación de idempotencia del evaluador de cobranza.
type AlertRepository interface {
	Create(a *entity.Alert) error
	// ExistsUnreadCollection verifica si ya hay una alerta de cobranza NO
	// leída cuyo contexto referencia la venta (filtro por contención JSONB).
	ExistsUnreadCollection(userID, saleID string) (bool, error)
	ListByUser(userID string, unreadOnly bool) ([]*entity.Alert, error)
	MarkRead(userID, id string) error
}
