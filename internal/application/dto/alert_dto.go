package dto

import (
	"time"

	"github.com/jhoicas/comi-api/internal/domain/entity"
)

// AlertResponse una notificación.
type AlertResponse struct {
	ID        string              `json:"id"`
	Tipo      string              `json:"tipo"`
	Mensagem  string              `json:"mensagem"`
	Contexto  entity.AlertContext `json:"dados_contexto,omitempty"`
	Lido      bool                `json:"lido"`
	CreatedAt time.Time           `json:"created_at"`
}
