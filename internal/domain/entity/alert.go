package entity

import "time"

// Tipos de alerta.
const (
	AlertaDivergencia = "divergencia"
	AlertaCobranca    = "cobranca"
	AlertaPrevisao    = "previsao"
)

// AlertContext es el payload opaco de una alerta (se persiste como JSONB).
// Para alertas de cobranza lleva venda_id, valor y dias_atraso.
type AlertContext map[string]any

// Alert es una notificación generada por el evaluador de alertas y marcada
// como leída desde la superficie de notificaciones.
//
// Idempotencia: para cobranza, la clave es (tipo, venda_id, lido=false). Una
// alerta leída no suprime futuras: si la condición persiste, se crea otra.
type Alert struct {
	ID        string
	UserID    string
	Tipo      string // divergencia | cobranca | previsao
	Mensagem  string
	Contexto  AlertContext
	Lido      bool
	CreatedAt time.Time
}
