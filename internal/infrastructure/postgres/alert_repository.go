package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/comi-api/internal/domain/entity"
	"github.com/jhoicas/comi-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación de AlertRepository. El contexto de la alerta se
// persiste como JSONB; la verificación de idempotencia de cobranza usa el
// operador de contención (@>) sobre esa columna.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create persiste una alerta.
func (r *AlertRepo) Create(a *entity.Alert) error {
	contexto, err := json.Marshal(a.Contexto)
	if err != nil {
		return fmt.Errorf("marshal alert context: %w", err)
	}
	query := `
		INSERT INTO alerts (id, user_id, tipo, mensagem, dados_contexto, lido, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.q.Exec(context.Background(), query,
		a.ID, a.UserID, a.Tipo, a.Mensagem, contexto, a.Lido, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// ExistsUnreadCollection verifica si ya existe una alerta de cobranza no leída
// cuyo contexto referencia la venta.
func (r *AlertRepo) ExistsUnreadCollection(userID, saleID string) (bool, error) {
	key, err := json.Marshal(map[string]string{"venda_id": saleID})
	if err != nil {
		return false, fmt.Errorf("marshal containment key: %w", err)
	}
	query := `
		SELECT EXISTS (
			SELECT 1 FROM alerts
			WHERE user_id = $1 AND tipo = $2 AND NOT lido AND dados_contexto @> $3
		)`
	var exists bool
	err = r.q.QueryRow(context.Background(), query, userID, entity.AlertaCobranca, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check unread collection alert: %w", err)
	}
	return exists, nil
}

// ListByUser lista alertas del usuario, más reciente primero.
func (r *AlertRepo) ListByUser(userID string, unreadOnly bool) ([]*entity.Alert, error) {
	query := `
		SELECT id, user_id, tipo, mensagem, dados_contexto, lido, created_at
		FROM alerts WHERE user_id = $1`
	if unreadOnly {
		query += ` AND NOT lido`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		var a entity.Alert
		var contexto []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.Tipo, &a.Mensagem, &contexto, &a.Lido, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		if len(contexto) > 0 {
			if err := json.Unmarshal(contexto, &a.Contexto); err != nil {
				return nil, fmt.Errorf("unmarshal alert context: %w", err)
			}
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// MarkRead marca la alerta como leída. Para cobranza esto rearma la condición:
// si la factura sigue en atraso, el evaluador creará una alerta nueva.
func (r *AlertRepo) MarkRead(userID, id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE alerts SET lido = TRUE WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	return nil
}
