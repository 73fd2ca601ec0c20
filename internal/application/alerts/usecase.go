// Package alerts contiene el evaluador de alertas de cobranza y la superficie
// de notificaciones (listar, marcar leída).
package alerts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/comi-api/internal/application/dto"
	"github.com/jhoicas/comi-api/internal/domain/entity"
	"github.com/jhoicas/comi-api/internal/domain/repository"
)

// OverdueDays umbral de atraso de cobranza de una factura.
const OverdueDays = 30

// UseCase evaluador y casos de uso de Alert.
type UseCase struct {
	alertRepo repository.AlertRepository
	saleRepo  repository.SaleRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(alertRepo repository.AlertRepository, saleRepo repository.SaleRepository) *UseCase {
	return &UseCase{alertRepo: alertRepo, saleRepo: saleRepo}
}

// EvaluateCollection genera alertas de cobranza para cada venta no pagada con
// más de 30 días desde la fecha de venta. Idempotente sobre alertas NO leídas:
// si ya existe una alerta de cobranza sin leer para la venta, no se duplica;
// marcarla como leída rearma la condición. now se pasa explícito para poder
// fijarlo en tests.
//
// Devuelve cuántas alertas nuevas se crearon.
func (uc *UseCase) EvaluateCollection(userID string, now time.Time) (int, error) {
	cutoff := now.AddDate(0, 0, -OverdueDays)
	overdue, err := uc.saleRepo.ListOverdueUnpaid(userID, cutoff)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, s := range overdue {
		exists, err := uc.alertRepo.ExistsUnreadCollection(userID, s.SaleID)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		days := int(now.Sub(s.DataVenda).Hours() / 24)
		alert := &entity.Alert{
			ID:       uuid.New().String(),
			UserID:   userID,
			Tipo:     entity.AlertaCobranca,
			Mensagem: fmt.Sprintf("Fatura %s (%s) em atraso (>%d dias).", s.NumeroFatura, s.ClienteNome, OverdueDays),
			Contexto: entity.AlertContext{
				"venda_id":    s.SaleID,
				"valor":       s.ValorTotal.Round(2),
				"dias_atraso": days,
			},
			Lido:      false,
			CreatedAt: now,
		}
		if err := uc.alertRepo.Create(alert); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// List lista las alertas del usuario, opcionalmente solo las no leídas.
func (uc *UseCase) List(userID string, unreadOnly bool) ([]*dto.AlertResponse, error) {
	list, err := uc.alertRepo.ListByUser(userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, &dto.AlertResponse{
			ID:        a.ID,
			Tipo:      a.Tipo,
			Mensagem:  a.Mensagem,
			Contexto:  a.Contexto,
			Lido:      a.Lido,
			CreatedAt: a.CreatedAt,
		})
	}
	return out, nil
}

// MarkRead marca una alerta como leída.
func (uc *UseCase) MarkRead(userID, id string) error {
	return uc.alertRepo.MarkRead(userID, id)
}
