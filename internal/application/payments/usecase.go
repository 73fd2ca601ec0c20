// Package payments contiene el caso de uso de recibos manuales de comisión:
// importes sueltos que el comercial declara haber recibido, sin vínculo con
// ventas concretas.
package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/comi-api/internal/application/dto"
	"github.com/jhoicas/comi-api/internal/domain"
	"github.com/jhoicas/comi-api/internal/domain/entity"
	"github.com/jhoicas/comi-api/internal/domain/repository"
)

// UseCase casos de uso de Payment.
type UseCase struct {
	repo repository.PaymentRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.PaymentRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Create registra un recibo manual. El valor debe ser positivo; el período de
// referencia es texto libre opcional ("Março 2026").
func (uc *UseCase) Create(userID string, in dto.PaymentRequest) (*dto.PaymentResponse, error) {
	if in.Valor.IsNegative() || in.Valor.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if in.DataPagamento.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	p := &entity.Payment{
		ID:                uuid.New().String(),
		UserID:            userID,
		DataPagamento:     in.DataPagamento,
		Valor:             in.Valor,
		PeriodoReferencia: in.PeriodoReferencia,
		Observacoes:       in.Observacoes,
		CreatedAt:         time.Now(),
	}
	if err := uc.repo.Create(p); err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

// List lista los recibos del usuario, más reciente primero.
func (uc *UseCase) List(userID string) ([]*dto.PaymentResponse, error) {
	list, err := uc.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toResponse(p))
	}
	return out, nil
}

// Delete elimina un recibo registrado por error.
func (uc *UseCase) Delete(userID, id string) error {
	return uc.repo.Delete(userID, id)
}

func toResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:                p.ID,
		DataPagamento:     p.DataPagamento,
		Valor:             p.Valor.Round(2),
		PeriodoReferencia: p.PeriodoReferencia,
		Observacoes:       p.Observacoes,
		CreatedAt:         p.CreatedAt,
	}
}
