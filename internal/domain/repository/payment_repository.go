package repository

import (
	"time"

	"github.com/jhoicas/comi-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para los recibos
// manuales de comisión.
type PaymentRepository interface {
	Create(p *entity.Payment) error
	ListByUser(userID string) ([]*entity.Payment, error) // fecha de pago descendente
	ListByDateRange(userID string, from, to time.Time) ([]*entity.Payment, error)
	Delete(userID, id string) error
}
