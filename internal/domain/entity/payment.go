package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment es un recibo manual de comisión: dinero que el comercial declara
// haber recibido, independiente de cualquier venta concreta. Se suma aparte de
// la reconciliación por factura.
type Payment struct {
	ID                string
	UserID            string
	DataPagamento     time.Time
	Valor             decimal.Decimal // > 0
	PeriodoReferencia string          // texto libre, ej. "Janeiro 2026"
	Observacoes       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
