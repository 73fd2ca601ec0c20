package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest registro manual de un recibo de comisión.
type PaymentRequest struct {
	DataPagamento     time.Time       `json:"data_pagamento"`
	Valor             decimal.Decimal `json:"valor"`
	PeriodoReferencia string          `json:"periodo_referencia"`
	Observacoes       string          `json:"observacoes,omitempty"`
}

// PaymentResponse recibo manual.
type PaymentResponse struct {
	ID                string          `json:"id"`
	DataPagamento     time.Time       `json:"data_pagamento"`
	Valor             decimal.Decimal `json:"valor"`
	PeriodoReferencia string          `json:"periodo_referencia"`
	Observacoes       string          `json:"observacoes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}
