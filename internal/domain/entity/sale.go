package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de cobro de una venta (pago de la factura por el cliente final).
// Son un flag de estado libre: el usuario puede moverlo en cualquier dirección.
const (
	EstadoPendente = "pendente"
	EstadoParcial  = "parcial"
	EstadoPago     = "pago" // "boa cobrança": habilita la liquidación de comisión
)

// Sale representa una factura de venta con una o más líneas.
//
// Los totales (ValorTotal, LucroTotal, ComissaoTotal) están denormalizados:
// siempre deben ser la suma de los valores calculados de las líneas actuales y
// se recalculan dentro de la misma transacción que cualquier mutación de líneas.
//
// El estado de cobro y la liquidación de comisión son ejes independientes: una
// venta puede estar pagada por el cliente sin que el comercial haya recibido
// aún su comisión.
type Sale struct {
	ID           string
	UserID       string
	ClientID     string
	NumeroFatura string
	DataVenda    time.Time
	Observacoes  string
	Estado       string // pendente | parcial | pago

	ValorTotal    decimal.Decimal
	LucroTotal    decimal.Decimal
	ComissaoTotal decimal.Decimal

	// Liquidación de comisión (reconciliación).
	ComissaoRecebidaPaga bool
	PeriodoComissao      *Period // nil mientras no esté liquidada

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BoaCobranca indica si la factura fue pagada por el cliente final, lo que
// valida su comisión.
func (s *Sale) BoaCobranca() bool {
	return s.Estado == EstadoPago
}
