package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarkSettledRequest liquidación de la comisión de una venta. Se acepta la
// etiqueta legible ("Março 2026") en el borde HTTP; el dominio trabaja con el
// período tipado.
type MarkSettledRequest struct {
	Periodo string `json:"periodo"`
}

// SettledSaleDTO una venta dentro de un grupo de período.
type SettledSaleDTO struct {
	SaleID        string          `json:"venda_id"`
	NumeroFatura  string          `json:"numero_fatura"`
	ClienteNome   string          `json:"cliente_nome,omitempty"`
	ComissaoTotal decimal.Decimal `json:"comissao_total"`
}

// PeriodGroupDTO ventas liquidadas agrupadas por período, con su total.
type PeriodGroupDTO struct {
	Periodo       string           `json:"periodo"` // etiqueta derivada
	TotalComissao decimal.Decimal  `json:"total_comissao"`
	Vendas        []SettledSaleDTO `json:"vendas"`
}

// PendingSettlementDTO factura pagada por el cliente, comisión aún sin liquidar.
type PendingSettlementDTO struct {
	SaleID        string          `json:"venda_id"`
	NumeroFatura  string          `json:"numero_fatura"`
	ClienteNome   string          `json:"cliente_nome,omitempty"`
	DataVenda     time.Time       `json:"data_venda"`
	ComissaoTotal decimal.Decimal `json:"comissao_total"`
}

// ReconciliationOverviewDTO la vista completa de la página de pagamentos:
// pendientes de liquidación, histórico por período, recibos manuales y totales.
type ReconciliationOverviewDTO struct {
	Pendentes  []PendingSettlementDTO `json:"pendentes"`
	Liquidadas []PeriodGroupDTO       `json:"liquidadas"`
	Manuais    []PaymentResponse      `json:"manuais"`

	TotalPendentes    decimal.Decimal `json:"total_pendentes"`
	TotalReconciliado decimal.Decimal `json:"total_reconciliado"`
	TotalManuais      decimal.Decimal `json:"total_manuais"`
	// TotalGeral = manuais + reconciliado.
	TotalGeral decimal.Decimal `json:"total_geral"`
}
