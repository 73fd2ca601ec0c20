package dto

import "github.com/shopspring/decimal"

// SummaryDTO KPIs de comisiones del dashboard.
type SummaryDTO struct {
	Pendente  decimal.Decimal `json:"pendente"`
	Validada  decimal.Decimal `json:"validada"`
	Recebida  decimal.Decimal `json:"recebida"`
	Diferenca decimal.Decimal `json:"diferenca"`
}

// MonthlyPointDTO un punto de la serie de evolución mensual.
type MonthlyPointDTO struct {
	Mes      string          `json:"mes"` // ej. "mar 26"
	Comissao decimal.Decimal `json:"comissao"`
	Lucro    decimal.Decimal `json:"lucro"`
}

// TypeValueDTO comisión agregada de un tipo de artículo (gráfico de tarta).
type TypeValueDTO struct {
	Tipo  string          `json:"tipo"`
	Valor decimal.Decimal `json:"valor"`
}

// DashboardDTO respuesta completa del dashboard.
type DashboardDTO struct {
	Resumo          SummaryDTO        `json:"resumo"`
	PrevisaoMensal  decimal.Decimal   `json:"previsao_mensal"`
	TaxaConversao   decimal.Decimal   `json:"taxa_conversao"`
	EvolucaoMensal  []MonthlyPointDTO `json:"evolucao_mensal"`
	ComissoesPorTipo []TypeValueDTO   `json:"comissoes_por_tipo"`
}
