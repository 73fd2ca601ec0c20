package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Períodos de informe soportados.
const (
	PeriodoEsteMes       = "este_mes"
	PeriodoMesPassado    = "mes_passado"
	PeriodoAnoCorrente   = "ano_corrente"
	PeriodoPersonalizado = "personalizado"
)

// ReportRequest parámetros del informe.
type ReportRequest struct {
	Periodo    string `query:"periodo"` // este_mes por defecto
	DataInicio string `query:"data_inicio"` // YYYY-MM-DD, solo personalizado
	DataFim    string `query:"data_fim"`
}

// ExportRow es una fila plana de exportación con todos los valores ya
// calculados: el renderizador externo (Excel/PDF) no necesita lógica propia.
type ExportRow struct {
	Data          string          `json:"data"` // dd/mm/aaaa
	Cliente       string          `json:"cliente"`
	Fatura        string          `json:"fatura"`
	Custo         decimal.Decimal `json:"custo"`
	Artigo        string          `json:"artigo"`
	Valor         decimal.Decimal `json:"valor"`
	LucroComissao decimal.Decimal `json:"lucro_comissao"`
	PercComissao  decimal.Decimal `json:"percentagem_comissao"`
	ComissaoTotal decimal.Decimal `json:"comissao_total"`
	Estado        string          `json:"estado"`
}

// ReportDTO informe de un período: totales y filas de exportación.
type ReportDTO struct {
	DataInicio time.Time `json:"data_inicio"`
	DataFim    time.Time `json:"data_fim"`

	TotalVendido  decimal.Decimal `json:"total_vendido"`
	TotalLucro    decimal.Decimal `json:"total_lucro"`
	TotalComissao decimal.Decimal `json:"total_comissao"`
	TotalRecebido decimal.Decimal `json:"total_recebido"`

	Vendas []SaleResponse `json:"vendas"`
	Linhas []ExportRow    `json:"linhas"`
}
