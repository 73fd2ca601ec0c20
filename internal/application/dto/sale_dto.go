package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea al crear/editar una venta. Los campos de método
// son punteros: nil = no rellenado (borrador permitido).
type SaleLineRequest struct {
	Artigo        string          `json:"artigo"`
	ArticleTypeID string          `json:"tipo_artigo_id"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	MetodoCalculo string          `json:"metodo_calculo"`

	LucroManual      *decimal.Decimal `json:"lucro_manual,omitempty"`
	PrecoCusto       *decimal.Decimal `json:"preco_custo,omitempty"`
	PercentagemCusto *decimal.Decimal `json:"percentagem_custo,omitempty"`
	PrecoVenda       *decimal.Decimal `json:"preco_venda,omitempty"`
	PercentagemVenda *decimal.Decimal `json:"percentagem_venda,omitempty"`

	PercentagemDesconto decimal.Decimal `json:"percentagem_desconto"`
}

// CreateSaleRequest alta de venta con líneas.
type CreateSaleRequest struct {
	ClientID     string            `json:"cliente_id"`
	NumeroFatura string            `json:"numero_fatura"`
	DataVenda    time.Time         `json:"data_venda"`
	Observacoes  string            `json:"observacoes,omitempty"`
	Estado       string            `json:"estado,omitempty"` // pendente por defecto
	Linhas       []SaleLineRequest `json:"linhas"`
}

// UpdateSaleRequest edición: reemplaza cabecera y TODAS las líneas; los
// totales se recalculan en la misma transacción.
type UpdateSaleRequest = CreateSaleRequest

// SetEstadoRequest cambio del estado de cobro.
type SetEstadoRequest struct {
	Estado string `json:"estado"` // pendente | parcial | pago
}

// SaleLineResponse línea con valores calculados (redondeados a 2 decimales
// solo aquí, nunca en el cálculo).
type SaleLineResponse struct {
	ID            string          `json:"id"`
	Artigo        string          `json:"artigo"`
	ArticleTypeID string          `json:"tipo_artigo_id"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	MetodoCalculo string          `json:"metodo_calculo"`

	LucroManual      *decimal.Decimal `json:"lucro_manual,omitempty"`
	PrecoCusto       *decimal.Decimal `json:"preco_custo,omitempty"`
	PercentagemCusto *decimal.Decimal `json:"percentagem_custo,omitempty"`
	PrecoVenda       *decimal.Decimal `json:"preco_venda,omitempty"`
	PercentagemVenda *decimal.Decimal `json:"percentagem_venda,omitempty"`

	PercentagemDesconto decimal.Decimal `json:"percentagem_desconto"`
	PercentagemComissao decimal.Decimal `json:"percentagem_comissao_snapshot"`
	LucroCalculado      decimal.Decimal `json:"lucro_calculado"`
	ComissaoCalculada   decimal.Decimal `json:"comissao_calculada"`
}

// SaleResponse venta con totales denormalizados.
type SaleResponse struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"cliente_id"`
	ClienteNome  string    `json:"cliente_nome,omitempty"`
	NumeroFatura string    `json:"numero_fatura"`
	DataVenda    time.Time `json:"data_venda"`
	Observacoes  string    `json:"observacoes,omitempty"`
	Estado       string    `json:"estado"`

	ValorTotal    decimal.Decimal `json:"valor_total"`
	LucroTotal    decimal.Decimal `json:"lucro_total"`
	ComissaoTotal decimal.Decimal `json:"comissao_total"`

	ComissaoRecebidaPaga bool   `json:"comissao_recebida_paga"`
	PeriodoComissao      string `json:"periodo_comissao_recebida,omitempty"`

	Linhas []SaleLineResponse `json:"linhas,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
