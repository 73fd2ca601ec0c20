package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ArticleTypeRequest alta/edición de tipo de artículo.
type ArticleTypeRequest struct {
	Nome                string          `json:"nome"`
	PercentagemComissao decimal.Decimal `json:"percentagem_comissao"`
	Ativo               *bool           `json:"ativo,omitempty"`
}

// ArticleTypeResponse tipo de artículo.
type ArticleTypeResponse struct {
	ID                  string          `json:"id"`
	Nome                string          `json:"nome"`
	PercentagemComissao decimal.Decimal `json:"percentagem_comissao"`
	Ativo               bool            `json:"ativo"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// RuleChangeResponse una entrada del histórico de cambios de porcentaje.
type RuleChangeResponse struct {
	ID             string           `json:"id"`
	ArticleTypeID  string           `json:"article_type_id"`
	OldPercentagem *decimal.Decimal `json:"old_percentagem,omitempty"`
	NewPercentagem decimal.Decimal  `json:"new_percentagem"`
	ChangedAt      time.Time        `json:"changed_at"`
}
