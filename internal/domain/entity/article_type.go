package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ArticleType representa un tipo de artículo con su porcentaje de comisión.
// Las líneas de venta NO se unen en vivo con este registro: copian el
// porcentaje como snapshot al momento de la entrada, de modo que editar o
// desactivar un tipo nunca altera líneas históricas.
type ArticleType struct {
	ID                   string
	UserID               string
	Nome                 string
	PercentagemComissao  decimal.Decimal // 0–100
	Ativo                bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// CommissionRuleChange es el histórico de cambios de porcentaje de un tipo de
// artículo. Se añade una fila cada vez que cambia PercentagemComissao.
type CommissionRuleChange struct {
	ID              string
	ArticleTypeID   string
	UserID          string
	OldPercentagem  *decimal.Decimal // nil en la creación del tipo
	NewPercentagem  decimal.Decimal
	ChangedAt       time.Time
}
