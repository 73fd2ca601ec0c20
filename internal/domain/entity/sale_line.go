package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de cálculo de lucro de una línea. Exactamente un método es
// autoritativo por línea; los campos de los otros dos se ignoran aunque
// estén rellenos.
const (
	MetodoManual      = "manual"
	MetodoMargemCusto = "margem_custo"
	MetodoMargemVenda = "margem_venda"
)

// SaleLine representa una línea de artículo dentro de una venta.
//
// Los campos específicos de método son punteros: nil significa "no rellenado"
// (la UI permite entrada incremental de borradores). PercentagemComissao es el
// snapshot copiado del ArticleType al momento de la entrada/edición; nunca se
// vuelve a consultar el tipo.
type SaleLine struct {
	ID            string
	SaleID        string
	Artigo        string
	ArticleTypeID string
	Quantidade    decimal.Decimal
	MetodoCalculo string // manual | margem_custo | margem_venda

	// manual
	LucroManual *decimal.Decimal

	// margem_custo
	PrecoCusto       *decimal.Decimal
	PercentagemCusto *decimal.Decimal

	// margem_venda
	PrecoVenda       *decimal.Decimal
	PercentagemVenda *decimal.Decimal

	PercentagemDesconto decimal.Decimal // 0–100, 0 por defecto

	PercentagemComissao decimal.Decimal // snapshot del tipo de artículo

	// Valores calculados, cacheados; se recalculan cuando cambia cualquier input.
	LucroCalculado    decimal.Decimal
	ComissaoCalculada decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}
