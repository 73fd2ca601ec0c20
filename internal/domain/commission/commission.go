package commission

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/comi-api/internal/domain/entity"
)

// Umbral de tolerancia de divergencia: se alerta solo si la diferencia supera
// el 5% o los 5 €, para no generar ruido por redondeos.
var divergenceThreshold = decimal.NewFromInt(5)

// ComputeCommission calcula la comisión a partir del lucro y el porcentaje
// snapshot. Fórmula: comissão = lucro × (percentagem ÷ 100).
func ComputeCommission(profit, percentagem decimal.Decimal) (decimal.Decimal, error) {
	if profit.IsNegative() {
		return decimal.Zero, ErrInvalidProfit
	}
	if outOfPercentRange(percentagem) {
		return decimal.Zero, ErrInvalidPercentage
	}
	return profit.Mul(percentagem.Div(hundred)), nil
}

// CommissionForProfit es la variante usada al persistir líneas: un lucro
// negativo (descuentos fuertes) produce comisión cero en lugar de error, para
// que la venta siga siendo guardable. El clamp es explícito; nunca se genera
// comisión negativa.
func CommissionForProfit(profit, percentagem decimal.Decimal) (decimal.Decimal, error) {
	if profit.IsNegative() {
		return decimal.Zero, nil
	}
	return ComputeCommission(profit, percentagem)
}

// SumCommission suma la comisión total de un conjunto de ventas.
func SumCommission(sales []*entity.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.ComissaoTotal)
	}
	return total
}

// PendingCommission suma la comisión de las ventas aún no pagadas por el cliente.
func PendingCommission(sales []*entity.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		if !s.BoaCobranca() {
			total = total.Add(s.ComissaoTotal)
		}
	}
	return total
}

// ValidatedCommission suma la comisión de las ventas en boa cobrança (pagadas).
func ValidatedCommission(sales []*entity.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		if s.BoaCobranca() {
			total = total.Add(s.ComissaoTotal)
		}
	}
	return total
}

// ReceivedTotal suma los pagos manuales registrados.
func ReceivedTotal(payments []*entity.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Valor)
	}
	return total
}

// Summary es el resumen de comisiones del comercial.
type Summary struct {
	Pendente  decimal.Decimal
	Validada  decimal.Decimal
	Recebida  decimal.Decimal
	Diferenca decimal.Decimal // Validada - Recebida
}

// Summarize construye el resumen completo: pendiente, validada, recibida y
// diferencia. Reducción pura, sin efectos.
func Summarize(sales []*entity.Sale, payments []*entity.Payment) Summary {
	pendente := PendingCommission(sales)
	validada := ValidatedCommission(sales)
	recebida := ReceivedTotal(payments)
	return Summary{
		Pendente:  pendente,
		Validada:  validada,
		Recebida:  recebida,
		Diferenca: validada.Sub(recebida),
	}
}

// Divergence es la diferencia entre comisión esperada y recibida.
type Divergence struct {
	Divergence decimal.Decimal // recibida - esperada
	Pct        decimal.Decimal // 0 si esperada == 0
	Flagged    bool
}

// ComputeDivergence calcula la divergencia entre lo esperado y lo recibido.
// Flagged solo si |pct| > 5% o |divergencia| > 5 €.
func ComputeDivergence(expected, received decimal.Decimal) Divergence {
	div := received.Sub(expected)
	pct := decimal.Zero
	if expected.GreaterThan(decimal.Zero) {
		pct = div.Div(expected).Mul(hundred)
	}
	flagged := pct.Abs().GreaterThan(divergenceThreshold) ||
		div.Abs().GreaterThan(divergenceThreshold)
	return Divergence{Divergence: div, Pct: pct, Flagged: flagged}
}

// ShouldAlertDivergence indica si la divergencia supera la banda de tolerancia.
func ShouldAlertDivergence(expected, received decimal.Decimal) bool {
	return ComputeDivergence(expected, received).Flagged
}

// TypeSummary agrega líneas por tipo de artículo.
//
// PercentagemMedia es la media aritmética de los snapshots por línea, no una
// media ponderada por lucro: simplicidad deliberada.
type TypeSummary struct {
	ArticleTypeID    string
	Nome             string
	Count            int
	TotalQuantidade  decimal.Decimal
	TotalLucro       decimal.Decimal
	TotalComissao    decimal.Decimal
	PercentagemMedia decimal.Decimal
}

// GroupCommissionByType agrupa las líneas por tipo de artículo. typeNames
// mapea id→nombre; los tipos desconocidos se reportan como "Desconhecido".
// El resultado se ordena por comisión total descendente para ser determinista.
func GroupCommissionByType(lines []*entity.SaleLine, typeNames map[string]string) []TypeSummary {
	acc := make(map[string]*TypeSummary)
	order := make([]string, 0)

	for _, line := range lines {
		ts, ok := acc[line.ArticleTypeID]
		if !ok {
			nome := typeNames[line.ArticleTypeID]
			if nome == "" {
				nome = "Desconhecido"
			}
			ts = &TypeSummary{ArticleTypeID: line.ArticleTypeID, Nome: nome}
			acc[line.ArticleTypeID] = ts
			order = append(order, line.ArticleTypeID)
		}
		ts.Count++
		ts.TotalQuantidade = ts.TotalQuantidade.Add(line.Quantidade)
		ts.TotalLucro = ts.TotalLucro.Add(line.LucroCalculado)
		ts.TotalComissao = ts.TotalComissao.Add(line.ComissaoCalculada)
		ts.PercentagemMedia = ts.PercentagemMedia.Add(line.PercentagemComissao)
	}

	out := make([]TypeSummary, 0, len(order))
	for _, id := range order {
		ts := acc[id]
		ts.PercentagemMedia = ts.PercentagemMedia.Div(decimal.NewFromInt(int64(ts.Count)))
		out = append(out, *ts)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalComissao.GreaterThan(out[j].TotalComissao)
	})
	return out
}

// ForecastMonthly estima la comisión mensual como media de los últimos
// monthsWindow meses con ventas validadas (boa cobrança). 0 si no hay datos.
func ForecastMonthly(sales []*entity.Sale, monthsWindow int) decimal.Decimal {
	if monthsWindow <= 0 {
		monthsWindow = 3
	}
	byMonth := make(map[string]decimal.Decimal)
	for _, s := range sales {
		if !s.BoaCobranca() {
			continue
		}
		key := s.DataVenda.Format("2006-01")
		byMonth[key] = byMonth[key].Add(s.ComissaoTotal)
	}
	if len(byMonth) == 0 {
		return decimal.Zero
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	if len(keys) > monthsWindow {
		keys = keys[:monthsWindow]
	}

	total := decimal.Zero
	for _, k := range keys {
		total = total.Add(byMonth[k])
	}
	return total.Div(decimal.NewFromInt(int64(len(keys))))
}

// ConversionRate devuelve el porcentaje de ventas pagadas sobre el total.
// 0 si no hay ventas.
func ConversionRate(sales []*entity.Sale) decimal.Decimal {
	if len(sales) == 0 {
		return decimal.Zero
	}
	paid := 0
	for _, s := range sales {
		if s.BoaCobranca() {
			paid++
		}
	}
	return decimal.NewFromInt(int64(paid)).
		Div(decimal.NewFromInt(int64(len(sales)))).
		Mul(hundred)
}
