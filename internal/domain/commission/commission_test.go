package commission_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/comi-api/internal/domain/commission"
	"github.com/jhoicas/comi-api/internal/domain/entity"
)

func sale(estado string, comissao string, dataVenda time.Time) *entity.Sale {
	return &entity.Sale{
		ID:            "v-" + comissao + "-" + estado,
		Estado:        estado,
		ComissaoTotal: dec(comissao),
		DataVenda:     dataVenda,
	}
}

// ── ComputeCommission ─────────────────────────────────────────────────────────

func TestComputeCommission_Formula(t *testing.T) {
	c, err := commission.ComputeCommission(dec("60"), dec("10"))
	require.NoError(t, err)
	assert.True(t, c.Equal(dec("6")), "60 × 10% = 6")
}

// Linealidad en ambos argumentos y casos frontera de porcentaje.
func TestComputeCommission_Linealidad(t *testing.T) {
	base, err := commission.ComputeCommission(dec("35"), dec("12"))
	require.NoError(t, err)
	double, err := commission.ComputeCommission(dec("70"), dec("12"))
	require.NoError(t, err)
	assert.True(t, double.Equal(base.Mul(dec("2"))), "comissão(2p) = 2 × comissão(p)")

	zero, err := commission.ComputeCommission(dec("35"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, zero.IsZero(), "0% produce comisión 0")

	full, err := commission.ComputeCommission(dec("35"), dec("100"))
	require.NoError(t, err)
	assert.True(t, full.Equal(dec("35")), "100% produce el lucro completo")
}

func TestComputeCommission_Errores(t *testing.T) {
	_, err := commission.ComputeCommission(dec("-1"), dec("10"))
	assert.ErrorIs(t, err, commission.ErrInvalidProfit)

	_, err = commission.ComputeCommission(dec("10"), dec("-1"))
	assert.ErrorIs(t, err, commission.ErrInvalidPercentage)

	_, err = commission.ComputeCommission(dec("10"), dec("101"))
	assert.ErrorIs(t, err, commission.ErrInvalidPercentage)
}

// El clamp de persistencia: lucro negativo produce comisión cero, no error ni
// comisión negativa.
func TestCommissionForProfit_ClampDeNegativos(t *testing.T) {
	c, err := commission.CommissionForProfit(dec("-40"), dec("10"))
	require.NoError(t, err)
	assert.True(t, c.IsZero())

	c, err = commission.CommissionForProfit(dec("40"), dec("10"))
	require.NoError(t, err)
	assert.True(t, c.Equal(dec("4")))
}

// ── Resumen ──────────────────────────────────────────────────────────────────

func TestSummarize_PendenteValidadaRecebidaDiferenca(t *testing.T) {
	now := time.Now()
	sales := []*entity.Sale{
		sale(entity.EstadoPago, "6", now),
		sale(entity.EstadoPendente, "10", now),
		sale(entity.EstadoParcial, "4", now),
	}
	payments := []*entity.Payment{
		{Valor: dec("2")},
		{Valor: dec("1.5")},
	}

	s := commission.Summarize(sales, payments)
	assert.True(t, s.Pendente.Equal(dec("14")), "pendente = ventas no pagadas")
	assert.True(t, s.Validada.Equal(dec("6")), "validada = ventas en boa cobrança")
	assert.True(t, s.Recebida.Equal(dec("3.5")))
	assert.True(t, s.Diferenca.Equal(s.Validada.Sub(s.Recebida)), "diferença = validada − recebida, siempre")
}

func TestSummarize_Vacio(t *testing.T) {
	s := commission.Summarize(nil, nil)
	assert.True(t, s.Pendente.IsZero())
	assert.True(t, s.Validada.IsZero())
	assert.True(t, s.Recebida.IsZero())
	assert.True(t, s.Diferenca.IsZero())
}

// ── Divergencia ───────────────────────────────────────────────────────────────

func TestComputeDivergence_BandaDeTolerancia(t *testing.T) {
	// Dentro de banda: 3% y 3 €
	d := commission.ComputeDivergence(dec("100"), dec("103"))
	assert.False(t, d.Flagged, "3%% / 3 € está dentro de la tolerancia")
	assert.True(t, d.Divergence.Equal(dec("3")))
	assert.True(t, d.Pct.Equal(dec("3")))

	// Supera el 5% aunque el valor absoluto sea pequeño
	d = commission.ComputeDivergence(dec("10"), dec("11"))
	assert.True(t, d.Flagged, "10%% supera la banda aunque sea solo 1 €")

	// Supera los 5 € aunque el porcentaje sea pequeño
	d = commission.ComputeDivergence(dec("1000"), dec("1006"))
	assert.True(t, d.Flagged, "6 € supera la banda aunque sea 0.6%%")
}

func TestComputeDivergence_EsperadaCero(t *testing.T) {
	d := commission.ComputeDivergence(decimal.Zero, dec("4"))
	assert.True(t, d.Pct.IsZero(), "pct = 0 cuando esperada = 0")
	assert.False(t, d.Flagged, "|4| <= 5")

	d = commission.ComputeDivergence(decimal.Zero, dec("-6"))
	assert.True(t, d.Pct.IsZero())
	assert.True(t, d.Flagged, "flagged = |recibida| > 5 cuando esperada = 0")
}

func TestShouldAlertDivergence(t *testing.T) {
	assert.False(t, commission.ShouldAlertDivergence(dec("100"), dec("100")))
	assert.True(t, commission.ShouldAlertDivergence(dec("100"), dec("110")))
}

// ── Agrupación por tipo ───────────────────────────────────────────────────────

func TestGroupCommissionByType(t *testing.T) {
	lines := []*entity.SaleLine{
		{ArticleTypeID: "hw", Quantidade: dec("2"), LucroCalculado: dec("60"), ComissaoCalculada: dec("6"), PercentagemComissao: dec("10")},
		{ArticleTypeID: "hw", Quantidade: dec("1"), LucroCalculado: dec("40"), ComissaoCalculada: dec("8"), PercentagemComissao: dec("20")},
		{ArticleTypeID: "sw", Quantidade: dec("5"), LucroCalculado: dec("10"), ComissaoCalculada: dec("1"), PercentagemComissao: dec("10")},
		{ArticleTypeID: "x", Quantidade: dec("1"), LucroCalculado: dec("5"), ComissaoCalculada: dec("0.5"), PercentagemComissao: dec("10")},
	}
	names := map[string]string{"hw": "Hardware", "sw": "Software"}

	out := commission.GroupCommissionByType(lines, names)
	require.Len(t, out, 3)

	// Ordenado por comisión total descendente
	assert.Equal(t, "Hardware", out[0].Nome)
	assert.Equal(t, 2, out[0].Count)
	assert.True(t, out[0].TotalQuantidade.Equal(dec("3")))
	assert.True(t, out[0].TotalLucro.Equal(dec("100")))
	assert.True(t, out[0].TotalComissao.Equal(dec("14")))
	// Media aritmética de los snapshots, no ponderada por lucro
	assert.True(t, out[0].PercentagemMedia.Equal(dec("15")), "media de 10 y 20 = 15")

	assert.Equal(t, "Software", out[1].Nome)
	assert.Equal(t, "Desconhecido", out[2].Nome, "tipo sin nombre conocido")
}

// ── Previsión y conversión ────────────────────────────────────────────────────

func TestForecastMonthly_MediaDeUltimosMeses(t *testing.T) {
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	oct := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)

	sales := []*entity.Sale{
		sale(entity.EstadoPago, "100", jan),
		sale(entity.EstadoPago, "200", feb),
		sale(entity.EstadoPago, "300", mar),
		sale(entity.EstadoPago, "900", oct),          // fuera de la ventana de 3
		sale(entity.EstadoPendente, "999999", mar),   // no validada, ignorada
	}

	forecast := commission.ForecastMonthly(sales, 3)
	assert.True(t, forecast.Equal(dec("200")), "media de 100, 200, 300")
}

func TestForecastMonthly_SinDatos(t *testing.T) {
	assert.True(t, commission.ForecastMonthly(nil, 3).IsZero())
	assert.True(t, commission.ForecastMonthly([]*entity.Sale{
		sale(entity.EstadoPendente, "50", time.Now()),
	}, 3).IsZero(), "solo cuentan las ventas validadas")
}

func TestConversionRate(t *testing.T) {
	now := time.Now()
	sales := []*entity.Sale{
		sale(entity.EstadoPago, "1", now),
		sale(entity.EstadoPendente, "1", now),
		sale(entity.EstadoParcial, "1", now),
		sale(entity.EstadoPago, "1", now),
	}
	rate := commission.ConversionRate(sales)
	assert.True(t, rate.Equal(dec("50")), "2 de 4 pagadas = 50%%")

	assert.True(t, commission.ConversionRate(nil).IsZero())
}
