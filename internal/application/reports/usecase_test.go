package reports_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comi-api/internal/application/dto"
	"github.com/jhoicas/comi-api/internal/application/reports"
	"github.com/jhoicas/comi-api/internal/domain"
	"github.com/jhoicas/comi-api/internal/domain/entity"
	"github.com/jhoicas/comi-api/internal/domain/repository"
)

const testUserID = "00000000-0000-0000-0000-000000000001"

func dec(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// ResolvePeriod
// ──────────────────────────────────────────────────────────────────────────────

func TestResolvePeriod_EsteMesPorDefecto(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	for _, periodo := range []string{"", dto.PeriodoEsteMes} {
		from, to, err := reports.ResolvePeriod(dto.ReportRequest{Periodo: periodo}, now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC), to)
	}
}

// mes_passado cubre el mes calendario anterior completo, también cruzando el año.
func TestResolvePeriod_MesPassadoCruzaAnio(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	from, to, err := reports.ResolvePeriod(dto.ReportRequest{Periodo: dto.PeriodoMesPassado}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), to)
}

func TestResolvePeriod_AnoCorrente(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	from, _, err := reports.ResolvePeriod(dto.ReportRequest{Periodo: dto.PeriodoAnoCorrente}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), from)
}

func TestResolvePeriod_PersonalizadoValidaFechas(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	cases := []dto.ReportRequest{
		{Periodo: dto.PeriodoPersonalizado},                                                        // sin fechas
		{Periodo: dto.PeriodoPersonalizado, DataInicio: "2026-02-01"},                              // falta fin
		{Periodo: dto.PeriodoPersonalizado, DataInicio: "01/02/2026", DataFim: "2026-02-28"},       // formato
		{Periodo: dto.PeriodoPersonalizado, DataInicio: "2026-02-28", DataFim: "2026-02-01"},       // invertido
		{Periodo: "trimestre"},                                                                     // desconocido
	}
	for _, req := range cases {
		_, _, err := reports.ResolvePeriod(req, now)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", req)
	}
}

func TestResolvePeriod_PersonalizadoIncluyeElDiaFinal(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	from, to, err := reports.ResolvePeriod(dto.ReportRequest{
		Periodo:    dto.PeriodoPersonalizado,
		DataInicio: "2026-02-01",
		DataFim:    "2026-02-10",
	}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 2, 10, 23, 59, 59, 0, time.UTC), to)
}

// ──────────────────────────────────────────────────────────────────────────────
// Build
// ──────────────────────────────────────────────────────────────────────────────

type fakeSaleRepo struct {
	repository.SaleRepository
	sales []*entity.Sale
	lines map[string][]*entity.SaleLine
}

func (f *fakeSaleRepo) ListByDateRange(userID string, from, to time.Time) ([]*entity.Sale, error) {
	out := []*entity.Sale{}
	for _, s := range f.sales {
		if !s.DataVenda.Before(from) && !s.DataVenda.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSaleRepo) GetLinesBySale(saleID string) ([]*entity.SaleLine, error) {
	return f.lines[saleID], nil
}

type fakeClientRepo struct {
	repository.ClientRepository
}

func (f *fakeClientRepo) GetByID(userID, id string) (*entity.Client, error) {
	return &entity.Client{ID: id, UserID: userID, Nome: "Cliente Teste"}, nil
}

type fakePaymentRepo struct {
	repository.PaymentRepository
	payments []*entity.Payment
}

func (f *fakePaymentRepo) ListByDateRange(userID string, from, to time.Time) ([]*entity.Payment, error) {
	return f.payments, nil
}

func TestBuild_TotalesYFilasDeExportacion(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	pv := dec("120")
	pc := dec("100")
	sale := &entity.Sale{
		ID:            "v1",
		UserID:        testUserID,
		ClientID:      "cli-1",
		NumeroFatura:  "FT 2026/001",
		DataVenda:     time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		Estado:        entity.EstadoPago,
		ValorTotal:    dec("240"),
		LucroTotal:    dec("40"),
		ComissaoTotal: dec("4"),
	}
	line := &entity.SaleLine{
		ID:                  "l1",
		SaleID:              "v1",
		Artigo:              "Sofá",
		Quantidade:          dec("2"),
		PrecoVenda:          &pv,
		PrecoCusto:          &pc,
		PercentagemComissao: dec("10"),
		LucroCalculado:      dec("40"),
		ComissaoCalculada:   dec("4"),
	}
	lineSemCusto := &entity.SaleLine{
		ID:                  "l2",
		SaleID:              "v1",
		Artigo:              "Tapete",
		Quantidade:          dec("1"),
		PrecoVenda:          &pv,
		PercentagemComissao: dec("10"),
		LucroCalculado:      dec("15"),
		ComissaoCalculada:   dec("1.5"),
	}
	outOfRange := &entity.Sale{
		ID:        "v2",
		UserID:    testUserID,
		ClientID:  "cli-1",
		DataVenda: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}

	uc := reports.NewUseCase(
		&fakeSaleRepo{sales: []*entity.Sale{sale, outOfRange}, lines: map[string][]*entity.SaleLine{"v1": {line, lineSemCusto}}},
		&fakeClientRepo{},
		&fakePaymentRepo{payments: []*entity.Payment{{ID: "p1", Valor: dec("3.5")}}},
	)

	got, err := uc.Build(testUserID, dto.ReportRequest{Periodo: dto.PeriodoEsteMes}, now)
	require.NoError(t, err)

	assert.True(t, dec("240").Equal(got.TotalVendido))
	assert.True(t, dec("40").Equal(got.TotalLucro))
	assert.True(t, dec("4").Equal(got.TotalComissao))
	assert.True(t, dec("3.5").Equal(got.TotalRecebido))

	require.Len(t, got.Vendas, 1, "la venta de enero queda fuera del rango")
	assert.Equal(t, "Cliente Teste", got.Vendas[0].ClienteNome)

	require.Len(t, got.Linhas, 2)
	row := got.Linhas[0]
	assert.Equal(t, "05/03/2026", row.Data)
	assert.Equal(t, "Sofá", row.Artigo)
	assert.True(t, dec("240").Equal(row.Valor), "valor = PV × q")
	assert.True(t, dec("100").Equal(row.Custo), "custo = preço de custo unitário")
	assert.Equal(t, entity.EstadoPago, row.Estado)

	assert.True(t, got.Linhas[1].Custo.IsZero(), "sin preço de custo la columna exporta 0")
}
