package reconciliation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comi-api/internal/application/reconciliation"
	"github.com/jhoicas/comi-api/internal/domain"
	"github.com/jhoicas/comi-api/internal/domain/entity"
	"github.com/jhoicas/comi-api/internal/domain/repository"
)

const testUserID = "00000000-0000-0000-0000-000000000001"

type fakeSaleRepo struct {
	repository.SaleRepository

	sales   map[string]*entity.Sale
	pending []*entity.Sale
	settled []*entity.Sale

	settlementCalls []settlementCall
}

type settlementCall struct {
	saleID  string
	settled bool
	period  *entity.Period
}

func (f *fakeSaleRepo) GetByID(userID, id string) (*entity.Sale, error) {
	return f.sales[id], nil
}

func (f *fakeSaleRepo) UpdateSettlement(userID, id string, settled bool, period *entity.Period) error {
	f.settlementCalls = append(f.settlementCalls, settlementCall{saleID: id, settled: settled, period: period})
	return nil
}

func (f *fakeSaleRepo) ListAllByUser(userID string) ([]*entity.Sale, error) {
	out := []*entity.Sale{}
	for _, s := range f.sales {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSaleRepo) ListPendingSettlement(userID string) ([]*entity.Sale, error) {
	return f.pending, nil
}

func (f *fakeSaleRepo) ListSettled(userID string) ([]*entity.Sale, error) {
	return f.settled, nil
}

type fakeClientRepo struct {
	repository.ClientRepository
	clients  map[string]*entity.Client
	namesErr error
}

func (f *fakeClientRepo) GetByID(userID, id string) (*entity.Client, error) {
	return f.clients[id], nil
}

func (f *fakeClientRepo) NamesByIDs(userID string, ids []string) (map[string]string, error) {
	if f.namesErr != nil {
		return nil, f.namesErr
	}
	names := map[string]string{}
	for _, id := range ids {
		if c, ok := f.clients[id]; ok {
			names[id] = c.Nome
		}
	}
	return names, nil
}

type fakePaymentRepo struct {
	repository.PaymentRepository
	payments []*entity.Payment
}

func (f *fakePaymentRepo) ListByUser(userID string) ([]*entity.Payment, error) {
	return f.payments, nil
}

func dec(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func period(year int, month time.Month) *entity.Period {
	p := entity.Period{Year: year, Month: month}
	return &p
}

func sale(id, estado, comissao string) *entity.Sale {
	return &entity.Sale{
		ID:            id,
		UserID:        testUserID,
		ClientID:      "cli-1",
		NumeroFatura:  "FT " + id,
		DataVenda:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Estado:        estado,
		ComissaoTotal: dec(comissao),
	}
}

func buildUseCase(saleRepo *fakeSaleRepo, payments ...*entity.Payment) *reconciliation.UseCase {
	clientRepo := &fakeClientRepo{clients: map[string]*entity.Client{
		"cli-1": {ID: "cli-1", UserID: testUserID, Nome: "Cliente Teste"},
	}}
	return reconciliation.NewUseCase(saleRepo, clientRepo, &fakePaymentRepo{payments: payments})
}

// ──────────────────────────────────────────────────────────────────────────────
// MarkSettled / UnmarkSettled
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkSettled_VentaPagada(t *testing.T) {
	repo := &fakeSaleRepo{sales: map[string]*entity.Sale{
		"v1": sale("v1", entity.EstadoPago, "100"),
	}}
	uc := buildUseCase(repo)

	require.NoError(t, uc.MarkSettled(testUserID, "v1", "Março 2026"))

	require.Len(t, repo.settlementCalls, 1)
	call := repo.settlementCalls[0]
	assert.True(t, call.settled)
	require.NotNil(t, call.period)
	assert.Equal(t, entity.Period{Year: 2026, Month: time.March}, *call.period,
		"la etiqueta debe parsearse al período tipado")
}

// La precondición vive en el motor: una venta no pagada no se liquida, haga lo
// que haga el cliente HTTP.
func TestMarkSettled_VentaNoPagadaRechazada(t *testing.T) {
	for _, estado := range []string{entity.EstadoPendente, entity.EstadoParcial} {
		repo := &fakeSaleRepo{sales: map[string]*entity.Sale{
			"v1": sale("v1", estado, "100"),
		}}
		uc := buildUseCase(repo)

		err := uc.MarkSettled(testUserID, "v1", "Março 2026")
		assert.ErrorIs(t, err, domain.ErrSaleNotPaid, "estado %s", estado)
		assert.Empty(t, repo.settlementCalls)
	}
}

func TestMarkSettled_EtiquetaDePeriodoInvalida(t *testing.T) {
	repo := &fakeSaleRepo{sales: map[string]*entity.Sale{
		"v1": sale("v1", entity.EstadoPago, "100"),
	}}
	uc := buildUseCase(repo)

	for _, label := range []string{"", "Março", "Tricembro 2026", "Março dosmil"} {
		err := uc.MarkSettled(testUserID, "v1", label)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "etiqueta %q", label)
	}
}

func TestMarkSettled_VentaInexistente(t *testing.T) {
	uc := buildUseCase(&fakeSaleRepo{sales: map[string]*entity.Sale{}})
	err := uc.MarkSettled(testUserID, "v-fantasma", "Março 2026")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Deshacer siempre está permitido y limpia el período.
func TestUnmarkSettled_LimpiaPeriodo(t *testing.T) {
	s := sale("v1", entity.EstadoPago, "100")
	s.ComissaoRecebidaPaga = true
	s.PeriodoComissao = period(2026, time.March)
	repo := &fakeSaleRepo{sales: map[string]*entity.Sale{"v1": s}}
	uc := buildUseCase(repo)

	require.NoError(t, uc.UnmarkSettled(testUserID, "v1"))

	require.Len(t, repo.settlementCalls, 1)
	assert.False(t, repo.settlementCalls[0].settled)
	assert.Nil(t, repo.settlementCalls[0].period)
}

// ──────────────────────────────────────────────────────────────────────────────
// Summary
// ──────────────────────────────────────────────────────────────────────────────

func TestSummary_KPIs(t *testing.T) {
	repo := &fakeSaleRepo{sales: map[string]*entity.Sale{
		"v1": sale("v1", entity.EstadoPendente, "10"),
		"v2": sale("v2", entity.EstadoPago, "20"),
		"v3": sale("v3", entity.EstadoParcial, "5"),
	}}
	uc := buildUseCase(repo, &entity.Payment{ID: "p1", UserID: testUserID, Valor: dec("15")})

	got, err := uc.Summary(testUserID)
	require.NoError(t, err)

	// parcial aún no es boa cobrança: cuenta como pendiente.
	assert.True(t, dec("15").Equal(got.Pendente), "pendente fue %s", got.Pendente)
	assert.True(t, dec("20").Equal(got.Validada), "validada fue %s", got.Validada)
	assert.True(t, dec("15").Equal(got.Recebida), "recebida fue %s", got.Recebida)
	assert.True(t, dec("5").Equal(got.Diferenca), "diferença fue %s", got.Diferenca)
}

// ──────────────────────────────────────────────────────────────────────────────
// Overview
// ──────────────────────────────────────────────────────────────────────────────

func TestOverview_TotalGeralEsManuaisMasReconciliado(t *testing.T) {
	s1 := sale("v1", entity.EstadoPago, "10.555") // pendiente de liquidar
	s2 := sale("v2", entity.EstadoPago, "20")
	s2.ComissaoRecebidaPaga = true
	s2.PeriodoComissao = period(2026, time.February)

	repo := &fakeSaleRepo{
		sales:   map[string]*entity.Sale{"v1": s1, "v2": s2},
		pending: []*entity.Sale{s1},
		settled: []*entity.Sale{s2},
	}
	uc := buildUseCase(repo, &entity.Payment{ID: "p1", UserID: testUserID, Valor: dec("5")})

	got, err := uc.Overview(testUserID)
	require.NoError(t, err)

	require.Len(t, got.Pendentes, 1)
	assert.Equal(t, "Cliente Teste", got.Pendentes[0].ClienteNome)
	assert.True(t, dec("10.56").Equal(got.TotalPendentes), "redondeo solo en presentación")

	assert.True(t, dec("20").Equal(got.TotalReconciliado))
	assert.True(t, dec("5").Equal(got.TotalManuais))
	assert.True(t, dec("25").Equal(got.TotalGeral),
		"total geral = manuais + reconciliado (los pendientes NO entran)")
}

// Un fallo al resolver los nombres de cliente aborta el overview en vez de
// dejar filas con el nombre en blanco.
func TestOverview_FalloDeNombresPropagaElError(t *testing.T) {
	s1 := sale("v1", entity.EstadoPago, "10")
	repo := &fakeSaleRepo{
		sales:   map[string]*entity.Sale{"v1": s1},
		pending: []*entity.Sale{s1},
	}
	boom := errors.New("clients indisponíveis")
	uc := reconciliation.NewUseCase(repo, &fakeClientRepo{namesErr: boom}, &fakePaymentRepo{})

	_, err := uc.Overview(testUserID)
	assert.ErrorIs(t, err, boom)
}

// ──────────────────────────────────────────────────────────────────────────────
// GroupByPeriod
// ──────────────────────────────────────────────────────────────────────────────

// Orden: período más reciente primero; las ventas sin período (datos
// antiguos) al final bajo "Sem Período". La clave de orden es el par
// (año, mes), nunca la etiqueta.
func TestGroupByPeriod_OrdenYAgrupacion(t *testing.T) {
	march := sale("v1", entity.EstadoPago, "10")
	march.PeriodoComissao = period(2026, time.March)
	march2 := sale("v2", entity.EstadoPago, "7")
	march2.PeriodoComissao = period(2026, time.March)
	dec25 := sale("v3", entity.EstadoPago, "3")
	dec25.PeriodoComissao = period(2025, time.December)
	legacy := sale("v4", entity.EstadoPago, "1") // sin período

	groups := reconciliation.GroupByPeriod(
		[]*entity.Sale{legacy, dec25, march, march2},
		map[string]string{"cli-1": "Cliente Teste"},
	)

	require.Len(t, groups, 3)
	assert.Equal(t, "Março 2026", groups[0].Periodo)
	assert.Equal(t, "Dezembro 2025", groups[1].Periodo)
	assert.Equal(t, "Sem Período", groups[2].Periodo)

	assert.True(t, dec("17").Equal(groups[0].TotalComissao))
	require.Len(t, groups[0].Vendas, 2)
	assert.Equal(t, "Cliente Teste", groups[0].Vendas[0].ClienteNome)
}

// Año distinto manda sobre mes: "Dezembro 2025" es anterior a "Janeiro 2026"
// aunque alfabéticamente no lo sea.
func TestGroupByPeriod_OrdenCruzaAnios(t *testing.T) {
	jan26 := sale("v1", entity.EstadoPago, "10")
	jan26.PeriodoComissao = period(2026, time.January)
	dez25 := sale("v2", entity.EstadoPago, "5")
	dez25.PeriodoComissao = period(2025, time.December)

	groups := reconciliation.GroupByPeriod([]*entity.Sale{dez25, jan26}, nil)

	require.Len(t, groups, 2)
	assert.Equal(t, "Janeiro 2026", groups[0].Periodo)
	assert.Equal(t, "Dezembro 2025", groups[1].Periodo)
}
