package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comi-api/internal/application/dto"
	"github.com/jhoicas/comi-api/internal/application/sales"
	"github.com/jhoicas/comi-api/internal/domain"
	"github.com/jhoicas/comi-api/internal/domain/commission"
	"github.com/jhoicas/comi-api/internal/domain/entity"
	"github.com/jhoicas/comi-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. Embeben la interfaz para no implementar métodos que el
// caso de uso no toca (si se llaman, el test revienta con panic, que es lo
// que queremos).
// ──────────────────────────────────────────────────────────────────────────────

const testUserID = "00000000-0000-0000-0000-000000000001"

type fakeSaleRepo struct {
	repository.SaleRepository

	sales map[string]*entity.Sale
	lines map[string][]*entity.SaleLine

	lastSort   repository.SortPreference
	lastFilter repository.SaleFilter
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		sales: map[string]*entity.Sale{},
		lines: map[string][]*entity.SaleLine{},
	}
}

func (f *fakeSaleRepo) Create(s *entity.Sale) error {
	f.sales[s.ID] = s
	return nil
}

func (f *fakeSaleRepo) Update(s *entity.Sale) error {
	f.sales[s.ID] = s
	return nil
}

func (f *fakeSaleRepo) UpdateEstado(userID, id, estado string) error {
	f.sales[id].Estado = estado
	return nil
}

func (f *fakeSaleRepo) GetByID(userID, id string) (*entity.Sale, error) {
	s, ok := f.sales[id]
	if !ok || s.UserID != userID {
		return nil, nil
	}
	return s, nil
}

func (f *fakeSaleRepo) Delete(userID, id string) error {
	delete(f.sales, id)
	return nil
}

func (f *fakeSaleRepo) CreateLine(l *entity.SaleLine) error {
	f.lines[l.SaleID] = append(f.lines[l.SaleID], l)
	return nil
}

func (f *fakeSaleRepo) DeleteLinesBySale(saleID string) error {
	delete(f.lines, saleID)
	return nil
}

func (f *fakeSaleRepo) GetLinesBySale(saleID string) ([]*entity.SaleLine, error) {
	return f.lines[saleID], nil
}

func (f *fakeSaleRepo) ListByUser(userID string, filter repository.SaleFilter, sort repository.SortPreference, limit, offset int) ([]*entity.Sale, error) {
	f.lastFilter = filter
	f.lastSort = sort
	out := []*entity.Sale{}
	for _, s := range f.sales {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeTypeRepo struct {
	repository.ArticleTypeRepository
	types map[string]*entity.ArticleType
}

func (f *fakeTypeRepo) GetByID(userID, id string) (*entity.ArticleType, error) {
	return f.types[id], nil
}

type fakeClientRepo struct {
	repository.ClientRepository
	clients map[string]*entity.Client
}

func (f *fakeClientRepo) GetByID(userID, id string) (*entity.Client, error) {
	return f.clients[id], nil
}

// fakeTx ejecuta el callback directamente contra el repo dado, sin transacción.
type fakeTx struct {
	repo repository.SaleRepository
}

func (f *fakeTx) Run(ctx context.Context, fn func(repo repository.SaleRepository) error) error {
	return fn(f.repo)
}

func buildUseCase() (*sales.UseCase, *fakeSaleRepo) {
	saleRepo := newFakeSaleRepo()
	typeRepo := &fakeTypeRepo{types: map[string]*entity.ArticleType{
		"tipo-moveis": {
			ID:                  "tipo-moveis",
			UserID:              testUserID,
			Nome:                "Móveis",
			PercentagemComissao: decimal.NewFromInt(10),
			Ativo:               true,
		},
	}}
	clientRepo := &fakeClientRepo{clients: map[string]*entity.Client{
		"cli-1": {ID: "cli-1", UserID: testUserID, Nome: "Cliente Teste"},
	}}
	uc := sales.NewUseCase(saleRepo, typeRepo, clientRepo, &fakeTx{repo: saleRepo})
	return uc, saleRepo
}

func dec(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func validRequest() dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		ClientID:     "cli-1",
		NumeroFatura: "FT 2026/001",
		DataVenda:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Linhas: []dto.SaleLineRequest{
			{
				Artigo:           "Sofá",
				ArticleTypeID:    "tipo-moveis",
				Quantidade:       dec("2"),
				MetodoCalculo:    entity.MetodoMargemCusto,
				PrecoCusto:       decPtr("100"),
				PercentagemCusto: decPtr("20"),
			},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// margem_custo: PC=100, margem 20% → lucro unitario 20, PV unitario 120.
// Con q=2: lucro 40, valor 240; comisión 10% → 4.
func TestCreate_CalculaLineaYTotales(t *testing.T) {
	uc, repo := buildUseCase()

	resp, err := uc.Create(context.Background(), testUserID, validRequest())
	require.NoError(t, err)
	require.Len(t, resp.Linhas, 1)

	assert.True(t, dec("40").Equal(resp.LucroTotal), "lucro total = 40, fue %s", resp.LucroTotal)
	assert.True(t, dec("240").Equal(resp.ValorTotal), "valor total = 240, fue %s", resp.ValorTotal)
	assert.True(t, dec("4").Equal(resp.ComissaoTotal), "comisión total = 4, fue %s", resp.ComissaoTotal)

	line := resp.Linhas[0]
	assert.True(t, dec("10").Equal(line.PercentagemComissao),
		"el porcentaje del tipo debe copiarse como snapshot en la línea")
	assert.True(t, dec("40").Equal(line.LucroCalculado))
	assert.True(t, dec("4").Equal(line.ComissaoCalculada))

	// Persistencia: cabecera y líneas guardadas vía la transacción.
	require.Len(t, repo.sales, 1)
	require.Len(t, repo.lines[resp.ID], 1)
	assert.Equal(t, entity.EstadoPendente, repo.sales[resp.ID].Estado,
		"sin estado explícito la venta nace pendente")
}

// Una línea cuyo método está incompleto es un borrador válido: lucro y
// comisión cero, sin error.
func TestCreate_LineaIncompletaEsBorrador(t *testing.T) {
	uc, _ := buildUseCase()

	req := validRequest()
	req.Linhas = append(req.Linhas, dto.SaleLineRequest{
		Artigo:        "Mesa (por definir)",
		ArticleTypeID: "tipo-moveis",
		Quantidade:    dec("1"),
		MetodoCalculo: entity.MetodoManual, // sin lucro_manual
	})

	resp, err := uc.Create(context.Background(), testUserID, req)
	require.NoError(t, err)
	require.Len(t, resp.Linhas, 2)

	draft := resp.Linhas[1]
	assert.True(t, draft.LucroCalculado.IsZero())
	assert.True(t, draft.ComissaoCalculada.IsZero())

	// Los totales son solo los de la línea completa.
	assert.True(t, dec("40").Equal(resp.LucroTotal))
}

func TestCreate_CantidadInvalidaAborta(t *testing.T) {
	uc, repo := buildUseCase()

	req := validRequest()
	req.Linhas[0].Quantidade = decimal.Zero

	_, err := uc.Create(context.Background(), testUserID, req)
	require.ErrorIs(t, err, commission.ErrInvalidQuantity)
	assert.Empty(t, repo.sales, "nada debe persistirse cuando una línea es inválida")
}

func TestCreate_ClienteInexistente(t *testing.T) {
	uc, _ := buildUseCase()

	req := validRequest()
	req.ClientID = "cli-no-existe"

	_, err := uc.Create(context.Background(), testUserID, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_TipoArticuloInexistente(t *testing.T) {
	uc, _ := buildUseCase()

	req := validRequest()
	req.Linhas[0].ArticleTypeID = "tipo-no-existe"

	_, err := uc.Create(context.Background(), testUserID, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_SinLineas(t *testing.T) {
	uc, _ := buildUseCase()

	req := validRequest()
	req.Linhas = nil

	_, err := uc.Create(context.Background(), testUserID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

// La edición reemplaza TODAS las líneas y recalcula los totales.
func TestUpdate_ReemplazaLineasYRecalcula(t *testing.T) {
	uc, repo := buildUseCase()

	created, err := uc.Create(context.Background(), testUserID, validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Linhas = []dto.SaleLineRequest{
		{
			Artigo:        "Cadeira",
			ArticleTypeID: "tipo-moveis",
			Quantidade:    dec("3"),
			MetodoCalculo: entity.MetodoManual,
			LucroManual:   decPtr("15"),
		},
	}

	resp, err := uc.Update(context.Background(), testUserID, created.ID, req)
	require.NoError(t, err)

	// manual: lucro = 15 × 3 = 45; comisión 10% → 4.50.
	assert.True(t, dec("45").Equal(resp.LucroTotal), "lucro fue %s", resp.LucroTotal)
	assert.True(t, dec("4.5").Equal(resp.ComissaoTotal), "comisión fue %s", resp.ComissaoTotal)

	require.Len(t, repo.lines[created.ID], 1, "las líneas anteriores deben desaparecer")
	assert.Equal(t, "Cadeira", repo.lines[created.ID][0].Artigo)
}

func TestUpdate_VentaInexistente(t *testing.T) {
	uc, _ := buildUseCase()

	_, err := uc.Update(context.Background(), testUserID, "venta-fantasma", validRequest())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// SetEstado
// ──────────────────────────────────────────────────────────────────────────────

// El estado de cobro es un flag libre: pendente→pago y pago→pendente valen.
func TestSetEstado_CambioLibreEnAmbasDirecciones(t *testing.T) {
	uc, repo := buildUseCase()

	created, err := uc.Create(context.Background(), testUserID, validRequest())
	require.NoError(t, err)

	require.NoError(t, uc.SetEstado(testUserID, created.ID, entity.EstadoPago))
	assert.Equal(t, entity.EstadoPago, repo.sales[created.ID].Estado)

	require.NoError(t, uc.SetEstado(testUserID, created.ID, entity.EstadoPendente))
	assert.Equal(t, entity.EstadoPendente, repo.sales[created.ID].Estado)
}

func TestSetEstado_EstadoDesconocido(t *testing.T) {
	uc, _ := buildUseCase()

	created, err := uc.Create(context.Background(), testUserID, validRequest())
	require.NoError(t, err)

	err = uc.SetEstado(testUserID, created.ID, "cobrado")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// List
// ──────────────────────────────────────────────────────────────────────────────

// Un campo de ordenación desconocido cae a la ordenación por defecto
// (data_venda descendente), nunca a SQL arbitrario.
func TestList_CampoDeOrdenDesconocidoCaeAlDefecto(t *testing.T) {
	uc, repo := buildUseCase()

	_, err := uc.List(testUserID,
		repository.SaleFilter{},
		repository.SortPreference{Field: "'; DROP TABLE vendas;--", Descending: false},
		dto.PageRequest{})
	require.NoError(t, err)

	assert.Equal(t, repository.DefaultSort(), repo.lastSort)
}

func TestList_RespetaOrdenValida(t *testing.T) {
	uc, repo := buildUseCase()

	want := repository.SortPreference{Field: "comissao_total", Descending: true}
	_, err := uc.List(testUserID, repository.SaleFilter{}, want, dto.PageRequest{})
	require.NoError(t, err)

	assert.Equal(t, want, repo.lastSort)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_EliminaVentaYLineas(t *testing.T) {
	uc, repo := buildUseCase()

	created, err := uc.Create(context.Background(), testUserID, validRequest())
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), testUserID, created.ID))
	assert.Empty(t, repo.sales)
	assert.Empty(t, repo.lines[created.ID])
}
