package articletypes_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comi-api/internal/application/articletypes"
	"github.com/jhoicas/comi-api/internal/application/dto"
	"github.com/jhoicas/comi-api/internal/domain"
	"github.com/jhoicas/comi-api/internal/domain/entity"
	"github.com/jhoicas/comi-api/internal/domain/repository"
)

const testUserID = "00000000-0000-0000-0000-000000000001"

type fakeTypeRepo struct {
	repository.ArticleTypeRepository
	types      map[string]*entity.ArticleType
	changes    []*entity.CommissionRuleChange
	referenced map[string]bool
}

func newFakeTypeRepo() *fakeTypeRepo {
	return &fakeTypeRepo{
		types:      map[string]*entity.ArticleType{},
		referenced: map[string]bool{},
	}
}

func (f *fakeTypeRepo) Delete(userID, id string) error {
	if f.referenced[id] {
		return domain.ErrConflict
	}
	delete(f.types, id)
	return nil
}

func (f *fakeTypeRepo) Create(t *entity.ArticleType) error {
	f.types[t.ID] = t
	return nil
}

func (f *fakeTypeRepo) GetByID(userID, id string) (*entity.ArticleType, error) {
	return f.types[id], nil
}

func (f *fakeTypeRepo) Update(t *entity.ArticleType) error {
	f.types[t.ID] = t
	return nil
}

func (f *fakeTypeRepo) CreateRuleChange(c *entity.CommissionRuleChange) error {
	f.changes = append(f.changes, c)
	return nil
}

func (f *fakeTypeRepo) ListRuleChanges(userID, articleTypeID string) ([]*entity.CommissionRuleChange, error) {
	out := []*entity.CommissionRuleChange{}
	for _, c := range f.changes {
		if c.ArticleTypeID == articleTypeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func dec(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// La creación deja la primera fila del histórico, con OldPercentagem nil.
func TestCreate_AbreHistorico(t *testing.T) {
	repo := newFakeTypeRepo()
	uc := articletypes.NewUseCase(repo)

	got, err := uc.Create(testUserID, dto.ArticleTypeRequest{
		Nome:                "Móveis",
		PercentagemComissao: dec("12.5"),
	})
	require.NoError(t, err)
	assert.True(t, got.Ativo, "un tipo nace activo salvo que se indique lo contrario")

	require.Len(t, repo.changes, 1)
	assert.Nil(t, repo.changes[0].OldPercentagem)
	assert.True(t, dec("12.5").Equal(repo.changes[0].NewPercentagem))
}

func TestCreate_PorcentajeFueraDeRango(t *testing.T) {
	uc := articletypes.NewUseCase(newFakeTypeRepo())

	for _, pct := range []string{"-1", "100.01", "250"} {
		_, err := uc.Create(testUserID, dto.ArticleTypeRequest{
			Nome:                "Móveis",
			PercentagemComissao: dec(pct),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "pct %s", pct)
	}
}

// Cambiar el porcentaje añade una fila al histórico; cambiar solo el nombre, no.
func TestUpdate_HistoricoSoloSiCambiaElPorcentaje(t *testing.T) {
	repo := newFakeTypeRepo()
	uc := articletypes.NewUseCase(repo)

	created, err := uc.Create(testUserID, dto.ArticleTypeRequest{
		Nome:                "Móveis",
		PercentagemComissao: dec("10"),
	})
	require.NoError(t, err)
	require.Len(t, repo.changes, 1)

	// Solo el nombre: sin fila nueva.
	_, err = uc.Update(testUserID, created.ID, dto.ArticleTypeRequest{
		Nome:                "Móveis e Decoração",
		PercentagemComissao: dec("10"),
	})
	require.NoError(t, err)
	assert.Len(t, repo.changes, 1)

	// Porcentaje 10 → 15: fila nueva con old/new.
	_, err = uc.Update(testUserID, created.ID, dto.ArticleTypeRequest{
		Nome:                "Móveis e Decoração",
		PercentagemComissao: dec("15"),
	})
	require.NoError(t, err)
	require.Len(t, repo.changes, 2)

	change := repo.changes[1]
	require.NotNil(t, change.OldPercentagem)
	assert.True(t, dec("10").Equal(*change.OldPercentagem))
	assert.True(t, dec("15").Equal(change.NewPercentagem))

	history, err := uc.History(testUserID, created.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

// Un tipo referenciado por líneas de venta no se borra: se desactiva.
func TestDelete_TipoReferenciadoSeDesactiva(t *testing.T) {
	repo := newFakeTypeRepo()
	uc := articletypes.NewUseCase(repo)

	created, err := uc.Create(testUserID, dto.ArticleTypeRequest{
		Nome:                "Móveis",
		PercentagemComissao: dec("10"),
	})
	require.NoError(t, err)
	repo.referenced[created.ID] = true

	require.NoError(t, uc.Delete(testUserID, created.ID))

	kept, ok := repo.types[created.ID]
	require.True(t, ok, "el tipo referenciado debe seguir existiendo")
	assert.False(t, kept.Ativo)
}

func TestDelete_TipoSinReferencias(t *testing.T) {
	repo := newFakeTypeRepo()
	uc := articletypes.NewUseCase(repo)

	created, err := uc.Create(testUserID, dto.ArticleTypeRequest{
		Nome:                "Móveis",
		PercentagemComissao: dec("10"),
	})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(testUserID, created.ID))
	assert.NotContains(t, repo.types, created.ID)
}

func TestUpdate_TipoInexistente(t *testing.T) {
	uc := articletypes.NewUseCase(newFakeTypeRepo())

	_, err := uc.Update(testUserID, "tipo-fantasma", dto.ArticleTypeRequest{
		Nome:                "Móveis",
		PercentagemComissao: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
