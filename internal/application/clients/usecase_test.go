package clients_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/comi-api/internal/application/clients"
	"github.com/jhoicas/comi-api/internal/application/dto"
	"github.com/jhoicas/comi-api/internal/domain"
	"github.com/jhoicas/comi-api/internal/domain/entity"
	"github.com/jhoicas/comi-api/internal/domain/repository"
)

const testUserID = "00000000-0000-0000-0000-000000000001"

type fakeClientRepo struct {
	repository.ClientRepository
	clients map[string]*entity.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[string]*entity.Client{}}
}

func (f *fakeClientRepo) Create(c *entity.Client) error {
	f.clients[c.ID] = c
	return nil
}

func (f *fakeClientRepo) GetByID(userID, id string) (*entity.Client, error) {
	return f.clients[id], nil
}

func (f *fakeClientRepo) Update(c *entity.Client) error {
	f.clients[c.ID] = c
	return nil
}

func (f *fakeClientRepo) Delete(userID, id string) error {
	delete(f.clients, id)
	return nil
}

type fakeSaleRepo struct {
	repository.SaleRepository
	countByClient map[string]int
}

func (f *fakeSaleRepo) CountByClient(userID, clientID string) (int, error) {
	return f.countByClient[clientID], nil
}

func buildUseCase(counts map[string]int) (*clients.UseCase, *fakeClientRepo) {
	repo := newFakeClientRepo()
	return clients.NewUseCase(repo, &fakeSaleRepo{countByClient: counts}), repo
}

func TestCreate_SoloNombreObligatorio(t *testing.T) {
	uc, _ := buildUseCase(nil)

	got, err := uc.Create(testUserID, dto.ClientRequest{Nome: "Ana Pereira"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Pereira", got.Nome)
	assert.Empty(t, got.NIF)
	assert.NotEmpty(t, got.ID)
}

func TestCreate_SinNombre(t *testing.T) {
	uc, _ := buildUseCase(nil)

	_, err := uc.Create(testUserID, dto.ClientRequest{NIF: "123456789"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_ClienteInexistente(t *testing.T) {
	uc, _ := buildUseCase(nil)

	_, err := uc.Update(testUserID, "cli-fantasma", dto.ClientRequest{Nome: "Ana"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Un cliente con ventas asociadas no se borra: nada de ids colgantes en
// facturas históricas.
func TestDelete_ClienteConVentasRechazado(t *testing.T) {
	uc, repo := buildUseCase(map[string]int{"cli-1": 3})
	repo.clients["cli-1"] = &entity.Client{ID: "cli-1", UserID: testUserID, Nome: "Ana"}

	err := uc.Delete(testUserID, "cli-1")
	assert.ErrorIs(t, err, domain.ErrClientInUse)
	assert.Contains(t, repo.clients, "cli-1", "el cliente debe seguir existiendo")
}

func TestDelete_ClienteSinVentas(t *testing.T) {
	uc, repo := buildUseCase(nil)
	repo.clients["cli-1"] = &entity.Client{ID: "cli-1", UserID: testUserID, Nome: "Ana"}

	require.NoError(t, uc.Delete(testUserID, "cli-1"))
	assert.NotContains(t, repo.clients, "cli-1")
}
