// Package clients contiene los casos de uso de clientes.
package clients

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/comi-api/internal/application/dto"
	"github.com/jhoicas/comi-api/internal/domain"
	"github.com/jhoicas/comi-api/internal/domain/entity"
	"github.com/jhoicas/comi-api/internal/domain/repository"
)

// UseCase casos de uso de Client.
type UseCase struct {
	repo     repository.ClientRepository
	saleRepo repository.SaleRepository
}

// NewUseCase construye el caso de uso. saleRepo se usa para la política de
// borrado: un cliente con ventas no se elimina.
func NewUseCase(repo repository.ClientRepository, saleRepo repository.SaleRepository) *UseCase {
	return &UseCase{repo: repo, saleRepo: saleRepo}
}

// Create crea un cliente. Solo el nombre es obligatorio.
func (uc *UseCase) Create(userID string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if in.Nome == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	c := &entity.Client{
		ID:        uuid.New().String(),
		UserID:    userID,
		Nome:      in.Nome,
		NIF:       in.NIF,
		Email:     in.Email,
		Telefone:  in.Telefone,
		Morada:    in.Morada,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(c); err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

// Update edita un cliente.
func (uc *UseCase) Update(userID, id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if in.Nome == "" {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.repo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	c.Nome = in.Nome
	c.NIF = in.NIF
	c.Email = in.Email
	c.Telefone = in.Telefone
	c.Morada = in.Morada
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(c); err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

// List lista los clientes del usuario.
func (uc *UseCase) List(userID string, limit, offset int) ([]*dto.ClientResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toResponse(c))
	}
	return out, nil
}

// Get devuelve un cliente por id.
func (uc *UseCase) Get(userID, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(c), nil
}

// Delete elimina un cliente. Se rechaza con ErrClientInUse mientras existan
// ventas que lo referencien: nada de ids colgantes.
func (uc *UseCase) Delete(userID, id string) error {
	count, err := uc.saleRepo.CountByClient(userID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrClientInUse
	}
	return uc.repo.Delete(userID, id)
}

func toResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		Nome:      c.Nome,
		NIF:       c.NIF,
		Email:     c.Email,
		Telefone:  c.Telefone,
		Morada:    c.Morada,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
