// Package articletypes contiene los casos de uso de tipos de artículo y su
// histórico de reglas de comisión.
package articletypes

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/comi-api/internal/application/dto"
	"github.com/jhoicas/comi-api/internal/domain"
	"github.com/jhoicas/comi-api/internal/domain/entity"
	"github.com/jhoicas/comi-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// UseCase casos de uso de ArticleType.
type UseCase struct {
	repo repository.ArticleTypeRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ArticleTypeRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Create crea un tipo de artículo y la primera entrada de su histórico de
// reglas de comisión.
func (uc *UseCase) Create(userID string, in dto.ArticleTypeRequest) (*dto.ArticleTypeResponse, error) {
	if in.Nome == "" || outOfRange(in.PercentagemComissao) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	ativo := true
	if in.Ativo != nil {
		ativo = *in.Ativo
	}
	t := &entity.ArticleType{
		ID:                  uuid.New().String(),
		UserID:              userID,
		Nome:                in.Nome,
		PercentagemComissao: in.PercentagemComissao,
		Ativo:               ativo,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.repo.Create(t); err != nil {
		return nil, err
	}
	change := &entity.CommissionRuleChange{
		ID:             uuid.New().String(),
		ArticleTypeID:  t.ID,
		UserID:         userID,
		OldPercentagem: nil,
		NewPercentagem: t.PercentagemComissao,
		ChangedAt:      now,
	}
	if err := uc.repo.CreateRuleChange(change); err != nil {
		return nil, err
	}
	return toResponse(t), nil
}

// Update edita un tipo. Si el porcentaje cambia, añade una fila al histórico.
// Las líneas ya existentes no se ven afectadas: llevan snapshot.
func (uc *UseCase) Update(userID, id string, in dto.ArticleTypeRequest) (*dto.ArticleTypeResponse, error) {
	if in.Nome == "" || outOfRange(in.PercentagemComissao) {
		return nil, domain.ErrInvalidInput
	}
	t, err := uc.repo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}

	oldPct := t.PercentagemComissao
	t.Nome = in.Nome
	t.PercentagemComissao = in.PercentagemComissao
	if in.Ativo != nil {
		t.Ativo = *in.Ativo
	}
	t.UpdatedAt = time.Now()

	if err := uc.repo.Update(t); err != nil {
		return nil, err
	}
	if !oldPct.Equal(t.PercentagemComissao) {
		change := &entity.CommissionRuleChange{
			ID:             uuid.New().String(),
			ArticleTypeID:  t.ID,
			UserID:         userID,
			OldPercentagem: &oldPct,
			NewPercentagem: t.PercentagemComissao,
			ChangedAt:      t.UpdatedAt,
		}
		if err := uc.repo.CreateRuleChange(change); err != nil {
			return nil, err
		}
	}
	return toResponse(t), nil
}

// List lista los tipos del usuario.
func (uc *UseCase) List(userID string, onlyActive bool) ([]*dto.ArticleTypeResponse, error) {
	list, err := uc.repo.ListByUser(userID, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ArticleTypeResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toResponse(t))
	}
	return out, nil
}

// Get devuelve un tipo por id.
func (uc *UseCase) Get(userID, id string) (*dto.ArticleTypeResponse, error) {
	t, err := uc.repo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(t), nil
}

// Delete elimina el tipo. Si alguna línea de venta todavía lo referencia, el
// tipo se desactiva en vez de borrarse; las líneas conservan su snapshot.
func (uc *UseCase) Delete(userID, id string) error {
	err := uc.repo.Delete(userID, id)
	if err == nil || !errors.Is(err, domain.ErrConflict) {
		return err
	}
	t, err := uc.repo.GetByID(userID, id)
	if err != nil {
		return err
	}
	if t == nil {
		return domain.ErrNotFound
	}
	t.Ativo = false
	t.UpdatedAt = time.Now()
	return uc.repo.Update(t)
}

// History devuelve el histórico de cambios de porcentaje de un tipo.
func (uc *UseCase) History(userID, id string) ([]*dto.RuleChangeResponse, error) {
	changes, err := uc.repo.ListRuleChanges(userID, id)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.RuleChangeResponse, 0, len(changes))
	for _, c := range changes {
		out = append(out, &dto.RuleChangeResponse{
			ID:             c.ID,
			ArticleTypeID:  c.ArticleTypeID,
			OldPercentagem: c.OldPercentagem,
			NewPercentagem: c.NewPercentagem,
			ChangedAt:      c.ChangedAt,
		})
	}
	return out, nil
}

func toResponse(t *entity.ArticleType) *dto.ArticleTypeResponse {
	return &dto.ArticleTypeResponse{
		ID:                  t.ID,
		Nome:                t.Nome,
		PercentagemComissao: t.PercentagemComissao,
		Ativo:               t.Ativo,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

func outOfRange(pct decimal.Decimal) bool {
	return pct.IsNegative() || pct.GreaterThan(hundred)
}
