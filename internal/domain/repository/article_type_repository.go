package repository

import "github.com/jhoicas/comi-api/internal/domain/entity"

// ArticleTypeRepository define el puerto de persistencia para ArticleType y su
// histórico de cambios de porcentaje.
type ArticleTypeRepository interface {
	Create(t *entity.ArticleType) error
	GetByID(userID, id string) (*entity.ArticleType, error)
	ListByUser(userID string, onlyActive bool) ([]*entity.ArticleType, error)
	Update(t *entity.ArticleType) error
	// Delete elimina el tipo. Las líneas históricas no se ven afectadas:
	// llevan el porcentaje como snapshot.
	Delete(userID, id string) error

	CreateRuleChange(c *entity.CommissionRuleChange) error
	ListRuleChanges(userID, articleTypeID string) ([]*entity.CommissionRuleChange, error)
}
