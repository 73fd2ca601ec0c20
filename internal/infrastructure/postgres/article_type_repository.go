package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/comi-api/internal/domain"
	"github.com/jhoicas/comi-api/internal/domain/entity"
	"github.com/jhoicas/comi-api/internal/domain/repository"
)

var _ repository.ArticleTypeRepository = (*ArticleTypeRepo)(nil)

// ArticleTypeRepo implementación de ArticleTypeRepository (usable con pool o tx).
type ArticleTypeRepo struct {
	q Querier
}

// NewArticleTypeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewArticleTypeRepository(q Querier) *ArticleTypeRepo {
	return &ArticleTypeRepo{q: q}
}

// Create persiste un tipo de artículo.
func (r *ArticleTypeRepo) Create(t *entity.ArticleType) error {
	query := `
		INSERT INTO article_types (id, user_id, nome, percentagem_comissao, ativo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.UserID, t.Nome, t.PercentagemComissao, t.Ativo, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert article type: %w", err)
	}
	return nil
}

// GetByID obtiene un tipo de artículo del usuario.
func (r *ArticleTypeRepo) GetByID(userID, id string) (*entity.ArticleType, error) {
	query := `
		SELECT id, user_id, nome, percentagem_comissao, ativo, created_at, updated_at
		FROM article_types WHERE user_id = $1 AND id = $2`
	var t entity.ArticleType
	err := r.q.QueryRow(context.Background(), query, userID, id).Scan(
		&t.ID, &t.UserID, &t.Nome, &t.PercentagemComissao, &t.Ativo, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get article type: %w", err)
	}
	return &t, nil
}

// ListByUser lista los tipos del usuario, por nombre.
func (r *ArticleTypeRepo) ListByUser(userID string, onlyActive bool) ([]*entity.ArticleType, error) {
	query := `
		SELECT id, user_id, nome, percentagem_comissao, ativo, created_at, updated_at
		FROM article_types WHERE user_id = $1`
	if onlyActive {
		query += ` AND ativo`
	}
	query += ` ORDER BY nome`

	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list article types: %w", err)
	}
	defer rows.Close()
	var list []*entity.ArticleType
	for rows.Next() {
		var t entity.ArticleType
		if err := rows.Scan(&t.ID, &t.UserID, &t.Nome, &t.PercentagemComissao, &t.Ativo, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan article type: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// Update actualiza nombre, porcentaje y estado activo.
func (r *ArticleTypeRepo) Update(t *entity.ArticleType) error {
	query := `
		UPDATE article_types SET nome = $3, percentagem_comissao = $4, ativo = $5, updated_at = $6
		WHERE user_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query,
		t.UserID, t.ID, t.Nome, t.PercentagemComissao, t.Ativo, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update article type: %w", err)
	}
	return nil
}

// Delete elimina un tipo. Falla con ErrConflict si una línea aún lo referencia.
func (r *ArticleTypeRepo) Delete(userID, id string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM article_types WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete article type: %w", err)
	}
	return nil
}

// CreateRuleChange añade una fila al histórico de cambios de porcentaje.
func (r *ArticleTypeRepo) CreateRuleChange(c *entity.CommissionRuleChange) error {
	query := `
		INSERT INTO commission_rule_changes (id, article_type_id, user_id, old_percentagem, new_percentagem, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.ArticleTypeID, c.UserID, c.OldPercentagem, c.NewPercentagem, c.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("insert rule change: %w", err)
	}
	return nil
}

// ListRuleChanges lista el histórico de un tipo, más reciente primero.
func (r *ArticleTypeRepo) ListRuleChanges(userID, articleTypeID string) ([]*entity.CommissionRuleChange, error) {
	query := `
		SELECT id, article_type_id, user_id, old_percentagem, new_percentagem, changed_at
		FROM commission_rule_changes
		WHERE user_id = $1 AND article_type_id = $2
		ORDER BY changed_at DESC`
	rows, err := r.q.Query(context.Background(), query, userID, articleTypeID)
	if err != nil {
		return nil, fmt.Errorf("list rule changes: %w", err)
	}
	defer rows.Close()
	var list []*entity.CommissionRuleChange
	for rows.Next() {
		var c entity.CommissionRuleChange
		if err := rows.Scan(&c.ID, &c.ArticleTypeID, &c.UserID, &c.OldPercentagem, &c.NewPercentagem, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan rule change: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
