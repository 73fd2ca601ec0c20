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

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// NamesByIDs resuelve los nombres de un conjunto de clientes en una sola
// consulta.
func (r *ClientRepo) NamesByIDs(userID string, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	rows, err := r.q.Query(context.Background(),
		`SELECT id, nome FROM clients WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("client names: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, nome string
		if err := rows.Scan(&id, &nome); err != nil {
			return nil, fmt.Errorf("scan client name: %w", err)
		}
		names[id] = nome
	}
	return names, rows.Err()
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(c *entity.Client) error {
	query := `
		INSERT INTO clients (id, user_id, nome, nif, email, telefone, morada, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.UserID, c.Nome, nullIfEmpty(c.NIF), nullIfEmpty(c.Email),
		nullIfEmpty(c.Telefone), nullIfEmpty(c.Morada), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente del usuario.
func (r *ClientRepo) GetByID(userID, id string) (*entity.Client, error) {
	query := `
		SELECT id, user_id, nome, COALESCE(nif, ''), COALESCE(email, ''),
		       COALESCE(telefone, ''), COALESCE(morada, ''), created_at, updated_at
		FROM clients WHERE user_id = $1 AND id = $2`
	var c entity.Client
	err := r.q.QueryRow(context.Background(), query, userID, id).Scan(
		&c.ID, &c.UserID, &c.Nome, &c.NIF, &c.Email, &c.Telefone, &c.Morada, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

// ListByUser lista clientes del usuario con paginación, por nombre.
func (r *ClientRepo) ListByUser(userID string, limit, offset int) ([]*entity.Client, error) {
	query := `
		SELECT id, user_id, nome, COALESCE(nif, ''), COALESCE(email, ''),
		       COALESCE(telefone, ''), COALESCE(morada, ''), created_at, updated_at
		FROM clients WHERE user_id = $1 ORDER BY nome LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.UserID, &c.Nome, &c.NIF, &c.Email, &c.Telefone, &c.Morada, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza un cliente.
func (r *ClientRepo) Update(c *entity.Client) error {
	query := `
		UPDATE clients SET nome = $3, nif = $4, email = $5, telefone = $6, morada = $7, updated_at = $8
		WHERE user_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query,
		c.UserID, c.ID, c.Nome, nullIfEmpty(c.NIF), nullIfEmpty(c.Email),
		nullIfEmpty(c.Telefone), nullIfEmpty(c.Morada), c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// Delete elimina un cliente del usuario.
func (r *ClientRepo) Delete(userID, id string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM clients WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrClientInUse
		}
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}
