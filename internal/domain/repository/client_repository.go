package repository

import "github.com/jhoicas/comi-api/internal/domain/entity"

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(c *entity.Client) error
	GetByID(userID, id string) (*entity.Client, error)
	// NamesByIDs resuelve id → nome para un conjunto de clientes en una sola
	// consulta. Los ids inexistentes simplemente no aparecen en el mapa.
	NamesByIDs(userID string, ids []string) (map[string]string, error)
	ListByUser(userID string, limit, offset int) ([]*entity.Client, error)
	Update(c *entity.Client) error
	Delete(userID, id string) error
}
