package sales

import (
	"context"

	"github.com/jhoicas/comi-api/internal/domain/repository"
)

// TxRunner ejecuta un callback con un SaleRepository atado a una transacción.
// Reemplazar líneas y reescribir los totales denormalizados de la venta es una
// única unidad lógica: o se persiste todo o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(saleRepo repository.SaleRepository) error) error
}
