package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/comi-api/internal/domain/entity"
)

// SortPreference es la preferencia de ordenación de listados de ventas. Se
// pasa explícitamente por petición: no existe estado de ordenación ambiente.
type SortPreference struct {
	Field      string // data_venda | numero_fatura | valor_total | comissao_total | estado
	Descending bool
}

// DefaultSort ordena por fecha de venta descendente.
func DefaultSort() SortPreference {
	return SortPreference{Field: "data_venda", Descending: true}
}

// SaleFilter filtros opcionales para listados de ventas.
type SaleFilter struct {
	Estado   string // vacío = todos
	ClientID string // vacío = todos
}

// OverdueSale es una fila de venta vencida con el nombre del cliente ya
// resuelto, para el evaluador de alertas de cobranza.
type OverdueSale struct {
	SaleID       string
	NumeroFatura string
	DataVenda    time.Time
	ClienteNome  string
	ValorTotal   decimal.Decimal
}

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
//
// Las mutaciones de líneas y la actualización de totales denormalizados deben
// ejecutarse dentro de una misma transacción (ver sales.TxRunner): reemplazar
// líneas y recalcular sumas es una única unidad lógica.
type SaleRepository interface {
	Create(s *entity.Sale) error
	Update(s *entity.Sale) error
	UpdateEstado(userID, id, estado string) error
	// UpdateSettlement fija el flag de liquidación de comisión y su período
	// tipado (nil al deshacer).
	UpdateSettlement(userID, id string, settled bool, period *entity.Period) error
	GetByID(userID, id string) (*entity.Sale, error)
	Delete(userID, id string) error

	CreateLine(l *entity.SaleLine) error
	DeleteLinesBySale(saleID string) error
	GetLinesBySale(saleID string) ([]*entity.SaleLine, error)
	ListLinesByUser(userID string) ([]*entity.SaleLine, error)

	ListByUser(userID string, filter SaleFilter, sort SortPreference, limit, offset int) ([]*entity.Sale, error)
	// ListAllByUser devuelve todas las ventas del usuario sin paginar, para
	// agregados (resumen, previsión, evolución mensual).
	ListAllByUser(userID string) ([]*entity.Sale, error)
	ListByDateRange(userID string, from, to time.Time) ([]*entity.Sale, error)
	CountByClient(userID, clientID string) (int, error)

	// Consultas de reconciliación.
	ListPendingSettlement(userID string) ([]*entity.Sale, error) // estado=pago y no liquidadas
	ListSettled(userID string) ([]*entity.Sale, error)

	// ListOverdueUnpaid devuelve las ventas no pagadas con data_venda anterior
	// a before, con el nombre del cliente resuelto.
	ListOverdueUnpaid(userID string, before time.Time) ([]*OverdueSale, error)
}
