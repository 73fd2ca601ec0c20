package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/comi-api/internal/domain"
	"github.com/jhoicas/comi-api/internal/domain/entity"
	"github.com/jhoicas/comi-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository (usable con pool o tx).
//
// El período de liquidación se persiste tipado en dos columnas enteras
// (periodo_ano, periodo_mes), ambas NULL mientras la comisión no esté
// liquidada. La etiqueta legible nunca toca la base de datos.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `
	id, user_id, client_id, numero_fatura, data_venda, COALESCE(observacoes, ''), estado,
	valor_total, lucro_total, comissao_total,
	comissao_recebida_paga, periodo_ano, periodo_mes, created_at, updated_at`

// Create persiste la cabecera de una venta.
func (r *SaleRepo) Create(s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, user_id, client_id, numero_fatura, data_venda, observacoes, estado,
		                   valor_total, lucro_total, comissao_total,
		                   comissao_recebida_paga, periodo_ano, periodo_mes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	ano, mes := periodColumns(s.PeriodoComissao)
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.UserID, s.ClientID, s.NumeroFatura, s.DataVenda, nullIfEmpty(s.Observacoes), s.Estado,
		s.ValorTotal, s.LucroTotal, s.ComissaoTotal,
		s.ComissaoRecebidaPaga, ano, mes, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// Update actualiza la cabecera y los totales denormalizados. No toca la
// liquidación: esa viaja solo por UpdateSettlement.
func (r *SaleRepo) Update(s *entity.Sale) error {
	query := `
		UPDATE sales SET client_id = $3, numero_fatura = $4, data_venda = $5, observacoes = $6,
		                 estado = $7, valor_total = $8, lucro_total = $9, comissao_total = $10,
		                 updated_at = $11
		WHERE user_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query,
		s.UserID, s.ID, s.ClientID, s.NumeroFatura, s.DataVenda, nullIfEmpty(s.Observacoes),
		s.Estado, s.ValorTotal, s.LucroTotal, s.ComissaoTotal, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

// UpdateEstado cambia solo el flag de estado de cobro.
func (r *SaleRepo) UpdateEstado(userID, id, estado string) error {
	query := `UPDATE sales SET estado = $3, updated_at = now() WHERE user_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query, userID, id, estado)
	if err != nil {
		return fmt.Errorf("update sale estado: %w", err)
	}
	return nil
}

// UpdateSettlement fija el flag de liquidación y su período (NULL al deshacer).
func (r *SaleRepo) UpdateSettlement(userID, id string, settled bool, period *entity.Period) error {
	ano, mes := periodColumns(period)
	query := `
		UPDATE sales SET comissao_recebida_paga = $3, periodo_ano = $4, periodo_mes = $5, updated_at = now()
		WHERE user_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query, userID, id, settled, ano, mes)
	if err != nil {
		return fmt.Errorf("update sale settlement: %w", err)
	}
	return nil
}

// GetByID obtiene una venta del usuario.
func (r *SaleRepo) GetByID(userID, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE user_id = $1 AND id = $2`
	row := r.q.QueryRow(context.Background(), query, userID, id)
	s, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// Delete elimina una venta del usuario.
func (r *SaleRepo) Delete(userID, id string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM sales WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

const lineColumns = `
	id, sale_id, artigo, COALESCE(article_type_id, ''), quantidade, metodo_calculo,
	lucro_manual, preco_custo, percentagem_custo, preco_venda, percentagem_venda,
	percentagem_desconto, percentagem_comissao, lucro_calculado, comissao_calculada,
	created_at, updated_at`

// CreateLine persiste una línea de venta.
func (r *SaleRepo) CreateLine(l *entity.SaleLine) error {
	query := `
		INSERT INTO sale_lines (id, sale_id, artigo, article_type_id, quantidade, metodo_calculo,
		                        lucro_manual, preco_custo, percentagem_custo, preco_venda, percentagem_venda,
		                        percentagem_desconto, percentagem_comissao, lucro_calculado, comissao_calculada,
		                        created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.SaleID, l.Artigo, nullIfEmpty(l.ArticleTypeID), l.Quantidade, l.MetodoCalculo,
		l.LucroManual, l.PrecoCusto, l.PercentagemCusto, l.PrecoVenda, l.PercentagemVenda,
		l.PercentagemDesconto, l.PercentagemComissao, l.LucroCalculado, l.ComissaoCalculada,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale line: %w", err)
	}
	return nil
}

// DeleteLinesBySale elimina todas las líneas de una venta (reemplazo total).
func (r *SaleRepo) DeleteLinesBySale(saleID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sale_lines WHERE sale_id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("delete sale lines: %w", err)
	}
	return nil
}

// GetLinesBySale lista las líneas de una venta en orden de inserción.
func (r *SaleRepo) GetLinesBySale(saleID string) ([]*entity.SaleLine, error) {
	query := `SELECT ` + lineColumns + ` FROM sale_lines WHERE sale_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	return collectLines(rows)
}

// ListLinesByUser lista todas las líneas del usuario, para los agregados por
// tipo de artículo.
func (r *SaleRepo) ListLinesByUser(userID string) ([]*entity.SaleLine, error) {
	query := `
		SELECT l.id, l.sale_id, l.artigo, COALESCE(l.article_type_id, ''), l.quantidade, l.metodo_calculo,
		       l.lucro_manual, l.preco_custo, l.percentagem_custo, l.preco_venda, l.percentagem_venda,
		       l.percentagem_desconto, l.percentagem_comissao, l.lucro_calculado, l.comissao_calculada,
		       l.created_at, l.updated_at
		FROM sale_lines l
		JOIN sales s ON s.id = l.sale_id
		WHERE s.user_id = $1`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user lines: %w", err)
	}
	return collectLines(rows)
}

// ListByUser lista ventas con filtro, ordenación explícita y paginación.
func (r *SaleRepo) ListByUser(userID string, filter repository.SaleFilter, sort repository.SortPreference, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE user_id = $1`
	args := []any{userID}
	if filter.Estado != "" {
		args = append(args, filter.Estado)
		query += fmt.Sprintf(" AND estado = $%d", len(args))
	}
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		query += fmt.Sprintf(" AND client_id = $%d", len(args))
	}
	query += orderClause(sort)
	args = append(args, limit, offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return collectSales(rows)
}

// ListAllByUser devuelve todas las ventas del usuario, más reciente primero.
func (r *SaleRepo) ListAllByUser(userID string) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE user_id = $1 ORDER BY data_venda DESC`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list all sales: %w", err)
	}
	return collectSales(rows)
}

// ListByDateRange lista ventas con data_venda dentro de [from, to].
func (r *SaleRepo) ListByDateRange(userID string, from, to time.Time) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + `
		FROM sales WHERE user_id = $1 AND data_venda >= $2 AND data_venda <= $3
		ORDER BY data_venda DESC`
	rows, err := r.q.Query(context.Background(), query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list sales by range: %w", err)
	}
	return collectSales(rows)
}

// CountByClient cuenta las ventas que referencian al cliente.
func (r *SaleRepo) CountByClient(userID, clientID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM sales WHERE user_id = $1 AND client_id = $2`, userID, clientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sales by client: %w", err)
	}
	return count, nil
}

// ListPendingSettlement lista ventas pagadas por el cliente cuya comisión aún
// no fue liquidada.
func (r *SaleRepo) ListPendingSettlement(userID string) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + `
		FROM sales WHERE user_id = $1 AND estado = 'pago' AND NOT comissao_recebida_paga
		ORDER BY data_venda`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending settlement: %w", err)
	}
	return collectSales(rows)
}

// ListSettled lista ventas con comisión liquidada, período más reciente primero.
func (r *SaleRepo) ListSettled(userID string) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + `
		FROM sales WHERE user_id = $1 AND comissao_recebida_paga
		ORDER BY periodo_ano DESC NULLS LAST, periodo_mes DESC NULLS LAST, data_venda DESC`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list settled: %w", err)
	}
	return collectSales(rows)
}

// ListOverdueUnpaid devuelve ventas no pagadas anteriores a before, con el
// nombre del cliente resuelto en la misma consulta.
func (r *SaleRepo) ListOverdueUnpaid(userID string, before time.Time) ([]*repository.OverdueSale, error) {
	query := `
		SELECT s.id, s.numero_fatura, s.data_venda, c.nome, s.valor_total
		FROM sales s
		JOIN clients c ON c.id = s.client_id
		WHERE s.user_id = $1 AND s.estado <> 'pago' AND s.data_venda < $2
		ORDER BY s.data_venda`
	rows, err := r.q.Query(context.Background(), query, userID, before)
	if err != nil {
		return nil, fmt.Errorf("list overdue sales: %w", err)
	}
	defer rows.Close()
	var list []*repository.OverdueSale
	for rows.Next() {
		var o repository.OverdueSale
		if err := rows.Scan(&o.SaleID, &o.NumeroFatura, &o.DataVenda, &o.ClienteNome, &o.ValorTotal); err != nil {
			return nil, fmt.Errorf("scan overdue sale: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// orderClause traduce la preferencia de ordenación a SQL. Los nombres de campo
// vienen de una lista cerrada validada en la capa de aplicación; aun así se
// vuelve a contrastar aquí contra el mapa de columnas.
func orderClause(sort repository.SortPreference) string {
	columns := map[string]string{
		"data_venda":     "data_venda",
		"numero_fatura":  "numero_fatura",
		"valor_total":    "valor_total",
		"comissao_total": "comissao_total",
		"estado":         "estado",
	}
	col, ok := columns[sort.Field]
	if !ok {
		col = "data_venda"
	}
	dir := "ASC"
	if sort.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, created_at DESC", col, dir)
}

func periodColumns(p *entity.Period) (any, any) {
	if p == nil || p.IsZero() {
		return nil, nil
	}
	return p.Year, int(p.Month)
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var ano, mes *int
	err := row.Scan(
		&s.ID, &s.UserID, &s.ClientID, &s.NumeroFatura, &s.DataVenda, &s.Observacoes, &s.Estado,
		&s.ValorTotal, &s.LucroTotal, &s.ComissaoTotal,
		&s.ComissaoRecebidaPaga, &ano, &mes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if ano != nil && mes != nil {
		s.PeriodoComissao = &entity.Period{Year: *ano, Month: time.Month(*mes)}
	}
	return &s, nil
}

func collectSales(rows pgx.Rows) ([]*entity.Sale, error) {
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func collectLines(rows pgx.Rows) ([]*entity.SaleLine, error) {
	defer rows.Close()
	var list []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(
			&l.ID, &l.SaleID, &l.Artigo, &l.ArticleTypeID, &l.Quantidade, &l.MetodoCalculo,
			&l.LucroManual, &l.PrecoCusto, &l.PercentagemCusto, &l.PrecoVenda, &l.PercentagemVenda,
			&l.PercentagemDesconto, &l.PercentagemComissao, &l.LucroCalculado, &l.ComissaoCalculada,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
