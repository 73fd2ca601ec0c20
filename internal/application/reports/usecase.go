// Package reports contiene el caso de uso de informes por período: totales y
// filas planas de exportación listas para render externo.
package reports

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/comi-api/internal/application/dto"
	"github.com/jhoicas/comi-api/internal/domain"
	"github.com/jhoicas/comi-api/internal/domain/entity"
	"github.com/jhoicas/comi-api/internal/domain/repository"
)

// UseCase casos de uso de informes.
type UseCase struct {
	saleRepo    repository.SaleRepository
	clientRepo  repository.ClientRepository
	paymentRepo repository.PaymentRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(saleRepo repository.SaleRepository, clientRepo repository.ClientRepository, paymentRepo repository.PaymentRepository) *UseCase {
	return &UseCase{saleRepo: saleRepo, clientRepo: clientRepo, paymentRepo: paymentRepo}
}

// Build genera el informe del período pedido. now se pasa explícito para
// resolver los períodos relativos (este_mes, mes_passado, ano_corrente).
func (uc *UseCase) Build(userID string, req dto.ReportRequest, now time.Time) (*dto.ReportDTO, error) {
	from, to, err := ResolvePeriod(req, now)
	if err != nil {
		return nil, err
	}

	sales, err := uc.saleRepo.ListByDateRange(userID, from, to)
	if err != nil {
		return nil, err
	}
	payments, err := uc.paymentRepo.ListByDateRange(userID, from, to)
	if err != nil {
		return nil, err
	}

	out := &dto.ReportDTO{
		DataInicio:    from,
		DataFim:       to,
		TotalVendido:  decimal.Zero,
		TotalLucro:    decimal.Zero,
		TotalComissao: decimal.Zero,
		TotalRecebido: decimal.Zero,
	}

	names := map[string]string{}
	for _, s := range sales {
		out.TotalVendido = out.TotalVendido.Add(s.ValorTotal)
		out.TotalLucro = out.TotalLucro.Add(s.LucroTotal)
		out.TotalComissao = out.TotalComissao.Add(s.ComissaoTotal)

		name, ok := names[s.ClientID]
		if !ok {
			if c, err := uc.clientRepo.GetByID(userID, s.ClientID); err == nil && c != nil {
				name = c.Nome
			}
			names[s.ClientID] = name
		}

		out.Vendas = append(out.Vendas, saleSummary(s, name))

		lines, err := uc.saleRepo.GetLinesBySale(s.ID)
		if err != nil {
			return nil, err
		}
		for _, l := range lines {
			out.Linhas = append(out.Linhas, exportRow(s, l, name))
		}
	}
	for _, p := range payments {
		out.TotalRecebido = out.TotalRecebido.Add(p.Valor)
	}

	out.TotalVendido = out.TotalVendido.Round(2)
	out.TotalLucro = out.TotalLucro.Round(2)
	out.TotalComissao = out.TotalComissao.Round(2)
	out.TotalRecebido = out.TotalRecebido.Round(2)
	return out, nil
}

// ResolvePeriod traduce el período pedido a un rango [from, to]. Vacío
// equivale a este_mes; personalizado exige ambas fechas en YYYY-MM-DD.
func ResolvePeriod(req dto.ReportRequest, now time.Time) (time.Time, time.Time, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	switch req.Periodo {
	case "", dto.PeriodoEsteMes:
		return monthStart, dayEnd, nil
	case dto.PeriodoMesPassado:
		prevStart := monthStart.AddDate(0, -1, 0)
		return prevStart, monthStart.Add(-time.Second), nil
	case dto.PeriodoAnoCorrente:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), dayEnd, nil
	case dto.PeriodoPersonalizado:
		from, err := time.ParseInLocation("2006-01-02", req.DataInicio, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidInput
		}
		to, err := time.ParseInLocation("2006-01-02", req.DataFim, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidInput
		}
		if to.Before(from) {
			return time.Time{}, time.Time{}, domain.ErrInvalidInput
		}
		return from, to.Add(24*time.Hour - time.Second), nil
	}
	return time.Time{}, time.Time{}, domain.ErrInvalidInput
}

// exportRow aplana una línea con todos los valores ya resueltos. El valor de
// venta de la línea se reconstruye desde el precio de venta si existe o desde
// custo + lucro unitario si no; el custo de la fila es el precio de custo
// unitario, 0 cuando la línea no lo lleva.
func exportRow(s *entity.Sale, l *entity.SaleLine, clientName string) dto.ExportRow {
	custoUnit := decimal.Zero
	if l.PrecoCusto != nil {
		custoUnit = *l.PrecoCusto
	}

	valor := decimal.Zero
	switch {
	case l.PrecoVenda != nil:
		valor = l.PrecoVenda.Mul(l.Quantidade)
	case l.Quantidade.GreaterThan(decimal.Zero):
		lucroUnit := l.LucroCalculado.Div(l.Quantidade)
		valor = custoUnit.Add(lucroUnit).Mul(l.Quantidade)
	}

	return dto.ExportRow{
		Data:          s.DataVenda.Format("02/01/2006"),
		Cliente:       clientName,
		Fatura:        s.NumeroFatura,
		Custo:         custoUnit.Round(2),
		Artigo:        l.Artigo,
		Valor:         valor.Round(2),
		LucroComissao: l.LucroCalculado.Round(2),
		PercComissao:  l.PercentagemComissao,
		ComissaoTotal: l.ComissaoCalculada.Round(2),
		Estado:        s.Estado,
	}
}

func saleSummary(s *entity.Sale, clientName string) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:                   s.ID,
		ClientID:             s.ClientID,
		ClienteNome:          clientName,
		NumeroFatura:         s.NumeroFatura,
		DataVenda:            s.DataVenda,
		Observacoes:          s.Observacoes,
		Estado:               s.Estado,
		ValorTotal:           s.ValorTotal.Round(2),
		LucroTotal:           s.LucroTotal.Round(2),
		ComissaoTotal:        s.ComissaoTotal.Round(2),
		ComissaoRecebidaPaga: s.ComissaoRecebidaPaga,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
	if s.PeriodoComissao != nil {
		resp.PeriodoComissao = s.PeriodoComissao.Label()
	}
	return resp
}
