// Package reconciliation contiene el motor de reconciliación de comisiones:
// liquidación por venta con período tipado, resumen de totales y la vista
// completa de la página de pagamentos.
package reconciliation

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/comi-api/internal/application/dto"
	"github.com/jhoicas/comi-api/internal/domain"
	"github.com/jhoicas/comi-api/internal/domain/commission"
	"github.com/jhoicas/comi-api/internal/domain/entity"
	"github.com/jhoicas/comi-api/internal/domain/repository"
)

// UseCase casos de uso de reconciliación.
type UseCase struct {
	saleRepo    repository.SaleRepository
	clientRepo  repository.ClientRepository
	paymentRepo repository.PaymentRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(saleRepo repository.SaleRepository, clientRepo repository.ClientRepository, paymentRepo repository.PaymentRepository) *UseCase {
	return &UseCase{saleRepo: saleRepo, clientRepo: clientRepo, paymentRepo: paymentRepo}
}

// MarkSettled marca la comisión de una venta como liquidada en el período
// indicado. La precondición se verifica aquí, no en la UI: solo las ventas en
// "boa cobrança" (estado pago) pueden liquidarse.
func (uc *UseCase) MarkSettled(userID, saleID, periodoLabel string) error {
	period, err := entity.ParsePeriodLabel(periodoLabel)
	if err != nil {
		return domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(userID, saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	if !sale.BoaCobranca() {
		return domain.ErrSaleNotPaid
	}
	return uc.saleRepo.UpdateSettlement(userID, saleID, true, &period)
}

// UnmarkSettled deshace la liquidación (siempre permitido) y limpia el período.
func (uc *UseCase) UnmarkSettled(userID, saleID string) error {
	sale, err := uc.saleRepo.GetByID(userID, saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	return uc.saleRepo.UpdateSettlement(userID, saleID, false, nil)
}

// Summary calcula los KPIs de comisión del usuario: pendiente, validada,
// recibida y diferencia.
func (uc *UseCase) Summary(userID string) (*dto.SummaryDTO, error) {
	sales, err := uc.saleRepo.ListAllByUser(userID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.paymentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	s := commission.Summarize(sales, payments)
	return &dto.SummaryDTO{
		Pendente:  s.Pendente.Round(2),
		Validada:  s.Validada.Round(2),
		Recebida:  s.Recebida.Round(2),
		Diferenca: s.Diferenca.Round(2),
	}, nil
}

// Overview construye la vista completa de la página de pagamentos: ventas
// pagadas pendientes de liquidación, histórico liquidado agrupado por período,
// recibos manuales y los totales (TotalGeral = manuais + reconciliado).
func (uc *UseCase) Overview(userID string) (*dto.ReconciliationOverviewDTO, error) {
	pending, err := uc.saleRepo.ListPendingSettlement(userID)
	if err != nil {
		return nil, err
	}
	settled, err := uc.saleRepo.ListSettled(userID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.paymentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	names, err := uc.clientNames(userID, pending, settled)
	if err != nil {
		return nil, err
	}

	out := &dto.ReconciliationOverviewDTO{
		Pendentes:         make([]dto.PendingSettlementDTO, 0, len(pending)),
		Manuais:           make([]dto.PaymentResponse, 0, len(payments)),
		TotalPendentes:    decimal.Zero,
		TotalReconciliado: decimal.Zero,
		TotalManuais:      decimal.Zero,
	}

	for _, s := range pending {
		out.Pendentes = append(out.Pendentes, dto.PendingSettlementDTO{
			SaleID:        s.ID,
			NumeroFatura:  s.NumeroFatura,
			ClienteNome:   names[s.ClientID],
			DataVenda:     s.DataVenda,
			ComissaoTotal: s.ComissaoTotal.Round(2),
		})
		out.TotalPendentes = out.TotalPendentes.Add(s.ComissaoTotal)
	}
	out.TotalPendentes = out.TotalPendentes.Round(2)

	out.Liquidadas = GroupByPeriod(settled, names)
	for _, g := range out.Liquidadas {
		out.TotalReconciliado = out.TotalReconciliado.Add(g.TotalComissao)
	}
	out.TotalReconciliado = out.TotalReconciliado.Round(2)

	for _, p := range payments {
		out.Manuais = append(out.Manuais, dto.PaymentResponse{
			ID:                p.ID,
			DataPagamento:     p.DataPagamento,
			Valor:             p.Valor.Round(2),
			PeriodoReferencia: p.PeriodoReferencia,
			Observacoes:       p.Observacoes,
			CreatedAt:         p.CreatedAt,
		})
		out.TotalManuais = out.TotalManuais.Add(p.Valor)
	}
	out.TotalManuais = out.TotalManuais.Round(2)

	out.TotalGeral = out.TotalManuais.Add(out.TotalReconciliado)
	return out, nil
}

// GroupByPeriod agrupa ventas liquidadas por su período tipado, sumando la
// comisión de cada grupo. Orden: más reciente primero; las ventas sin período
// (datos antiguos) van al final bajo "Sem Período". Función pura.
func GroupByPeriod(settled []*entity.Sale, clientNames map[string]string) []dto.PeriodGroupDTO {
	type group struct {
		period entity.Period
		dto    dto.PeriodGroupDTO
	}
	index := map[entity.Period]int{}
	groups := []*group{}

	for _, s := range settled {
		var p entity.Period
		if s.PeriodoComissao != nil {
			p = *s.PeriodoComissao
		}
		i, ok := index[p]
		if !ok {
			i = len(groups)
			index[p] = i
			groups = append(groups, &group{
				period: p,
				dto:    dto.PeriodGroupDTO{Periodo: p.Label(), TotalComissao: decimal.Zero},
			})
		}
		g := groups[i]
		g.dto.Vendas = append(g.dto.Vendas, dto.SettledSaleDTO{
			SaleID:        s.ID,
			NumeroFatura:  s.NumeroFatura,
			ClienteNome:   clientNames[s.ClientID],
			ComissaoTotal: s.ComissaoTotal.Round(2),
		})
		g.dto.TotalComissao = g.dto.TotalComissao.Add(s.ComissaoTotal)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		pi, pj := groups[i].period, groups[j].period
		if pi.IsZero() != pj.IsZero() {
			return pj.IsZero() // sin período al final
		}
		return pj.Before(pi)
	})

	out := make([]dto.PeriodGroupDTO, 0, len(groups))
	for _, g := range groups {
		g.dto.TotalComissao = g.dto.TotalComissao.Round(2)
		out = append(out, g.dto)
	}
	return out
}

// clientNames resuelve los nombres de los clientes de las listas de ventas
// con una sola consulta sobre los ids distintos.
func (uc *UseCase) clientNames(userID string, lists ...[]*entity.Sale) (map[string]string, error) {
	seen := map[string]bool{}
	ids := []string{}
	for _, list := range lists {
		for _, s := range list {
			if seen[s.ClientID] {
				continue
			}
			seen[s.ClientID] = true
			ids = append(ids, s.ClientID)
		}
	}
	return uc.clientRepo.NamesByIDs(userID, ids)
}
