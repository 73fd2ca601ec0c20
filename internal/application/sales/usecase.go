// Package sales contiene los casos de uso de ventas: alta y edición con
// recálculo de líneas, cambio de estado de cobro y listados ordenables.
package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/comi-api/internal/application/dto"
	"github.com/jhoicas/comi-api/internal/domain"
	"github.com/jhoicas/comi-api/internal/domain/commission"
	"github.com/jhoicas/comi-api/internal/domain/entity"
	"github.com/jhoicas/comi-api/internal/domain/repository"
)

// UseCase casos de uso de Sale.
type UseCase struct {
	saleRepo   repository.SaleRepository
	typeRepo   repository.ArticleTypeRepository
	clientRepo repository.ClientRepository
	tx         TxRunner
}

// NewUseCase construye el caso de uso.
func NewUseCase(saleRepo repository.SaleRepository, typeRepo repository.ArticleTypeRepository, clientRepo repository.ClientRepository, tx TxRunner) *UseCase {
	return &UseCase{saleRepo: saleRepo, typeRepo: typeRepo, clientRepo: clientRepo, tx: tx}
}

// Create crea una venta con sus líneas. Cada línea se calcula con el motor de
// lucro y copia como snapshot el porcentaje de comisión vigente de su tipo de
// artículo; los totales de la venta son la suma de las líneas. Todo se
// persiste en una transacción.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := uc.validateHeader(userID, in); err != nil {
		return nil, err
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:           uuid.New().String(),
		UserID:       userID,
		ClientID:     in.ClientID,
		NumeroFatura: in.NumeroFatura,
		DataVenda:    in.DataVenda,
		Observacoes:  in.Observacoes,
		Estado:       normalizeEstado(in.Estado),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	lines, err := uc.buildLines(userID, sale.ID, in.Linhas, now)
	if err != nil {
		return nil, err
	}
	applyTotals(sale, lines)

	err = uc.tx.Run(ctx, func(saleRepo repository.SaleRepository) error {
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, l := range lines {
			if err := saleRepo.CreateLine(l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(sale, lines), nil
}

// Update edita una venta: reemplaza la cabecera y TODAS las líneas y
// recalcula los totales, en una transacción. La liquidación de comisión no se
// toca aquí (es un eje independiente, ver reconciliation).
func (uc *UseCase) Update(ctx context.Context, userID, id string, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	if err := uc.validateHeader(userID, in); err != nil {
		return nil, err
	}
	sale, err := uc.saleRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	sale.ClientID = in.ClientID
	sale.NumeroFatura = in.NumeroFatura
	sale.DataVenda = in.DataVenda
	sale.Observacoes = in.Observacoes
	sale.Estado = normalizeEstado(in.Estado)
	sale.UpdatedAt = now

	lines, err := uc.buildLines(userID, sale.ID, in.Linhas, now)
	if err != nil {
		return nil, err
	}
	applyTotals(sale, lines)

	err = uc.tx.Run(ctx, func(saleRepo repository.SaleRepository) error {
		if err := saleRepo.DeleteLinesBySale(sale.ID); err != nil {
			return err
		}
		for _, l := range lines {
			if err := saleRepo.CreateLine(l); err != nil {
				return err
			}
		}
		return saleRepo.Update(sale)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(sale, lines), nil
}

// SetEstado cambia el estado de cobro de la factura. El flag es libre: el
// usuario puede moverlo en cualquier dirección (un pago registrado por error
// se deshace volviendo a pendente).
func (uc *UseCase) SetEstado(userID, id, estado string) error {
	if !validEstado(estado) {
		return domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(userID, id)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	return uc.saleRepo.UpdateEstado(userID, id, estado)
}

// Get devuelve una venta con sus líneas y el nombre del cliente resuelto.
func (uc *UseCase) Get(userID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.saleRepo.GetLinesBySale(sale.ID)
	if err != nil {
		return nil, err
	}
	resp := uc.toResponse(sale, lines)
	if c, err := uc.clientRepo.GetByID(userID, sale.ClientID); err == nil && c != nil {
		resp.ClienteNome = c.Nome
	}
	return resp, nil
}

// List lista las ventas del usuario con filtro y preferencia de ordenación
// explícita por petición.
func (uc *UseCase) List(userID string, filter repository.SaleFilter, sort repository.SortPreference, page dto.PageRequest) ([]*dto.SaleResponse, error) {
	page.DefaultPage()
	if !validSortField(sort.Field) {
		sort = repository.DefaultSort()
	}
	salesList, err := uc.saleRepo.ListByUser(userID, filter, sort, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}

	names := map[string]string{}
	out := make([]*dto.SaleResponse, 0, len(salesList))
	for _, s := range salesList {
		resp := uc.toResponse(s, nil)
		if name, ok := names[s.ClientID]; ok {
			resp.ClienteNome = name
		} else if c, err := uc.clientRepo.GetByID(userID, s.ClientID); err == nil && c != nil {
			names[s.ClientID] = c.Nome
			resp.ClienteNome = c.Nome
		}
		out = append(out, resp)
	}
	return out, nil
}

// Delete elimina una venta y sus líneas en una transacción.
func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	sale, err := uc.saleRepo.GetByID(userID, id)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	return uc.tx.Run(ctx, func(saleRepo repository.SaleRepository) error {
		if err := saleRepo.DeleteLinesBySale(id); err != nil {
			return err
		}
		return saleRepo.Delete(userID, id)
	})
}

func (uc *UseCase) validateHeader(userID string, in dto.CreateSaleRequest) error {
	if in.ClientID == "" || in.NumeroFatura == "" || in.DataVenda.IsZero() {
		return domain.ErrInvalidInput
	}
	if len(in.Linhas) == 0 {
		return domain.ErrInvalidInput
	}
	if in.Estado != "" && !validEstado(in.Estado) {
		return domain.ErrInvalidInput
	}
	c, err := uc.clientRepo.GetByID(userID, in.ClientID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return nil
}

// buildLines calcula cada línea y resuelve el snapshot de porcentaje de
// comisión. Las líneas incompletas para su método quedan con valores cero
// (borrador); solo la cantidad inválida aborta.
func (uc *UseCase) buildLines(userID, saleID string, reqs []dto.SaleLineRequest, now time.Time) ([]*entity.SaleLine, error) {
	snapshots := map[string]decimal.Decimal{}
	lines := make([]*entity.SaleLine, 0, len(reqs))

	for _, r := range reqs {
		pct := decimal.Zero
		if r.ArticleTypeID != "" {
			cached, ok := snapshots[r.ArticleTypeID]
			if !ok {
				t, err := uc.typeRepo.GetByID(userID, r.ArticleTypeID)
				if err != nil {
					return nil, err
				}
				if t == nil {
					return nil, domain.ErrNotFound
				}
				cached = t.PercentagemComissao
				snapshots[r.ArticleTypeID] = cached
			}
			pct = cached
		}

		line := &entity.SaleLine{
			ID:                  uuid.New().String(),
			SaleID:              saleID,
			Artigo:              r.Artigo,
			ArticleTypeID:       r.ArticleTypeID,
			Quantidade:          r.Quantidade,
			MetodoCalculo:       r.MetodoCalculo,
			LucroManual:         r.LucroManual,
			PrecoCusto:          r.PrecoCusto,
			PercentagemCusto:    r.PercentagemCusto,
			PrecoVenda:          r.PrecoVenda,
			PercentagemVenda:    r.PercentagemVenda,
			PercentagemDesconto: r.PercentagemDesconto,
			PercentagemComissao: pct,
			CreatedAt:           now,
			UpdatedAt:           now,
		}

		result, err := commission.ComputeLineProfit(commission.LineInputFrom(line))
		if err != nil {
			return nil, err
		}
		com, err := commission.CommissionForProfit(result.LineProfit, pct)
		if err != nil {
			return nil, err
		}
		line.LucroCalculado = result.LineProfit
		line.ComissaoCalculada = com
		lines = append(lines, line)
	}
	return lines, nil
}

// applyTotals reescribe los totales denormalizados a partir de las líneas.
func applyTotals(sale *entity.Sale, lines []*entity.SaleLine) {
	valor, lucro, comissao := decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range lines {
		result, err := commission.ComputeLineProfit(commission.LineInputFrom(l))
		if err != nil {
			continue
		}
		valor = valor.Add(result.LineSaleTotal)
		lucro = lucro.Add(l.LucroCalculado)
		comissao = comissao.Add(l.ComissaoCalculada)
	}
	sale.ValorTotal = valor
	sale.LucroTotal = lucro
	sale.ComissaoTotal = comissao
}

func normalizeEstado(estado string) string {
	if estado == "" {
		return entity.EstadoPendente
	}
	return estado
}

func validEstado(estado string) bool {
	switch estado {
	case entity.EstadoPendente, entity.EstadoParcial, entity.EstadoPago:
		return true
	}
	return false
}

func validSortField(field string) bool {
	switch field {
	case "data_venda", "numero_fatura", "valor_total", "comissao_total", "estado":
		return true
	}
	return false
}

func (uc *UseCase) toResponse(s *entity.Sale, lines []*entity.SaleLine) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:                   s.ID,
		ClientID:             s.ClientID,
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
	for _, l := range lines {
		resp.Linhas = append(resp.Linhas, dto.SaleLineResponse{
			ID:                  l.ID,
			Artigo:              l.Artigo,
			ArticleTypeID:       l.ArticleTypeID,
			Quantidade:          l.Quantidade,
			MetodoCalculo:       l.MetodoCalculo,
			LucroManual:         l.LucroManual,
			PrecoCusto:          l.PrecoCusto,
			PercentagemCusto:    l.PercentagemCusto,
			PrecoVenda:          l.PrecoVenda,
			PercentagemVenda:    l.PercentagemVenda,
			PercentagemDesconto: l.PercentagemDesconto,
			PercentagemComissao: l.PercentagemComissao,
			LucroCalculado:      l.LucroCalculado.Round(2),
			ComissaoCalculada:   l.ComissaoCalculada.Round(2),
		})
	}
	return resp
}
