// Package analytics contiene el caso de uso del dashboard de comisiones:
// KPIs, previsión, tasa de conversión y las series de los gráficos.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/comi-api/internal/application/dto"
	"github.com/jhoicas/comi-api/internal/domain/commission"
	"github.com/jhoicas/comi-api/internal/domain/entity"
	"github.com/jhoicas/comi-api/internal/domain/repository"
)

const (
	forecastWindow  = 3 // meses de la media de previsión
	evolutionMonths = 6 // meses del gráfico de evolución
)

// DashboardUseCase genera el resumen completo del dashboard.
//
// Fuente de datos: tres lecturas (ventas, líneas, recibos) en paralelo; todo
// el agregado posterior es cálculo puro sobre decimal.
type DashboardUseCase struct {
	saleRepo    repository.SaleRepository
	typeRepo    repository.ArticleTypeRepository
	paymentRepo repository.PaymentRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(saleRepo repository.SaleRepository, typeRepo repository.ArticleTypeRepository, paymentRepo repository.PaymentRepository) *DashboardUseCase {
	return &DashboardUseCase{saleRepo: saleRepo, typeRepo: typeRepo, paymentRepo: paymentRepo}
}

// GetDashboard construye el DashboardDTO del usuario. now se pasa explícito
// para fijar la ventana de evolución en tests.
func (uc *DashboardUseCase) GetDashboard(userID string, now time.Time) (*dto.DashboardDTO, error) {
	type salesResult struct {
		sales []*entity.Sale
		err   error
	}
	type linesResult struct {
		lines []*entity.SaleLine
		types []*entity.ArticleType
		err   error
	}
	type paymentsResult struct {
		payments []*entity.Payment
		err      error
	}

	salesCh := make(chan salesResult, 1)
	linesCh := make(chan linesResult, 1)
	paymentsCh := make(chan paymentsResult, 1)

	go func() {
		sales, err := uc.saleRepo.ListAllByUser(userID)
		salesCh <- salesResult{sales, err}
	}()
	go func() {
		lines, err := uc.saleRepo.ListLinesByUser(userID)
		if err != nil {
			linesCh <- linesResult{err: err}
			return
		}
		types, err := uc.typeRepo.ListByUser(userID, false)
		linesCh <- linesResult{lines, types, err}
	}()
	go func() {
		payments, err := uc.paymentRepo.ListByUser(userID)
		paymentsCh <- paymentsResult{payments, err}
	}()

	sales := <-salesCh
	lines := <-linesCh
	payments := <-paymentsCh

	if sales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas: %w", sales.err)
	}
	if lines.err != nil {
		return nil, fmt.Errorf("dashboard: líneas: %w", lines.err)
	}
	if payments.err != nil {
		return nil, fmt.Errorf("dashboard: recibos: %w", payments.err)
	}

	summary := commission.Summarize(sales.sales, payments.payments)

	typeNames := make(map[string]string, len(lines.types))
	for _, t := range lines.types {
		typeNames[t.ID] = t.Nome
	}

	return &dto.DashboardDTO{
		Resumo: dto.SummaryDTO{
			Pendente:  summary.Pendente.Round(2),
			Validada:  summary.Validada.Round(2),
			Recebida:  summary.Recebida.Round(2),
			Diferenca: summary.Diferenca.Round(2),
		},
		PrevisaoMensal:   commission.ForecastMonthly(sales.sales, forecastWindow).Round(2),
		TaxaConversao:    commission.ConversionRate(sales.sales).Round(2),
		EvolucaoMensal:   MonthlyEvolution(sales.sales, evolutionMonths, now),
		ComissoesPorTipo: ByType(lines.lines, typeNames),
	}, nil
}

// Abreviaturas de mes pt-PT de las etiquetas del gráfico de evolución.
var monthAbbrPT = [...]string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

// MonthlyEvolution construye la serie de los últimos monthsBack meses,
// rellenada con ceros para los meses sin ventas. Las ventas de meses
// anteriores a la ventana crean puntos adicionales; la serie entera se ordena
// cronológicamente por clave año-mes (nunca por etiqueta legible).
// Función pura.
func MonthlyEvolution(sales []*entity.Sale, monthsBack int, now time.Time) []dto.MonthlyPointDTO {
	if monthsBack <= 0 {
		return nil
	}

	type bucket struct {
		comissao decimal.Decimal
		lucro    decimal.Decimal
	}
	buckets := make(map[string]*bucket, monthsBack)
	keys := make([]string, 0, monthsBack)

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(monthsBack - 1), 0)
	for i := 0; i < monthsBack; i++ {
		key := first.AddDate(0, i, 0).Format("2006-01")
		buckets[key] = &bucket{comissao: decimal.Zero, lucro: decimal.Zero}
		keys = append(keys, key)
	}

	for _, s := range sales {
		key := s.DataVenda.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			// Mes fuera de la ventana inicial: se añade como punto extra.
			b = &bucket{comissao: decimal.Zero, lucro: decimal.Zero}
			buckets[key] = b
			keys = append(keys, key)
		}
		b.comissao = b.comissao.Add(s.ComissaoTotal)
		b.lucro = b.lucro.Add(s.LucroTotal)
	}

	sort.Strings(keys)
	out := make([]dto.MonthlyPointDTO, 0, monthsBack)
	for _, key := range keys {
		t, _ := time.Parse("2006-01", key)
		b := buckets[key]
		out = append(out, dto.MonthlyPointDTO{
			Mes:      fmt.Sprintf("%s %02d", monthAbbrPT[t.Month()-1], t.Year()%100),
			Comissao: b.comissao.Round(2),
			Lucro:    b.lucro.Round(2),
		})
	}
	return out
}

// ByType agrega la comisión por tipo de artículo para el gráfico de tarta:
// solo valores positivos, de mayor a menor.
func ByType(lines []*entity.SaleLine, typeNames map[string]string) []dto.TypeValueDTO {
	groups := commission.GroupCommissionByType(lines, typeNames)
	out := make([]dto.TypeValueDTO, 0, len(groups))
	for _, g := range groups {
		if g.TotalComissao.LessThanOrEqual(decimal.Zero) {
			continue
		}
		out = append(out, dto.TypeValueDTO{
			Tipo:  g.Nome,
			Valor: g.TotalComissao.Round(2),
		})
	}
	return out
}
