// Package commission contiene los servicios de dominio puros del motor de
// lucro y comisión: cálculo de lucro por línea (tres métodos), comisión a
// partir del snapshot de porcentaje, agregados, divergencias y previsiones.
//
// Todo el cálculo usa decimal sin redondeo interno; el redondeo a 2 decimales
// ocurre únicamente en los DTOs de presentación/exportación.
package commission

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/comi-api/internal/domain/entity"
)

// Errores de cálculo. Solo los inputs numéricos genuinamente inválidos fallan;
// los borradores incompletos devuelven resultado cero sin error.
var (
	ErrInvalidQuantity   = errors.New("la cantidad debe ser mayor que cero")
	ErrInvalidPercentage = errors.New("el porcentaje debe estar entre 0 y 100")
	ErrInvalidProfit     = errors.New("el lucro no puede ser negativo")
)

var hundred = decimal.NewFromInt(100)

// LineInput son los datos de cálculo de una línea de venta. Los campos de
// método son punteros: nil = no rellenado.
type LineInput struct {
	Quantidade    decimal.Decimal
	MetodoCalculo string // entity.MetodoManual | MetodoMargemCusto | MetodoMargemVenda

	LucroManual      *decimal.Decimal
	PrecoCusto       *decimal.Decimal
	PercentagemCusto *decimal.Decimal
	PrecoVenda       *decimal.Decimal
	PercentagemVenda *decimal.Decimal

	PercentagemDesconto decimal.Decimal // 0–100
}

// LineInputFrom extrae el input de cálculo de una línea persistida.
func LineInputFrom(line *entity.SaleLine) LineInput {
	return LineInput{
		Quantidade:          line.Quantidade,
		MetodoCalculo:       line.MetodoCalculo,
		LucroManual:         line.LucroManual,
		PrecoCusto:          line.PrecoCusto,
		PercentagemCusto:    line.PercentagemCusto,
		PrecoVenda:          line.PrecoVenda,
		PercentagemVenda:    line.PercentagemVenda,
		PercentagemDesconto: line.PercentagemDesconto,
	}
}

// LineResult es el resultado del cálculo de una línea.
//
// UnitSalePrice es el precio de venta unitario base (antes de descuento);
// LineSaleTotal ya incorpora el descuento. LineProfit sigue la fórmula del
// método, incluida la asimetría de descuento de margem_venda.
type LineResult struct {
	UnitSalePrice decimal.Decimal
	LineProfit    decimal.Decimal
	LineSaleTotal decimal.Decimal
	LineCostTotal decimal.Decimal
}

// ComputeLineProfit calcula lucro y totales de una línea según su método.
//
// Reglas:
//   - Quantidade <= 0 → ErrInvalidQuantity.
//   - Si los campos del método seleccionado no están completos, devuelve
//     resultado cero SIN error: la UI permite borradores incrementales.
//   - manual:       lucro = lucro_manual × q; el descuento resta
//     desconto% × ((preco_custo|0 + lucro_manual) × q).
//   - margem_custo: lucro_unit = PC × pct/100; PV = PC + lucro_unit; el
//     descuento resta desconto% × (PV × q).
//   - margem_venda: lucro_unit = PV × pct/100; el descuento incide sobre el
//     valor de venta: resta desconto% × (PV × q). Esta asimetría respecto a
//     los otros métodos es intencional y debe preservarse.
func ComputeLineProfit(in LineInput) (LineResult, error) {
	if in.Quantidade.LessThanOrEqual(decimal.Zero) {
		return LineResult{}, ErrInvalidQuantity
	}

	q := in.Quantidade
	discountFactor := in.PercentagemDesconto.Div(hundred)

	switch in.MetodoCalculo {
	case entity.MetodoManual:
		if in.LucroManual == nil {
			return LineResult{}, nil
		}
		lucroManual := *in.LucroManual
		precoCusto := derefOrZero(in.PrecoCusto)
		// Precio de venta base unitario = PC + lucro unitario; sin PC, asume solo el lucro.
		baseUnit := precoCusto.Add(lucroManual)
		profit := lucroManual.Mul(q)
		if !in.PercentagemDesconto.IsZero() {
			profit = profit.Sub(baseUnit.Mul(q).Mul(discountFactor))
		}
		return LineResult{
			UnitSalePrice: baseUnit,
			LineProfit:    profit,
			LineSaleTotal: baseUnit.Mul(decimal.NewFromInt(1).Sub(discountFactor)).Mul(q),
			LineCostTotal: precoCusto.Mul(q),
		}, nil

	case entity.MetodoMargemCusto:
		if in.PrecoCusto == nil || in.PercentagemCusto == nil {
			return LineResult{}, nil
		}
		precoCusto := *in.PrecoCusto
		unitProfit := precoCusto.Mul(in.PercentagemCusto.Div(hundred))
		unitSalePrice := precoCusto.Add(unitProfit)
		profit := unitProfit.Mul(q)
		if !in.PercentagemDesconto.IsZero() {
			profit = profit.Sub(unitSalePrice.Mul(q).Mul(discountFactor))
		}
		return LineResult{
			UnitSalePrice: unitSalePrice,
			LineProfit:    profit,
			LineSaleTotal: unitSalePrice.Mul(decimal.NewFromInt(1).Sub(discountFactor)).Mul(q),
			LineCostTotal: precoCusto.Mul(q),
		}, nil

	case entity.MetodoMargemVenda:
		if in.PrecoVenda == nil || in.PercentagemVenda == nil {
			return LineResult{}, nil
		}
		precoVenda := *in.PrecoVenda
		unitProfit := precoVenda.Mul(in.PercentagemVenda.Div(hundred))
		profit := unitProfit.Mul(q)
		if !in.PercentagemDesconto.IsZero() {
			// El descuento incide sobre el valor de venta, no sobre la fórmula derivada.
			profit = profit.Sub(precoVenda.Mul(q).Mul(discountFactor))
		}
		return LineResult{
			UnitSalePrice: precoVenda,
			LineProfit:    profit,
			LineSaleTotal: precoVenda.Mul(decimal.NewFromInt(1).Sub(discountFactor)).Mul(q),
			LineCostTotal: derefOrZero(in.PrecoCusto).Mul(q),
		}, nil
	}

	// Método desconocido o no seleccionado: mismo fallback permisivo que los
	// borradores incompletos.
	return LineResult{}, nil
}

// FieldError es un error de validación acotado a un campo, presentable en el
// formulario sin abortar la edición.
type FieldError struct {
	Field   string
	Message string
}

// ValidateLineInput informa qué campos faltan o son inválidos para el método
// seleccionado, con un mensaje distinto por campo. Es una función pura
// separada del cálculo: el formulario la usa para feedback inline antes de
// intentar calcular.
func ValidateLineInput(in LineInput) []FieldError {
	var errs []FieldError

	if in.Quantidade.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, FieldError{Field: "quantidade", Message: "Quantidade deve ser maior que zero"})
	}

	switch in.MetodoCalculo {
	case entity.MetodoManual:
		if in.LucroManual == nil {
			errs = append(errs, FieldError{Field: "lucro_manual", Message: "Lucro manual é obrigatório para este método"})
		} else if in.LucroManual.IsNegative() {
			errs = append(errs, FieldError{Field: "lucro_manual", Message: "Lucro manual não pode ser negativo"})
		}

	case entity.MetodoMargemCusto:
		if in.PrecoCusto == nil {
			errs = append(errs, FieldError{Field: "preco_custo", Message: "Preço de custo é obrigatório para este método"})
		} else if in.PrecoCusto.IsNegative() {
			errs = append(errs, FieldError{Field: "preco_custo", Message: "Preço de custo não pode ser negativo"})
		}
		if in.PercentagemCusto == nil {
			errs = append(errs, FieldError{Field: "percentagem_custo", Message: "Percentagem sobre custo é obrigatória para este método"})
		} else if outOfPercentRange(*in.PercentagemCusto) {
			errs = append(errs, FieldError{Field: "percentagem_custo", Message: "Percentagem sobre custo deve estar entre 0 e 100"})
		}

	case entity.MetodoMargemVenda:
		if in.PrecoVenda == nil {
			errs = append(errs, FieldError{Field: "preco_venda", Message: "Preço de venda é obrigatório para este método"})
		} else if in.PrecoVenda.IsNegative() {
			errs = append(errs, FieldError{Field: "preco_venda", Message: "Preço de venda não pode ser negativo"})
		}
		if in.PercentagemVenda == nil {
			errs = append(errs, FieldError{Field: "percentagem_venda", Message: "Percentagem sobre venda é obrigatória para este método"})
		} else if outOfPercentRange(*in.PercentagemVenda) {
			errs = append(errs, FieldError{Field: "percentagem_venda", Message: "Percentagem sobre venda deve estar entre 0 e 100"})
		}

	default:
		errs = append(errs, FieldError{Field: "metodo_calculo", Message: "Método de cálculo inválido"})
	}

	if outOfPercentRange(in.PercentagemDesconto) {
		errs = append(errs, FieldError{Field: "percentagem_desconto", Message: "Percentagem de desconto deve estar entre 0 e 100"})
	}

	return errs
}

// DetectMethod decide el método implícito a partir de los campos rellenados,
// por prioridad: manual > margem_custo > margem_venda. Es una conveniencia de
// UI independiente del cálculo estricto por método.
func DetectMethod(in LineInput) (string, bool) {
	switch {
	case in.LucroManual != nil:
		return entity.MetodoManual, true
	case in.PrecoCusto != nil && in.PercentagemCusto != nil:
		return entity.MetodoMargemCusto, true
	case in.PrecoVenda != nil && in.PercentagemVenda != nil:
		return entity.MetodoMargemVenda, true
	}
	return "", false
}

func derefOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func outOfPercentRange(d decimal.Decimal) bool {
	return d.IsNegative() || d.GreaterThan(hundred)
}
