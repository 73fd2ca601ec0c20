package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Nombres de mes en pt-PT, tal como se muestran al usuario en las etiquetas de
// período ("Março 2026").
var monthNamesPT = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// Period identifica el mes en que una comisión fue liquidada. Se persiste como
// par (año, mes) tipado; la etiqueta legible se deriva solo para presentación,
// nunca se usa texto libre como clave de ordenación.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf construye el período del mes calendario de t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// IsZero indica si el período no está definido.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Label devuelve la etiqueta legible en pt-PT, ej: "Março 2026".
func (p Period) Label() string {
	if p.IsZero() {
		return "Sem Período"
	}
	return fmt.Sprintf("%s %d", monthNamesPT[p.Month-1], p.Year)
}

// Before ordena períodos cronológicamente.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// ParsePeriodLabel interpreta una etiqueta de período introducida por el
// usuario. Acepta "Março 2026" y "Março de 2026" (mayúsculas indiferentes).
func ParsePeriodLabel(label string) (Period, error) {
	parts := strings.Fields(strings.TrimSpace(label))
	if len(parts) < 2 {
		return Period{}, fmt.Errorf("etiqueta de período inválida: %q", label)
	}
	year, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || year < 2000 || year > 2200 {
		return Period{}, fmt.Errorf("año inválido en período: %q", label)
	}
	name := parts[0]
	for i, m := range monthNamesPT {
		if strings.EqualFold(m, name) {
			return Period{Year: year, Month: time.Month(i + 1)}, nil
		}
	}
	return Period{}, fmt.Errorf("mes desconocido en período: %q", label)
}
