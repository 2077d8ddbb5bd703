package ledger

import (
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Accuracy calcula el porcentaje de exactitud de un lote de líneas de conteo:
//
//	accuracy = clamp(0, 100, 100 - (Σ|difference| / Σ max(0, system_qty)) * 100)
//
// Si el denominador es cero (no había cantidad esperada que comparar) la
// exactitud es 100 por definición, evitando la división por cero.
// Las líneas sin conteo registrado se ignoran.
func Accuracy(lines []*entity.CycleCountLine) decimal.Decimal {
	sumAbsDiff := decimal.Zero
	sumSystem := decimal.Zero
	for _, l := range lines {
		if l.Difference == nil {
			continue
		}
		sumAbsDiff = sumAbsDiff.Add(l.Difference.Abs())
		if l.SystemQty.GreaterThan(decimal.Zero) {
			sumSystem = sumSystem.Add(l.SystemQty)
		}
	}
	if sumSystem.IsZero() {
		return hundred
	}
	pct := hundred.Sub(sumAbsDiff.Div(sumSystem).Mul(hundred))
	if pct.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
