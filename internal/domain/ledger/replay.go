package ledger

import (
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BalanceKey identifica un saldo (ítem, ubicación).
type BalanceKey struct {
	ItemID     string
	LocationID string
}

// Replay reconstruye los saldos como un fold puro sobre el ledger de
// movimientos. Es la definición canónica del invariante: la proyección
// materializada en BD debe coincidir con el resultado de esta función.
//
// Convención de aplicación por movimiento:
//   - TRANSFER (ambas ubicaciones): resta QuantityChange en origen y la suma
//     en destino (QuantityChange > 0).
//   - solo destino: suma QuantityChange (positivo).
//   - solo origen: suma QuantityChange (negativo → descuenta).
//   - sin ubicaciones (consumo lógico): aplica las filas de asignación del
//     movimiento, restando Quantity en cada ubicación. Un movimiento lógico
//     sin asignaciones no altera saldos (modo sin decremento físico).
func Replay(movements []*entity.MovementRecord, allocations map[string][]entity.MovementAllocation) map[BalanceKey]decimal.Decimal {
	balances := make(map[BalanceKey]decimal.Decimal)

	add := func(itemID, locationID string, qty decimal.Decimal) {
		key := BalanceKey{ItemID: itemID, LocationID: locationID}
		balances[key] = balances[key].Add(qty)
	}

	for _, m := range movements {
		switch {
		case m.FromLocationID != nil && m.ToLocationID != nil:
			add(m.ItemID, *m.FromLocationID, m.QuantityChange.Neg())
			add(m.ItemID, *m.ToLocationID, m.QuantityChange)
		case m.ToLocationID != nil:
			add(m.ItemID, *m.ToLocationID, m.QuantityChange)
		case m.FromLocationID != nil:
			add(m.ItemID, *m.FromLocationID, m.QuantityChange)
		default:
			for _, a := range allocations[m.ID] {
				add(m.ItemID, a.LocationID, a.Quantity.Neg())
			}
		}
	}
	return balances
}
