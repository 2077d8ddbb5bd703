package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryBalance representa el saldo actual de un ítem en una ubicación.
// Es una proyección materializada del ledger de movimientos; puede
// reconstruirse reproduciendo el ledger desde cero.
type InventoryBalance struct {
	ItemID     string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
