package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Location representa una ubicación física de almacenamiento (estante, bahía).
// Zone agrupa ubicaciones para conteos cíclicos por zona.
// Capacity es opcional; nil = capacidad desconocida (no se evalúa sobrecupo).
type Location struct {
	ID        string
	Code      string
	Zone      string
	Capacity  *decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
