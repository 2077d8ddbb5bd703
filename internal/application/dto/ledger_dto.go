package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppendMovementRequest body para POST /api/ledger/movements.
// Ubicaciones según la forma del movimiento: solo to (entrada), solo from
// (salida), ambas (TRANSFER).
type AppendMovementRequest struct {
	ItemID              string          `json:"item_id" validate:"required"`
	FromLocationID      string          `json:"from_location_id,omitempty"`
	ToLocationID        string          `json:"to_location_id,omitempty"`
	QuantityChange      decimal.Decimal `json:"quantity_change" validate:"required"`
	Reason              string          `json:"reason" validate:"required"`
	ReferenceDocumentID string          `json:"reference_document_id"`
}

// MovementResponse un movimiento del ledger.
type MovementResponse struct {
	ID                  string          `json:"id"`
	ItemID              string          `json:"item_id"`
	FromLocationID      *string         `json:"from_location_id,omitempty"`
	ToLocationID        *string         `json:"to_location_id,omitempty"`
	QuantityChange      decimal.Decimal `json:"quantity_change"`
	Reason              string          `json:"reason"`
	ReferenceDocumentID string          `json:"reference_document_id"`
	CreatedBy           string          `json:"created_by"`
	CreatedAt           time.Time       `json:"created_at"`
}

// ConsumeRequest body para POST /api/ledger/consume.
// AllowPhysicalDecrement es opcional; si viene nil, el handler usa el default
// de configuración del despliegue.
type ConsumeRequest struct {
	ItemID                 string          `json:"item_id" validate:"required"`
	Quantity               decimal.Decimal `json:"quantity" validate:"required"`
	Reason                 string          `json:"reason" validate:"required"`
	ReferenceDocumentID    string          `json:"reference_document_id"`
	AllowPhysicalDecrement *bool           `json:"allow_physical_decrement,omitempty"`
}

// DeductionDTO descuento aplicado en una ubicación.
type DeductionDTO struct {
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity_deducted"`
}

// ConsumeResponse resultado explícito del consumo: si Shortfall > 0 el stock
// no alcanzó y el workflow que llamó decide qué hacer.
type ConsumeResponse struct {
	MovementID string          `json:"movement_id"`
	Requested  decimal.Decimal `json:"requested"`
	Applied    decimal.Decimal `json:"applied"`
	Shortfall  decimal.Decimal `json:"shortfall"`
	Physical   bool            `json:"physical_decrement"`
	Deductions []DeductionDTO  `json:"deductions"`
}

// BalanceResponse saldo de un par (ítem, ubicación).
type BalanceResponse struct {
	ItemID     string          `json:"item_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// RebuildResponse resumen de la reconstrucción de saldos desde el ledger.
type RebuildResponse struct {
	Pairs     int `json:"pairs"`
	Divergent int `json:"divergent"`
}
