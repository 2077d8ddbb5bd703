package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Razones de movimiento de inventario.
const (
	ReasonRECEIVING  = "RECEIVING"   // entrada por recepción
	ReasonSHIPPING   = "SHIPPING"    // salida por despacho
	ReasonWRITEOFF   = "WRITE_OFF"   // baja por daño/merma
	ReasonADJUSTMENT = "ADJUSTMENT"  // ajuste por conteo aprobado
	ReasonCYCLECOUNT = "CYCLE_COUNT" // snapshot/registro de conteo cíclico
	ReasonRETURN     = "RETURN"      // devolución
	ReasonTRANSFER   = "TRANSFER"    // traslado entre ubicaciones
)

// ValidReason indica si la razón es una de las etiquetas conocidas.
func ValidReason(reason string) bool {
	switch reason {
	case ReasonRECEIVING, ReasonSHIPPING, ReasonWRITEOFF, ReasonADJUSTMENT,
		ReasonCYCLECOUNT, ReasonRETURN, ReasonTRANSFER:
		return true
	}
	return false
}

// MovementRecord representa un movimiento del libro mayor de inventario.
// Append-only: una vez escrito nunca se actualiza ni se borra; las
// correcciones son nuevos registros con signo opuesto.
//
// Convención de signo y ubicaciones:
//   - solo ToLocationID:   QuantityChange > 0 (entrada a esa ubicación)
//   - solo FromLocationID: QuantityChange < 0 (salida de esa ubicación)
//   - ambas (TRANSFER):    QuantityChange > 0, resta en origen y suma en destino
//   - ninguna: consumo lógico del motor de asignación; el detalle por
//     ubicación vive en Allocations.
type MovementRecord struct {
	ID                  string
	ItemID              string
	FromLocationID      *string
	ToLocationID        *string
	QuantityChange      decimal.Decimal
	Reason              string
	ReferenceDocumentID string
	CreatedBy           string
	CreatedAt           time.Time
}

// MovementAllocation detalle por ubicación de un consumo lógico (movimiento
// sin ubicaciones). Quantity siempre positiva: cantidad descontada en esa
// ubicación. Permite reconstruir los saldos reproduciendo el ledger.
type MovementAllocation struct {
	MovementID string
	LocationID string
	Quantity   decimal.Decimal
}
