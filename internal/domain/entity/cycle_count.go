package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Alcance de una tarea de conteo cíclico.
const (
	CountScopeLOCATION = "LOCATION" // una ubicación puntual (target = code)
	CountScopeZONE     = "ZONE"     // todas las ubicaciones de una zona
)

// Estados de CycleCountTask. Transiciones unidireccionales:
// OPEN → IN_PROGRESS → COMPLETED → RECONCILED. Una tarea RECONCILED no se reabre.
const (
	TaskStatusOPEN       = "OPEN"
	TaskStatusINPROGRESS = "IN_PROGRESS"
	TaskStatusCOMPLETED  = "COMPLETED"
	TaskStatusRECONCILED = "RECONCILED"
)

// Estados de CycleCountLine.
const (
	LineStatusPENDING  = "PENDING"
	LineStatusCOUNTED  = "COUNTED"
	LineStatusAPPROVED = "APPROVED"
)

// CycleCountTask representa una tarea de conteo cíclico sobre un alcance
// (ubicación o zona). Es dueña del ciclo de vida de sus líneas.
type CycleCountTask struct {
	ID               string
	Scope            string
	TargetCode       string
	Status           string
	AssignedToUserID string
	CreatedAt        time.Time
	CompletedAt      *time.Time
	ReconciledAt     *time.Time
}

// CycleCountLine una línea (ítem, ubicación) de una tarea de conteo.
// SystemQty es el snapshot del saldo al crear la tarea, inmutable.
// Difference = CountedQty - SystemQty, calculada al registrar el conteo.
type CycleCountLine struct {
	ID         string
	TaskID     string
	LocationID string
	ItemID     string
	SystemQty  decimal.Decimal
	CountedQty *decimal.Decimal
	Difference *decimal.Decimal
	Status     string
}
