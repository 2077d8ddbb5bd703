package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCycleCountRequest body para POST /api/cycle-counts.
// Scope: LOCATION (target = código de ubicación) o ZONE (target = zona).
type CreateCycleCountRequest struct {
	Scope      string `json:"scope" validate:"required,oneof=LOCATION ZONE"`
	TargetCode string `json:"target_code" validate:"required"`
	AssignedTo string `json:"assigned_to"`
}

// SubmitCountRequest body para registrar el conteo de una línea.
type SubmitCountRequest struct {
	CountedQty decimal.Decimal `json:"counted_qty"`
}

// ReconcileRequest body para aprobar una tarea completada.
type ReconcileRequest struct {
	ApplyAdjustments bool `json:"apply_adjustments"`
}

// CycleCountLineResponse una línea de conteo.
type CycleCountLineResponse struct {
	ID         string           `json:"id"`
	TaskID     string           `json:"task_id"`
	LocationID string           `json:"location_id"`
	ItemID     string           `json:"item_id"`
	SystemQty  decimal.Decimal  `json:"system_qty"`
	CountedQty *decimal.Decimal `json:"counted_qty,omitempty"`
	Difference *decimal.Decimal `json:"difference,omitempty"`
	Status     string           `json:"status"`
}

// CycleCountTaskResponse una tarea de conteo con sus líneas.
type CycleCountTaskResponse struct {
	ID           string                   `json:"id"`
	Scope        string                   `json:"scope"`
	TargetCode   string                   `json:"target_code"`
	Status       string                   `json:"status"`
	AssignedTo   string                   `json:"assigned_to"`
	CreatedAt    time.Time                `json:"created_at"`
	CompletedAt  *time.Time               `json:"completed_at,omitempty"`
	ReconciledAt *time.Time               `json:"reconciled_at,omitempty"`
	Lines        []CycleCountLineResponse `json:"lines,omitempty"`
}

// AccuracyResponse exactitud de un lote de tareas completadas.
type AccuracyResponse struct {
	TaskIDs     []string        `json:"task_ids"`
	AccuracyPct decimal.Decimal `json:"accuracy_pct"`
}
