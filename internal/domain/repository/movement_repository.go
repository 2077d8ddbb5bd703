package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para el ledger de
// movimientos. Append-only por diseño: no existen Update ni Delete; las
// correcciones se escriben como nuevos movimientos de signo opuesto.
type MovementRepository interface {
	Create(movement *entity.MovementRecord) error
	CreateAllocations(movementID string, allocations []entity.MovementAllocation) error
	GetByID(id string) (*entity.MovementRecord, error)
	ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error)
	ListByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error)
	// ListRecent devuelve los últimos n movimientos, más reciente primero.
	ListRecent(n int) ([]*entity.MovementRecord, error)
	// ListAll recorre el ledger completo en orden de creación (para rebuild).
	ListAll() ([]*entity.MovementRecord, error)
	// ListAllAllocations devuelve el detalle de asignaciones agrupado por movimiento.
	ListAllAllocations() (map[string][]entity.MovementAllocation, error)
}
