package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// BalanceRepository define el puerto para consultar/actualizar saldos por
// (ítem, ubicación). Los métodos de escritura se usan solo dentro de
// transacciones del ledger para mantener la proyección consistente.
type BalanceRepository interface {
	Get(itemID, locationID string) (*entity.InventoryBalance, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(itemID, locationID string) (*entity.InventoryBalance, error)
	Upsert(balance *entity.InventoryBalance) error
	ListByItem(itemID string) ([]*entity.InventoryBalance, error)
	ListByLocation(locationID string) ([]*entity.InventoryBalance, error)
	// ListPositiveForUpdate devuelve los saldos > 0 del ítem bloqueados FOR
	// UPDATE, ordenados por location_id (orden fijo de bloqueo anti-deadlock).
	ListPositiveForUpdate(itemID string) ([]*entity.InventoryBalance, error)
	// ReplaceAll reemplaza la proyección completa (rebuild desde el ledger).
	ReplaceAll(balances []*entity.InventoryBalance) error
	ListAll() ([]*entity.InventoryBalance, error)
}
