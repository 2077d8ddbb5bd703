package ledger

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// QueryUseCase lecturas del ledger y de saldos para workflows y reportes.
// Opera fuera de transacción (lecturas advisory, snapshot puede estar
// milisegundos desfasado respecto a escrituras en vuelo).
type QueryUseCase struct {
	movRepo repository.MovementRepository
	balRepo repository.BalanceRepository
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(movRepo repository.MovementRepository, balRepo repository.BalanceRepository) *QueryUseCase {
	return &QueryUseCase{movRepo: movRepo, balRepo: balRepo}
}

// GetBalance devuelve el saldo actual de un ítem en una ubicación.
// Un par sin movimientos aún devuelve saldo cero (creación lazy).
func (uc *QueryUseCase) GetBalance(itemID, locationID string) (*entity.InventoryBalance, error) {
	if itemID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.balRepo.Get(itemID, locationID)
}

// GetBalancesForItem devuelve los saldos del ítem en todas sus ubicaciones.
func (uc *QueryUseCase) GetBalancesForItem(itemID string) ([]*entity.InventoryBalance, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.balRepo.ListByItem(itemID)
}

// ListMovementsByItem lista movimientos de un ítem en un rango de fechas.
func (uc *QueryUseCase) ListMovementsByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.movRepo.ListByItem(itemID, from, to, limit, offset)
}

// ListMovementsByLocation lista movimientos de una ubicación en un rango de fechas.
func (uc *QueryUseCase) ListMovementsByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.movRepo.ListByLocation(locationID, from, to, limit, offset)
}
