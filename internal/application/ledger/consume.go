package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ConsumeUseCase es el motor de asignación: consume N unidades de un ítem sin
// que el caller sepa de qué ubicación(es) descontar. La política es greedy
// de mayor saldo primero, determinista, dentro de una sola transacción.
type ConsumeUseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
}

// NewConsumeUseCase construye el caso de uso.
func NewConsumeUseCase(txRunner TxRunner, itemRepo repository.ItemRepository) *ConsumeUseCase {
	return &ConsumeUseCase{txRunner: txRunner, itemRepo: itemRepo}
}

// ConsumeInput entrada para un consumo por asignación.
// AllowPhysicalDecrement viene explícito por llamada (no de estado global):
// en false se registra solo el movimiento lógico para auditoría, sin tocar
// saldos (modo "pérdida declarada").
type ConsumeInput struct {
	ItemID                 string
	Quantity               decimal.Decimal
	Reason                 string
	ReferenceDocumentID    string
	ActorID                string
	AllowPhysicalDecrement bool
}

// Deduction cantidad descontada en una ubicación concreta.
type Deduction struct {
	LocationID string
	Quantity   decimal.Decimal
}

// ConsumeResult resultado explícito de un consumo. Shortfall > 0 indica
// sub-asignación: el stock disponible no cubrió lo solicitado. No es un error
// (el movimiento lógico queda registrado con la cantidad solicitada completa)
// pero el caller siempre lo ve y decide cómo proceder.
type ConsumeResult struct {
	MovementID string
	Requested  decimal.Decimal
	Applied    decimal.Decimal
	Shortfall  decimal.Decimal
	Deductions []Deduction
	Physical   bool
}

// Consume valida, bloquea los saldos candidatos del ítem (FOR UPDATE en orden
// fijo de location_id), recorre los candidatos de mayor a menor saldo
// descontando min(saldo, restante), registra exactamente un movimiento lógico
// con la cantidad total solicitada y persiste el detalle por ubicación.
// Cualquier fallo revierte el movimiento y todos los descuentos.
func (uc *ConsumeUseCase) Consume(ctx context.Context, input ConsumeInput) (*ConsumeResult, error) {
	if input.ItemID == "" || !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidReason(input.Reason) {
		return nil, domain.ErrUnknownReason
	}
	item, err := uc.itemRepo.GetByID(input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	mov := &entity.MovementRecord{
		ID:                  uuid.New().String(),
		ItemID:              input.ItemID,
		QuantityChange:      input.Quantity.Neg(),
		Reason:              input.Reason,
		ReferenceDocumentID: input.ReferenceDocumentID,
		CreatedBy:           input.ActorID,
		CreatedAt:           now,
	}

	result := &ConsumeResult{
		MovementID: mov.ID,
		Requested:  input.Quantity,
		Applied:    decimal.Zero,
		Shortfall:  decimal.Zero,
		Physical:   input.AllowPhysicalDecrement,
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		balRepo repository.BalanceRepository,
	) error {
		if !input.AllowPhysicalDecrement {
			// Solo el registro lógico; los saldos no se tocan.
			return movRepo.Create(mov)
		}

		// Los candidatos llegan bloqueados FOR UPDATE en orden de location_id
		// (orden fijo anti-deadlock); la asignación se decide aparte.
		candidates, err := balRepo.ListPositiveForUpdate(input.ItemID)
		if err != nil {
			return err
		}
		// Mayor saldo primero; empate por location_id para determinismo.
		sort.SliceStable(candidates, func(i, j int) bool {
			if !candidates[i].Quantity.Equal(candidates[j].Quantity) {
				return candidates[i].Quantity.GreaterThan(candidates[j].Quantity)
			}
			return candidates[i].LocationID < candidates[j].LocationID
		})

		remaining := input.Quantity
		var allocations []entity.MovementAllocation
		for _, bal := range candidates {
			if !remaining.GreaterThan(decimal.Zero) {
				break
			}
			take := decimal.Min(bal.Quantity, remaining)
			bal.Quantity = bal.Quantity.Sub(take)
			bal.UpdatedAt = now
			remaining = remaining.Sub(take)

			if err := balRepo.Upsert(bal); err != nil {
				return err
			}
			allocations = append(allocations, entity.MovementAllocation{
				MovementID: mov.ID,
				LocationID: bal.LocationID,
				Quantity:   take,
			})
			result.Deductions = append(result.Deductions, Deduction{
				LocationID: bal.LocationID,
				Quantity:   take,
			})
		}

		result.Applied = input.Quantity.Sub(remaining)
		result.Shortfall = remaining

		if err := movRepo.Create(mov); err != nil {
			return err
		}
		if len(allocations) > 0 {
			return movRepo.CreateAllocations(mov.ID, allocations)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
