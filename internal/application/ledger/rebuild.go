package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	domledger "github.com/jhoicas/Almacen-api/internal/domain/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// RebuildUseCase reconstruye la proyección de saldos reproduciendo el ledger
// completo (fold puro) y reemplazando la tabla materializada en una sola
// transacción. El ledger es la fuente de verdad; esta operación es idempotente.
type RebuildUseCase struct {
	txRunner TxRunner
}

// NewRebuildUseCase construye el caso de uso.
func NewRebuildUseCase(txRunner TxRunner) *RebuildUseCase {
	return &RebuildUseCase{txRunner: txRunner}
}

// RebuildResult resumen de la reconstrucción.
// Divergent cuenta los pares (ítem, ubicación) cuyo saldo materializado no
// coincidía con el reproducido; > 0 indica que algo escribió saldos por fuera
// del motor (se reporta, la reconstrucción corrige).
type RebuildResult struct {
	Pairs     int
	Divergent int
}

// Rebuild reproduce el ledger y reemplaza la proyección de saldos.
func (uc *RebuildUseCase) Rebuild(ctx context.Context) (*RebuildResult, error) {
	var result RebuildResult
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		balRepo repository.BalanceRepository,
	) error {
		movements, err := movRepo.ListAll()
		if err != nil {
			return err
		}
		allocations, err := movRepo.ListAllAllocations()
		if err != nil {
			return err
		}
		replayed := domledger.Replay(movements, allocations)

		current, err := balRepo.ListAll()
		if err != nil {
			return err
		}
		currentByKey := make(map[domledger.BalanceKey]*entity.InventoryBalance, len(current))
		for _, b := range current {
			currentByKey[domledger.BalanceKey{ItemID: b.ItemID, LocationID: b.LocationID}] = b
		}

		now := time.Now()
		keys := make([]domledger.BalanceKey, 0, len(replayed))
		for k := range replayed {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].ItemID != keys[j].ItemID {
				return keys[i].ItemID < keys[j].ItemID
			}
			return keys[i].LocationID < keys[j].LocationID
		})

		rebuilt := make([]*entity.InventoryBalance, 0, len(keys))
		for _, k := range keys {
			qty := replayed[k]
			if prev, ok := currentByKey[k]; !ok || !prev.Quantity.Equal(qty) {
				result.Divergent++
			}
			rebuilt = append(rebuilt, &entity.InventoryBalance{
				ItemID:     k.ItemID,
				LocationID: k.LocationID,
				Quantity:   qty,
				UpdatedAt:  now,
			})
		}
		// Pares que existen materializados pero no aparecen en el replay.
		for k := range currentByKey {
			if _, ok := replayed[k]; !ok {
				result.Divergent++
			}
		}
		result.Pairs = len(rebuilt)
		return balRepo.ReplaceAll(rebuilt)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
