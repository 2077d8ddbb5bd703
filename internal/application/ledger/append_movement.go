package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// AppendMovementUseCase registra movimientos con ubicación conocida de forma
// transaccional, con bloqueo de fila sobre los saldos (SELECT FOR UPDATE) y
// Commit/Rollback. El ledger es append-only: este caso de uso nunca modifica
// ni borra movimientos existentes.
type AppendMovementUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
}

// NewAppendMovementUseCase construye el caso de uso.
func NewAppendMovementUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
) *AppendMovementUseCase {
	return &AppendMovementUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
	}
}

// AppendInput entrada para registrar un movimiento con ubicación explícita.
// Exactamente una de estas formas es válida:
//   - solo ToLocationID con QuantityChange > 0 (RECEIVING, RETURN, ...)
//   - solo FromLocationID con QuantityChange < 0 (WRITE_OFF localizado, SHIPPING, ...)
//   - ambas con QuantityChange > 0 y Reason TRANSFER
type AppendInput struct {
	ItemID              string
	FromLocationID      string
	ToLocationID        string
	QuantityChange      decimal.Decimal
	Reason              string
	ReferenceDocumentID string
	ActorID             string
}

// Append valida la entrada, inicia una transacción, bloquea las filas de
// saldo tocadas (en orden fijo de location_id para evitar deadlocks entre
// traslados cruzados), escribe el movimiento y actualiza los saldos.
func (uc *AppendMovementUseCase) Append(ctx context.Context, input AppendInput) (*entity.MovementRecord, error) {
	if input.ItemID == "" || input.QuantityChange.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidReason(input.Reason) {
		return nil, domain.ErrUnknownReason
	}

	hasFrom := input.FromLocationID != ""
	hasTo := input.ToLocationID != ""
	switch {
	case hasFrom && hasTo:
		if input.Reason != entity.ReasonTRANSFER || input.FromLocationID == input.ToLocationID ||
			!input.QuantityChange.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	case hasTo:
		if !input.QuantityChange.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	case hasFrom:
		if !input.QuantityChange.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	default:
		// Sin ubicación no hay append directo: eso es un consumo (Consume).
		return nil, domain.ErrInvalidInput
	}

	item, err := uc.itemRepo.GetByID(input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	for _, locID := range []string{input.FromLocationID, input.ToLocationID} {
		if locID == "" {
			continue
		}
		loc, err := uc.locationRepo.GetByID(locID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	mov := &entity.MovementRecord{
		ID:                  uuid.New().String(),
		ItemID:              input.ItemID,
		QuantityChange:      input.QuantityChange,
		Reason:              input.Reason,
		ReferenceDocumentID: input.ReferenceDocumentID,
		CreatedBy:           input.ActorID,
		CreatedAt:           now,
	}
	if hasFrom {
		mov.FromLocationID = &input.FromLocationID
	}
	if hasTo {
		mov.ToLocationID = &input.ToLocationID
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		balRepo repository.BalanceRepository,
	) error {
		// Bloquear filas en orden fijo por location_id
		lockOrder := touchedLocations(input.FromLocationID, input.ToLocationID)
		locked := make(map[string]*entity.InventoryBalance, len(lockOrder))
		for _, locID := range lockOrder {
			bal, err := balRepo.GetForUpdate(input.ItemID, locID)
			if err != nil {
				return err
			}
			locked[locID] = bal
		}

		if hasFrom && hasTo {
			if locked[input.FromLocationID].Quantity.LessThan(input.QuantityChange) {
				return domain.ErrInsufficientStock
			}
		}

		if err := movRepo.Create(mov); err != nil {
			return err
		}

		switch {
		case hasFrom && hasTo:
			from := locked[input.FromLocationID]
			to := locked[input.ToLocationID]
			from.Quantity = from.Quantity.Sub(input.QuantityChange)
			to.Quantity = to.Quantity.Add(input.QuantityChange)
			from.UpdatedAt = now
			to.UpdatedAt = now
			if err := balRepo.Upsert(from); err != nil {
				return err
			}
			return balRepo.Upsert(to)
		case hasTo:
			to := locked[input.ToLocationID]
			to.Quantity = to.Quantity.Add(input.QuantityChange)
			to.UpdatedAt = now
			return balRepo.Upsert(to)
		default:
			from := locked[input.FromLocationID]
			// QuantityChange es negativo: Add descuenta.
			from.Quantity = from.Quantity.Add(input.QuantityChange)
			from.UpdatedAt = now
			return balRepo.Upsert(from)
		}
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// touchedLocations devuelve las ubicaciones no vacías en orden lexicográfico,
// el orden fijo de adquisición de bloqueos.
func touchedLocations(a, b string) []string {
	var locs []string
	for _, l := range []string{a, b} {
		if l != "" {
			locs = append(locs, l)
		}
	}
	if len(locs) == 2 && locs[0] > locs[1] {
		locs[0], locs[1] = locs[1], locs[0]
	}
	return locs
}
