package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	domledger "github.com/jhoicas/Almacen-api/internal/domain/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// UseCase es el motor de reconciliación: compara conteos físicos contra los
// saldos derivados del ledger y, al aprobar, convierte las diferencias en
// movimientos ADJUSTMENT. Las transiciones de tarea son unidireccionales:
// OPEN → IN_PROGRESS → COMPLETED → RECONCILED.
type UseCase struct {
	txRunner     TxRunner
	ccRepo       repository.CycleCountRepository
	balRepo      repository.BalanceRepository
	locationRepo repository.LocationRepository
}

// NewUseCase construye el motor de reconciliación.
func NewUseCase(
	txRunner TxRunner,
	ccRepo repository.CycleCountRepository,
	balRepo repository.BalanceRepository,
	locationRepo repository.LocationRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		ccRepo:       ccRepo,
		balRepo:      balRepo,
		locationRepo: locationRepo,
	}
}

// CreateTask crea una tarea de conteo sobre una ubicación (scope LOCATION,
// target = código de ubicación) o una zona (scope ZONE, target = zona),
// tomando snapshot del saldo actual de cada par (ítem, ubicación) bajo el
// alcance en CycleCountLine.SystemQty. Falla con ErrEmptyScope si el alcance
// no resuelve ninguna línea.
func (uc *UseCase) CreateTask(ctx context.Context, scope, targetCode, assignee string) (*entity.CycleCountTask, error) {
	if targetCode == "" {
		return nil, domain.ErrInvalidInput
	}

	var locations []*entity.Location
	switch scope {
	case entity.CountScopeLOCATION:
		loc, err := uc.locationRepo.GetByCode(targetCode)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, domain.ErrNotFound
		}
		locations = []*entity.Location{loc}
	case entity.CountScopeZONE:
		locs, err := uc.locationRepo.ListByZone(targetCode)
		if err != nil {
			return nil, err
		}
		locations = locs
	default:
		return nil, domain.ErrInvalidInput
	}
	if len(locations) == 0 {
		return nil, domain.ErrEmptyScope
	}

	now := time.Now()
	task := &entity.CycleCountTask{
		ID:               uuid.New().String(),
		Scope:            scope,
		TargetCode:       targetCode,
		Status:           entity.TaskStatusOPEN,
		AssignedToUserID: assignee,
		CreatedAt:        now,
	}

	var lines []*entity.CycleCountLine
	for _, loc := range locations {
		balances, err := uc.balRepo.ListByLocation(loc.ID)
		if err != nil {
			return nil, err
		}
		for _, b := range balances {
			lines = append(lines, &entity.CycleCountLine{
				ID:         uuid.New().String(),
				TaskID:     task.ID,
				LocationID: b.LocationID,
				ItemID:     b.ItemID,
				SystemQty:  b.Quantity,
				Status:     entity.LineStatusPENDING,
			})
		}
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyScope
	}

	err := uc.txRunner.RunCycleCount(ctx, func(
		ccRepo repository.CycleCountRepository,
		_ repository.MovementRepository,
		_ repository.BalanceRepository,
	) error {
		return ccRepo.CreateTask(task, lines)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// SubmitCount registra la cantidad contada de una línea, calcula la
// diferencia contra el snapshot y marca la línea COUNTED. Rechaza cantidades
// negativas. El primer conteo pasa la tarea de OPEN a IN_PROGRESS. No se
// aceptan conteos sobre tareas COMPLETED o RECONCILED.
func (uc *UseCase) SubmitCount(ctx context.Context, lineID string, countedQty decimal.Decimal) (*entity.CycleCountLine, error) {
	if lineID == "" || countedQty.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.CycleCountLine
	err := uc.txRunner.RunCycleCount(ctx, func(
		ccRepo repository.CycleCountRepository,
		_ repository.MovementRepository,
		_ repository.BalanceRepository,
	) error {
		line, err := ccRepo.GetLine(lineID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		task, err := ccRepo.GetTask(line.TaskID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrNotFound
		}
		switch task.Status {
		case entity.TaskStatusOPEN:
			task.Status = entity.TaskStatusINPROGRESS
			if err := ccRepo.UpdateTaskStatus(task); err != nil {
				return err
			}
		case entity.TaskStatusINPROGRESS:
			// recuentos permitidos mientras la tarea siga en progreso
		default:
			return domain.ErrInvalidTransition
		}

		diff := countedQty.Sub(line.SystemQty)
		line.CountedQty = &countedQty
		line.Difference = &diff
		line.Status = entity.LineStatusCOUNTED
		if err := ccRepo.UpdateLine(line); err != nil {
			return err
		}
		updated = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CompleteTask marca la tarea COMPLETED. Requiere todas las líneas COUNTED.
func (uc *UseCase) CompleteTask(ctx context.Context, taskID string) (*entity.CycleCountTask, error) {
	var completed *entity.CycleCountTask
	err := uc.txRunner.RunCycleCount(ctx, func(
		ccRepo repository.CycleCountRepository,
		_ repository.MovementRepository,
		_ repository.BalanceRepository,
	) error {
		task, err := ccRepo.GetTask(taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrNotFound
		}
		if task.Status != entity.TaskStatusINPROGRESS {
			return domain.ErrInvalidTransition
		}
		lines, err := ccRepo.ListLines(taskID)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if l.Status != entity.LineStatusCOUNTED {
				return domain.ErrConflict
			}
		}
		now := time.Now()
		task.Status = entity.TaskStatusCOMPLETED
		task.CompletedAt = &now
		if err := ccRepo.UpdateTaskStatus(task); err != nil {
			return err
		}
		completed = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// Reconcile aprueba una tarea COMPLETED y la marca RECONCILED. Si
// applyAdjustments es true, cada línea con diferencia no nula genera un
// movimiento ADJUSTMENT (quantity_change = difference) y actualiza el saldo
// del par, cerrando la brecha entre libros y conteo físico. Todo en una
// transacción; el ledger nunca se corrige editando, solo agregando.
func (uc *UseCase) Reconcile(ctx context.Context, taskID string, applyAdjustments bool, actorID string) (*entity.CycleCountTask, error) {
	var reconciled *entity.CycleCountTask
	err := uc.txRunner.RunCycleCount(ctx, func(
		ccRepo repository.CycleCountRepository,
		movRepo repository.MovementRepository,
		balRepo repository.BalanceRepository,
	) error {
		task, err := ccRepo.GetTask(taskID)
		if err != nil {
			return err
		}
		if task == nil {
			return domain.ErrNotFound
		}
		if task.Status != entity.TaskStatusCOMPLETED {
			return domain.ErrInvalidTransition
		}
		lines, err := ccRepo.ListLines(taskID)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, line := range lines {
			if applyAdjustments && line.Difference != nil && !line.Difference.IsZero() {
				if err := uc.applyAdjustment(movRepo, balRepo, task, line, actorID, now); err != nil {
					return err
				}
			}
			line.Status = entity.LineStatusAPPROVED
			if err := ccRepo.UpdateLine(line); err != nil {
				return err
			}
		}

		task.Status = entity.TaskStatusRECONCILED
		task.ReconciledAt = &now
		if err := ccRepo.UpdateTaskStatus(task); err != nil {
			return err
		}
		reconciled = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reconciled, nil
}

// applyAdjustment escribe el movimiento ADJUSTMENT de una línea y lleva el
// saldo del par al valor contado. Diferencia positiva entra a la ubicación
// (to_location); negativa sale de ella (from_location).
func (uc *UseCase) applyAdjustment(
	movRepo repository.MovementRepository,
	balRepo repository.BalanceRepository,
	task *entity.CycleCountTask,
	line *entity.CycleCountLine,
	actorID string,
	now time.Time,
) error {
	diff := *line.Difference
	mov := &entity.MovementRecord{
		ID:                  uuid.New().String(),
		ItemID:              line.ItemID,
		QuantityChange:      diff,
		Reason:              entity.ReasonADJUSTMENT,
		ReferenceDocumentID: task.ID,
		CreatedBy:           actorID,
		CreatedAt:           now,
	}
	locID := line.LocationID
	if diff.GreaterThan(decimal.Zero) {
		mov.ToLocationID = &locID
	} else {
		mov.FromLocationID = &locID
	}

	bal, err := balRepo.GetForUpdate(line.ItemID, line.LocationID)
	if err != nil {
		return err
	}
	bal.Quantity = bal.Quantity.Add(diff)
	bal.UpdatedAt = now
	if err := movRepo.Create(mov); err != nil {
		return err
	}
	return balRepo.Upsert(bal)
}

// Accuracy calcula el porcentaje de exactitud de un lote de tareas. Solo
// admite tareas COMPLETED o RECONCILED (el lote ya debe estar contado).
func (uc *UseCase) Accuracy(ctx context.Context, taskIDs []string) (decimal.Decimal, error) {
	if len(taskIDs) == 0 {
		return decimal.Zero, domain.ErrInvalidInput
	}
	for _, id := range taskIDs {
		task, err := uc.ccRepo.GetTask(id)
		if err != nil {
			return decimal.Zero, err
		}
		if task == nil {
			return decimal.Zero, domain.ErrNotFound
		}
		if task.Status != entity.TaskStatusCOMPLETED && task.Status != entity.TaskStatusRECONCILED {
			return decimal.Zero, domain.ErrConflict
		}
	}
	lines, err := uc.ccRepo.ListLinesForTasks(taskIDs)
	if err != nil {
		return decimal.Zero, err
	}
	return domledger.Accuracy(lines), nil
}

// GetTask devuelve una tarea con sus líneas.
func (uc *UseCase) GetTask(ctx context.Context, taskID string) (*entity.CycleCountTask, []*entity.CycleCountLine, error) {
	task, err := uc.ccRepo.GetTask(taskID)
	if err != nil {
		return nil, nil, err
	}
	if task == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines, err := uc.ccRepo.ListLines(taskID)
	if err != nil {
		return nil, nil, err
	}
	return task, lines, nil
}
