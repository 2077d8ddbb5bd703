package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.CycleCountRepository = (*CycleCountRepo)(nil)

// CycleCountRepo implementación de tareas/líneas de conteo sobre PostgreSQL
// (usable con pool o tx).
type CycleCountRepo struct {
	q Querier
}

// NewCycleCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCycleCountRepository(q Querier) *CycleCountRepo {
	return &CycleCountRepo{q: q}
}

const taskColumns = `id, scope, target_code, status, assigned_to_user_id, created_at, completed_at, reconciled_at`
const lineColumns = `id, task_id, location_id, item_id, system_qty, counted_qty, difference, status`

// CreateTask persiste la tarea y su snapshot de líneas.
func (r *CycleCountRepo) CreateTask(task *entity.CycleCountTask, lines []*entity.CycleCountLine) error {
	query := `
		INSERT INTO cycle_count_tasks (id, scope, target_code, status, assigned_to_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	assigned := (*string)(nil)
	if task.AssignedToUserID != "" {
		assigned = &task.AssignedToUserID
	}
	if _, err := r.q.Exec(context.Background(), query,
		task.ID, task.Scope, task.TargetCode, task.Status, assigned, task.CreatedAt,
	); err != nil {
		return fmt.Errorf("create cycle count task: %w", err)
	}
	lineQuery := `
		INSERT INTO cycle_count_lines (id, task_id, location_id, item_id, system_qty, status)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, l := range lines {
		if _, err := r.q.Exec(context.Background(), lineQuery,
			l.ID, l.TaskID, l.LocationID, l.ItemID, l.SystemQty, l.Status,
		); err != nil {
			return fmt.Errorf("create cycle count line: %w", err)
		}
	}
	return nil
}

// GetTask obtiene una tarea por ID.
func (r *CycleCountRepo) GetTask(id string) (*entity.CycleCountTask, error) {
	query := `SELECT ` + taskColumns + ` FROM cycle_count_tasks WHERE id = $1`
	t, err := scanTask(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cycle count task: %w", err)
	}
	return t, nil
}

// UpdateTaskStatus actualiza estado y marcas temporales de la tarea.
// Las transiciones las valida el caso de uso; aquí solo se persiste.
func (r *CycleCountRepo) UpdateTaskStatus(task *entity.CycleCountTask) error {
	query := `
		UPDATE cycle_count_tasks
		SET status = $2, completed_at = $3, reconciled_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, task.ID, task.Status, task.CompletedAt, task.ReconciledAt)
	if err != nil {
		return fmt.Errorf("update cycle count task: %w", err)
	}
	return nil
}

// ListTasks lista tareas, opcionalmente filtradas por estado.
func (r *CycleCountRepo) ListTasks(status string, limit, offset int) ([]*entity.CycleCountTask, error) {
	query := `SELECT ` + taskColumns + ` FROM cycle_count_tasks`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cycle count tasks: %w", err)
	}
	defer rows.Close()
	var list []*entity.CycleCountTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cycle count task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// GetLine obtiene una línea por ID.
func (r *CycleCountRepo) GetLine(id string) (*entity.CycleCountLine, error) {
	query := `SELECT ` + lineColumns + ` FROM cycle_count_lines WHERE id = $1`
	l, err := scanLine(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cycle count line: %w", err)
	}
	return l, nil
}

// UpdateLine persiste conteo, diferencia y estado de la línea.
// SystemQty es inmutable una vez tomado el snapshot: no se actualiza aquí.
func (r *CycleCountRepo) UpdateLine(line *entity.CycleCountLine) error {
	query := `
		UPDATE cycle_count_lines
		SET counted_qty = $2, difference = $3, status = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, line.ID, line.CountedQty, line.Difference, line.Status)
	if err != nil {
		return fmt.Errorf("update cycle count line: %w", err)
	}
	return nil
}

// ListLines lista las líneas de una tarea.
func (r *CycleCountRepo) ListLines(taskID string) ([]*entity.CycleCountLine, error) {
	query := `SELECT ` + lineColumns + ` FROM cycle_count_lines WHERE task_id = $1 ORDER BY location_id, item_id`
	return r.queryLines(query, taskID)
}

// ListLinesForTasks lista las líneas de varias tareas (exactitud por lote).
func (r *CycleCountRepo) ListLinesForTasks(taskIDs []string) ([]*entity.CycleCountLine, error) {
	query := `SELECT ` + lineColumns + ` FROM cycle_count_lines WHERE task_id = ANY($1) ORDER BY task_id, location_id, item_id`
	return r.queryLines(query, taskIDs)
}

func (r *CycleCountRepo) queryLines(query string, args ...any) ([]*entity.CycleCountLine, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cycle count lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.CycleCountLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cycle count line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func scanTask(row pgx.Row) (*entity.CycleCountTask, error) {
	var t entity.CycleCountTask
	var assigned *string
	err := row.Scan(&t.ID, &t.Scope, &t.TargetCode, &t.Status, &assigned,
		&t.CreatedAt, &t.CompletedAt, &t.ReconciledAt)
	if err != nil {
		return nil, err
	}
	if assigned != nil {
		t.AssignedToUserID = *assigned
	}
	return &t, nil
}

func scanLine(row pgx.Row) (*entity.CycleCountLine, error) {
	var l entity.CycleCountLine
	err := row.Scan(&l.ID, &l.TaskID, &l.LocationID, &l.ItemID,
		&l.SystemQty, &l.CountedQty, &l.Difference, &l.Status)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
