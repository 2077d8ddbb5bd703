package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// CycleCountRepository define el puerto de persistencia para tareas y líneas
// de conteo cíclico.
type CycleCountRepository interface {
	CreateTask(task *entity.CycleCountTask, lines []*entity.CycleCountLine) error
	GetTask(id string) (*entity.CycleCountTask, error)
	UpdateTaskStatus(task *entity.CycleCountTask) error
	ListTasks(status string, limit, offset int) ([]*entity.CycleCountTask, error)
	GetLine(id string) (*entity.CycleCountLine, error)
	UpdateLine(line *entity.CycleCountLine) error
	ListLines(taskID string) ([]*entity.CycleCountLine, error)
	// ListLinesForTasks devuelve las líneas de varias tareas (cálculo de exactitud por lote).
	ListLinesForTasks(taskIDs []string) ([]*entity.CycleCountLine, error)
}
