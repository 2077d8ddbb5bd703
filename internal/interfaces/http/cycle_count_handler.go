package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/reconciliation"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// CycleCountHandler maneja las peticiones HTTP de conteos cíclicos y
// reconciliación.
type CycleCountHandler struct {
	uc *reconciliation.UseCase
}

// NewCycleCountHandler construye el handler.
func NewCycleCountHandler(uc *reconciliation.UseCase) *CycleCountHandler {
	return &CycleCountHandler{uc: uc}
}

// CreateTask godoc
// @Summary      Crear tarea de conteo cíclico
// @Tags         cycle-counts
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCycleCountRequest  true  "scope (LOCATION|ZONE), target_code, assigned_to"
// @Success      201   {object}  dto.CycleCountTaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/cycle-counts [post]
func (h *CycleCountHandler) CreateTask(c *fiber.Ctx) error {
	var in dto.CreateCycleCountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	task, err := h.uc.CreateTask(c.Context(), in.Scope, in.TargetCode, in.AssignedTo)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(task, nil))
}

// GetTask godoc
// @Summary      Obtener tarea de conteo con sus líneas
// @Tags         cycle-counts
// @Produce      json
// @Param        id  path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.CycleCountTaskResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cycle-counts/{id} [get]
func (h *CycleCountHandler) GetTask(c *fiber.Ctx) error {
	task, lines, err := h.uc.GetTask(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTaskResponse(task, lines))
}

// SubmitCount godoc
// @Summary      Registrar la cantidad contada de una línea
// @Tags         cycle-counts
// @Accept       json
// @Produce      json
// @Param        lineID  path  string  true  "ID de la línea"
// @Param        body    body  dto.SubmitCountRequest  true  "counted_qty (no negativa)"
// @Success      200  {object}  dto.CycleCountLineResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cycle-counts/lines/{lineID}/count [post]
func (h *CycleCountHandler) SubmitCount(c *fiber.Ctx) error {
	var in dto.SubmitCountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.uc.SubmitCount(c.Context(), c.Params("lineID"), in.CountedQty)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toLineResponse(line))
}

// CompleteTask godoc
// @Summary      Completar una tarea (todas las líneas contadas)
// @Tags         cycle-counts
// @Produce      json
// @Param        id  path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.CycleCountTaskResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cycle-counts/{id}/complete [post]
func (h *CycleCountHandler) CompleteTask(c *fiber.Ctx) error {
	task, err := h.uc.CompleteTask(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTaskResponse(task, nil))
}

// Reconcile godoc
// @Summary      Aprobar una tarea completada y opcionalmente aplicar ajustes
// @Tags         cycle-counts
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tarea"
// @Param        body  body  dto.ReconcileRequest  true  "apply_adjustments"
// @Success      200  {object}  dto.CycleCountTaskResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cycle-counts/{id}/reconcile [post]
func (h *CycleCountHandler) Reconcile(c *fiber.Ctx) error {
	var in dto.ReconcileRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	task, err := h.uc.Reconcile(c.Context(), c.Params("id"), in.ApplyAdjustments, GetActorID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTaskResponse(task, nil))
}

// Accuracy godoc
// @Summary      Exactitud de un lote de tareas completadas
// @Tags         cycle-counts
// @Produce      json
// @Param        task_ids  query  string  true  "IDs separados por coma"
// @Success      200  {object}  dto.AccuracyResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cycle-counts/accuracy [get]
func (h *CycleCountHandler) Accuracy(c *fiber.Ctx) error {
	raw := c.Query("task_ids")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere task_ids"})
	}
	var taskIDs []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			taskIDs = append(taskIDs, id)
		}
	}
	pct, err := h.uc.Accuracy(c.Context(), taskIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AccuracyResponse{TaskIDs: taskIDs, AccuracyPct: pct})
}

func toTaskResponse(t *entity.CycleCountTask, lines []*entity.CycleCountLine) dto.CycleCountTaskResponse {
	out := dto.CycleCountTaskResponse{
		ID:           t.ID,
		Scope:        t.Scope,
		TargetCode:   t.TargetCode,
		Status:       t.Status,
		AssignedTo:   t.AssignedToUserID,
		CreatedAt:    t.CreatedAt,
		CompletedAt:  t.CompletedAt,
		ReconciledAt: t.ReconciledAt,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, toLineResponse(l))
	}
	return out
}

func toLineResponse(l *entity.CycleCountLine) dto.CycleCountLineResponse {
	return dto.CycleCountLineResponse{
		ID:         l.ID,
		TaskID:     l.TaskID,
		LocationID: l.LocationID,
		ItemID:     l.ItemID,
		SystemQty:  l.SystemQty,
		CountedQty: l.CountedQty,
		Difference: l.Difference,
		Status:     l.Status,
	}
}
