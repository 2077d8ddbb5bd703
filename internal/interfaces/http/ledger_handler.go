package http

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// validate instancia compartida del validador de DTOs.
var validate = validator.New()

// LedgerHandler maneja las peticiones HTTP del ledger de movimientos:
// append directo, consumo por asignación, saldos y reconstrucción.
type LedgerHandler struct {
	appendUC  *ledger.AppendMovementUseCase
	consumeUC *ledger.ConsumeUseCase
	rebuildUC *ledger.RebuildUseCase
	queryUC   *ledger.QueryUseCase

	// default del despliegue cuando el request no trae allow_physical_decrement
	defaultPhysicalDecrement bool
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(
	appendUC *ledger.AppendMovementUseCase,
	consumeUC *ledger.ConsumeUseCase,
	rebuildUC *ledger.RebuildUseCase,
	queryUC *ledger.QueryUseCase,
	defaultPhysicalDecrement bool,
) *LedgerHandler {
	return &LedgerHandler{
		appendUC:                 appendUC,
		consumeUC:                consumeUC,
		rebuildUC:                rebuildUC,
		queryUC:                  queryUC,
		defaultPhysicalDecrement: defaultPhysicalDecrement,
	}
}

// AppendMovement godoc
// @Summary      Registrar movimiento con ubicación conocida
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AppendMovementRequest  true  "item_id, from/to location, quantity_change, reason, reference_document_id"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [post]
func (h *LedgerHandler) AppendMovement(c *fiber.Ctx) error {
	var in dto.AppendMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	mov, err := h.appendUC.Append(c.Context(), ledger.AppendInput{
		ItemID:              in.ItemID,
		FromLocationID:      in.FromLocationID,
		ToLocationID:        in.ToLocationID,
		QuantityChange:      in.QuantityChange,
		Reason:              in.Reason,
		ReferenceDocumentID: in.ReferenceDocumentID,
		ActorID:             GetActorID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// Consume godoc
// @Summary      Consumir cantidad de un ítem sin ubicación conocida
// @Description  Motor de asignación: greedy de mayor saldo primero. El
//
//	resultado reporta shortfall explícito si el stock no alcanzó.
//
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeRequest  true  "item_id, quantity, reason, reference_document_id"
// @Success      200   {object}  dto.ConsumeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ledger/consume [post]
func (h *LedgerHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	physical := h.defaultPhysicalDecrement
	if in.AllowPhysicalDecrement != nil {
		physical = *in.AllowPhysicalDecrement
	}
	result, err := h.consumeUC.Consume(c.Context(), ledger.ConsumeInput{
		ItemID:                 in.ItemID,
		Quantity:               in.Quantity,
		Reason:                 in.Reason,
		ReferenceDocumentID:    in.ReferenceDocumentID,
		ActorID:                GetActorID(c),
		AllowPhysicalDecrement: physical,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := dto.ConsumeResponse{
		MovementID: result.MovementID,
		Requested:  result.Requested,
		Applied:    result.Applied,
		Shortfall:  result.Shortfall,
		Physical:   result.Physical,
		Deductions: make([]dto.DeductionDTO, 0, len(result.Deductions)),
	}
	for _, d := range result.Deductions {
		out.Deductions = append(out.Deductions, dto.DeductionDTO{LocationID: d.LocationID, Quantity: d.Quantity})
	}
	return c.JSON(out)
}

// GetBalancesForItem godoc
// @Summary      Saldos de un ítem en todas sus ubicaciones
// @Tags         ledger
// @Produce      json
// @Param        itemID  path  string  true  "ID del ítem"
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/ledger/balances/{itemID} [get]
func (h *LedgerHandler) GetBalancesForItem(c *fiber.Ctx) error {
	balances, err := h.queryUC.GetBalancesForItem(c.Params("itemID"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, dto.BalanceResponse{
			ItemID: b.ItemID, LocationID: b.LocationID, Quantity: b.Quantity, UpdatedAt: b.UpdatedAt,
		})
	}
	return c.JSON(out)
}

// GetBalance godoc
// @Summary      Saldo de un ítem en una ubicación
// @Tags         ledger
// @Produce      json
// @Param        itemID      path  string  true  "ID del ítem"
// @Param        locationID  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.BalanceResponse
// @Router       /api/ledger/balances/{itemID}/{locationID} [get]
func (h *LedgerHandler) GetBalance(c *fiber.Ctx) error {
	b, err := h.queryUC.GetBalance(c.Params("itemID"), c.Params("locationID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BalanceResponse{
		ItemID: b.ItemID, LocationID: b.LocationID, Quantity: b.Quantity, UpdatedAt: b.UpdatedAt,
	})
}

// ListMovements godoc
// @Summary      Listar movimientos por ítem o ubicación
// @Tags         ledger
// @Produce      json
// @Param        item_id      query  string  false  "filtrar por ítem"
// @Param        location_id  query  string  false  "filtrar por ubicación"
// @Param        from         query  string  false  "fecha inicial RFC3339"
// @Param        to           query  string  false  "fecha final RFC3339"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/ledger/movements [get]
func (h *LedgerHandler) ListMovements(c *fiber.Ctx) error {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido"})
		}
		to = &t
	}
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)

	var (
		movements []*entity.MovementRecord
		err       error
	)
	switch {
	case c.Query("item_id") != "":
		movements, err = h.queryUC.ListMovementsByItem(c.Query("item_id"), from, to, limit, offset)
	case c.Query("location_id") != "":
		movements, err = h.queryUC.ListMovementsByLocation(c.Query("location_id"), from, to, limit, offset)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere item_id o location_id"})
	}
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// Rebuild godoc
// @Summary      Reconstruir la proyección de saldos desde el ledger
// @Tags         ledger
// @Produce      json
// @Success      200  {object}  dto.RebuildResponse
// @Router       /api/ledger/rebuild [post]
func (h *LedgerHandler) Rebuild(c *fiber.Ctx) error {
	result, err := h.rebuildUC.Rebuild(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RebuildResponse{Pairs: result.Pairs, Divergent: result.Divergent})
}

func toMovementResponse(m *entity.MovementRecord) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                  m.ID,
		ItemID:              m.ItemID,
		FromLocationID:      m.FromLocationID,
		ToLocationID:        m.ToLocationID,
		QuantityChange:      m.QuantityChange,
		Reason:              m.Reason,
		ReferenceDocumentID: m.ReferenceDocumentID,
		CreatedBy:           m.CreatedBy,
		CreatedAt:           m.CreatedAt,
	}
}
