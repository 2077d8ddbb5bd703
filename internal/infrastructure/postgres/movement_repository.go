package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// La tabla movements es append-only: este adaptador no expone UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, item_id, from_location_id, to_location_id, quantity_change, reason, reference_document_id, created_by, created_at`

// Create persiste un movimiento del ledger.
func (r *MovementRepo) Create(movement *entity.MovementRecord) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, item_id, from_location_id, to_location_id, quantity_change, reason, reference_document_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ItemID, movement.FromLocationID, movement.ToLocationID,
		movement.QuantityChange, movement.Reason, movement.ReferenceDocumentID,
		createdBy, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// CreateAllocations persiste el detalle por ubicación de un consumo lógico.
func (r *MovementRepo) CreateAllocations(movementID string, allocations []entity.MovementAllocation) error {
	query := `
		INSERT INTO movement_allocations (movement_id, location_id, quantity)
		VALUES ($1, $2, $3)`
	for _, a := range allocations {
		if _, err := r.q.Exec(context.Background(), query, movementID, a.LocationID, a.Quantity); err != nil {
			return fmt.Errorf("create movement allocation: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByItem lista movimientos de un ítem en un rango de fechas.
func (r *MovementRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	return r.listFiltered("item_id", itemID, from, to, limit, offset)
}

// ListByLocation lista movimientos que tocan una ubicación (origen o destino).
func (r *MovementRepo) ListByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + `
		FROM movements WHERE (from_location_id = $1 OR to_location_id = $1)`
	args := []any{locationID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.queryMovements(query, args...)
}

func (r *MovementRepo) listFiltered(column, value string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE ` + column + ` = $1`
	args := []any{value}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.queryMovements(query, args...)
}

// ListRecent devuelve los últimos n movimientos, más reciente primero.
func (r *MovementRepo) ListRecent(n int) ([]*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM movements ORDER BY created_at DESC LIMIT $1`
	return r.queryMovements(query, n)
}

// ListAll recorre el ledger completo en orden de creación (rebuild).
func (r *MovementRepo) ListAll() ([]*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM movements ORDER BY created_at ASC, id ASC`
	return r.queryMovements(query)
}

// ListAllAllocations devuelve el detalle de asignaciones agrupado por movimiento.
func (r *MovementRepo) ListAllAllocations() (map[string][]entity.MovementAllocation, error) {
	query := `SELECT movement_id, location_id, quantity FROM movement_allocations`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.MovementAllocation)
	for rows.Next() {
		var a entity.MovementAllocation
		if err := rows.Scan(&a.MovementID, &a.LocationID, &a.Quantity); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		out[a.MovementID] = append(out[a.MovementID], a)
	}
	return out, rows.Err()
}

func (r *MovementRepo) queryMovements(query string, args ...any) ([]*entity.MovementRecord, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementRecord
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.MovementRecord, error) {
	var m entity.MovementRecord
	var createdBy *string
	err := row.Scan(
		&m.ID, &m.ItemID, &m.FromLocationID, &m.ToLocationID, &m.QuantityChange,
		&m.Reason, &m.ReferenceDocumentID, &createdBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
