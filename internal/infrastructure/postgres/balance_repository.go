package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de la proyección de saldos sobre PostgreSQL
// (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene el saldo de un par (ítem, ubicación). Par sin fila = saldo cero
// (los saldos se crean lazy con el primer movimiento).
func (r *BalanceRepo) Get(itemID, locationID string) (*entity.InventoryBalance, error) {
	query := `
		SELECT item_id, location_id, quantity, updated_at
		FROM balances WHERE item_id = $1 AND location_id = $2`
	var b entity.InventoryBalance
	err := r.q.QueryRow(context.Background(), query, itemID, locationID).Scan(
		&b.ItemID, &b.LocationID, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryBalance{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE).
func (r *BalanceRepo) GetForUpdate(itemID, locationID string) (*entity.InventoryBalance, error) {
	query := `
		SELECT item_id, location_id, quantity, updated_at
		FROM balances WHERE item_id = $1 AND location_id = $2
		FOR UPDATE`
	var b entity.InventoryBalance
	err := r.q.QueryRow(context.Background(), query, itemID, locationID).Scan(
		&b.ItemID, &b.LocationID, &b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryBalance{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza el saldo del par.
func (r *BalanceRepo) Upsert(balance *entity.InventoryBalance) error {
	query := `
		INSERT INTO balances (item_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, balance.ItemID, balance.LocationID, balance.Quantity)
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// ListByItem devuelve los saldos del ítem en todas sus ubicaciones.
func (r *BalanceRepo) ListByItem(itemID string) ([]*entity.InventoryBalance, error) {
	query := `
		SELECT item_id, location_id, quantity, updated_at
		FROM balances WHERE item_id = $1
		ORDER BY location_id`
	return r.queryBalances(query, itemID)
}

// ListByLocation devuelve los saldos de todos los ítems en una ubicación.
func (r *BalanceRepo) ListByLocation(locationID string) ([]*entity.InventoryBalance, error) {
	query := `
		SELECT item_id, location_id, quantity, updated_at
		FROM balances WHERE location_id = $1
		ORDER BY item_id`
	return r.queryBalances(query, locationID)
}

// ListPositiveForUpdate devuelve los saldos > 0 del ítem bloqueados FOR
// UPDATE en orden de location_id: orden fijo de bloqueo para que consumos
// concurrentes sobre conjuntos solapados no se interbloqueen.
func (r *BalanceRepo) ListPositiveForUpdate(itemID string) ([]*entity.InventoryBalance, error) {
	query := `
		SELECT item_id, location_id, quantity, updated_at
		FROM balances WHERE item_id = $1 AND quantity > 0
		ORDER BY location_id
		FOR UPDATE`
	return r.queryBalances(query, itemID)
}

// ListAll devuelve la proyección completa.
func (r *BalanceRepo) ListAll() ([]*entity.InventoryBalance, error) {
	query := `
		SELECT item_id, location_id, quantity, updated_at
		FROM balances ORDER BY item_id, location_id`
	return r.queryBalances(query)
}

// ReplaceAll reemplaza la proyección completa (rebuild desde el ledger).
// Debe invocarse dentro de una transacción del TxRunner.
func (r *BalanceRepo) ReplaceAll(balances []*entity.InventoryBalance) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM balances`); err != nil {
		return fmt.Errorf("clear balances: %w", err)
	}
	for _, b := range balances {
		if err := r.Upsert(b); err != nil {
			return err
		}
	}
	return nil
}

func (r *BalanceRepo) queryBalances(query string, args ...any) ([]*entity.InventoryBalance, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryBalance
	for rows.Next() {
		var b entity.InventoryBalance
		if err := rows.Scan(&b.ItemID, &b.LocationID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
