package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.AnomalyRepository = (*AnomalyRepo)(nil)

// AnomalyRepo lecturas agregadas para el detector de anomalías. Solo lectura;
// corre sobre el pool fuera de transacción (snapshot advisory).
type AnomalyRepo struct {
	q Querier
}

// NewAnomalyRepository construye el adaptador.
func NewAnomalyRepository(q Querier) *AnomalyRepo {
	return &AnomalyRepo{q: q}
}

// ListNegativeBalances devuelve los saldos por debajo de cero. Debería estar
// vacío si toda escritura pasó por el motor; filas aquí indican un bypass o
// una carrera y se reportan para revisión humana.
func (r *AnomalyRepo) ListNegativeBalances(ctx context.Context) ([]*entity.InventoryBalance, error) {
	query := `
		SELECT item_id, location_id, quantity, updated_at
		FROM balances WHERE quantity < 0
		ORDER BY quantity ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list negative balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryBalance
	for rows.Next() {
		var b entity.InventoryBalance
		if err := rows.Scan(&b.ItemID, &b.LocationID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan negative balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// ListLocationUsage devuelve la ocupación total por ubicación, solo para
// ubicaciones con capacidad declarada.
func (r *AnomalyRepo) ListLocationUsage(ctx context.Context) ([]repository.LocationUsage, error) {
	query := `
		SELECT l.id, l.code, l.capacity, COALESCE(SUM(b.quantity), 0) AS total
		FROM locations l
		LEFT JOIN balances b ON b.location_id = l.id
		WHERE l.capacity IS NOT NULL
		GROUP BY l.id, l.code, l.capacity
		ORDER BY l.code`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list location usage: %w", err)
	}
	defer rows.Close()
	var list []repository.LocationUsage
	for rows.Next() {
		var u repository.LocationUsage
		if err := rows.Scan(&u.LocationID, &u.Code, &u.Capacity, &u.Total); err != nil {
			return nil, fmt.Errorf("scan location usage: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}
