package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LocationUsage resultado crudo de ocupación por ubicación (solo ubicaciones
// con capacidad conocida).
type LocationUsage struct {
	LocationID string
	Code       string
	Capacity   decimal.Decimal
	Total      decimal.Decimal
}

// AnomalyRepository define el puerto de lecturas agregadas para el detector
// de anomalías. Solo lectura; puede observar un snapshot levemente desfasado
// respecto a escrituras en vuelo.
type AnomalyRepository interface {
	ListNegativeBalances(ctx context.Context) ([]*entity.InventoryBalance, error)
	ListLocationUsage(ctx context.Context) ([]LocationUsage, error)
}
