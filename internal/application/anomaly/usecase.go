package anomaly

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Params umbrales del detector. Valores observados en operación: un
// movimiento que mueve más del 10% del saldo actual del par es sospechoso;
// la ventana de revisión son los últimos 200 movimientos. Ambos vienen de
// configuración, no son constantes del código.
type Params struct {
	ConflictThreshold decimal.Decimal
	ConflictLookback  int
}

// DefaultParams devuelve los umbrales por defecto.
func DefaultParams() Params {
	return Params{
		ConflictThreshold: decimal.NewFromFloat(0.10),
		ConflictLookback:  200,
	}
}

// NegativeStock detalle de un saldo negativo.
type NegativeStock struct {
	ItemID     string          `json:"item_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// OverCapacity detalle de una ubicación sobre su capacidad.
type OverCapacity struct {
	LocationID string          `json:"location_id"`
	Code       string          `json:"code"`
	Capacity   decimal.Decimal `json:"capacity"`
	Total      decimal.Decimal `json:"total"`
}

// Conflict detalle de un movimiento con oscilación alta respecto al saldo.
type Conflict struct {
	MovementID string          `json:"movement_id"`
	ItemID     string          `json:"item_id"`
	LocationID string          `json:"location_id,omitempty"`
	Ratio      decimal.Decimal `json:"ratio"`
}

// Summary resumen de anomalías para revisión humana. El sistema nunca
// auto-corrige: los saldos solo cambian vía reconciliación aprobada.
type Summary struct {
	NegativeStockCount  int             `json:"negative_stock_count"`
	OverCapacityCount   int             `json:"over_capacity_count"`
	RecentConflictCount int             `json:"recent_conflict_count"`
	NegativeStocks      []NegativeStock `json:"negative_stocks"`
	OverCapacities      []OverCapacity  `json:"over_capacities"`
	Conflicts           []Conflict      `json:"conflicts"`
}

// UseCase detector de anomalías. Solo lectura sobre saldos y movimientos
// recientes; puede correr en paralelo con escrituras y tolerar snapshots
// levemente desfasados (las lecturas son advisory, no autorizan escrituras).
type UseCase struct {
	anomalyRepo repository.AnomalyRepository
	movRepo     repository.MovementRepository
	balRepo     repository.BalanceRepository
	params      Params
}

// NewUseCase construye el detector con sus umbrales.
func NewUseCase(
	anomalyRepo repository.AnomalyRepository,
	movRepo repository.MovementRepository,
	balRepo repository.BalanceRepository,
	params Params,
) *UseCase {
	if params.ConflictLookback <= 0 {
		params.ConflictLookback = DefaultParams().ConflictLookback
	}
	if !params.ConflictThreshold.GreaterThan(decimal.Zero) {
		params.ConflictThreshold = DefaultParams().ConflictThreshold
	}
	return &UseCase{
		anomalyRepo: anomalyRepo,
		movRepo:     movRepo,
		balRepo:     balRepo,
		params:      params,
	}
}

// Summary calcula el resumen de anomalías:
//   - stock negativo: saldos < 0 (debería ser cero si todo pasó por el motor)
//   - sobrecupo: ubicaciones con capacidad conocida cuyo total la excede
//   - conflicto reciente: heurística |quantity_change| / saldo_actual > umbral
//     sobre los últimos N movimientos; candidatos para revisión manual, no
//     bloquea operaciones.
func (uc *UseCase) Summary(ctx context.Context) (*Summary, error) {
	s := &Summary{}

	negatives, err := uc.anomalyRepo.ListNegativeBalances(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range negatives {
		s.NegativeStocks = append(s.NegativeStocks, NegativeStock{
			ItemID:     b.ItemID,
			LocationID: b.LocationID,
			Quantity:   b.Quantity,
		})
	}
	s.NegativeStockCount = len(s.NegativeStocks)

	usages, err := uc.anomalyRepo.ListLocationUsage(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range usages {
		if u.Total.GreaterThan(u.Capacity) {
			s.OverCapacities = append(s.OverCapacities, OverCapacity{
				LocationID: u.LocationID,
				Code:       u.Code,
				Capacity:   u.Capacity,
				Total:      u.Total,
			})
		}
	}
	s.OverCapacityCount = len(s.OverCapacities)

	conflicts, err := uc.recentConflicts()
	if err != nil {
		return nil, err
	}
	s.Conflicts = conflicts
	s.RecentConflictCount = len(conflicts)

	return s, nil
}

// recentConflicts aplica la heurística de oscilación sobre la ventana de
// movimientos recientes, comparando contra el saldo actual del par (o el
// saldo total del ítem para consumos lógicos sin ubicación).
func (uc *UseCase) recentConflicts() ([]Conflict, error) {
	movements, err := uc.movRepo.ListRecent(uc.params.ConflictLookback)
	if err != nil {
		return nil, err
	}
	balances, err := uc.balRepo.ListAll()
	if err != nil {
		return nil, err
	}

	type key struct{ item, loc string }
	byPair := make(map[key]decimal.Decimal, len(balances))
	byItem := make(map[string]decimal.Decimal)
	for _, b := range balances {
		byPair[key{b.ItemID, b.LocationID}] = b.Quantity
		byItem[b.ItemID] = byItem[b.ItemID].Add(b.Quantity)
	}

	var conflicts []Conflict
	for _, m := range movements {
		var current decimal.Decimal
		var locID string
		switch {
		case m.ToLocationID != nil:
			locID = *m.ToLocationID
			current = byPair[key{m.ItemID, locID}]
		case m.FromLocationID != nil:
			locID = *m.FromLocationID
			current = byPair[key{m.ItemID, locID}]
		default:
			current = byItem[m.ItemID]
		}
		if !current.GreaterThan(decimal.Zero) {
			continue
		}
		ratio := m.QuantityChange.Abs().Div(current)
		if ratio.GreaterThan(uc.params.ConflictThreshold) {
			conflicts = append(conflicts, Conflict{
				MovementID: m.ID,
				ItemID:     m.ItemID,
				LocationID: locID,
				Ratio:      ratio.Round(4),
			})
		}
	}
	return conflicts, nil
}
