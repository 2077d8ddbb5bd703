package reconciliation_test

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Dobles en memoria de los puertos que usa el motor de reconciliación. Sin
// semántica de rollback: estos tests ejercitan reglas de negocio, no
// atomicidad.

func qty(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

type balKey struct {
	itemID     string
	locationID string
}

type memStore struct {
	locations map[string]*entity.Location
	balances  map[balKey]*entity.InventoryBalance
	movements []*entity.MovementRecord
	tasks     map[string]*entity.CycleCountTask
	lines     map[string]*entity.CycleCountLine
}

func newMemStore() *memStore {
	return &memStore{
		locations: make(map[string]*entity.Location),
		balances:  make(map[balKey]*entity.InventoryBalance),
		tasks:     make(map[string]*entity.CycleCountTask),
		lines:     make(map[string]*entity.CycleCountLine),
	}
}

func (s *memStore) seedLocation(id, zone string) {
	s.locations[id] = &entity.Location{ID: id, Code: id, Zone: zone}
}

func (s *memStore) seedBalance(itemID, locationID string, q float64) {
	s.balances[balKey{itemID, locationID}] = &entity.InventoryBalance{
		ItemID:     itemID,
		LocationID: locationID,
		Quantity:   qty(q),
		UpdatedAt:  time.Now(),
	}
}

// ── CycleCountRepository ──────────────────────────────────────────────────────

type memCycleCountRepo struct{ store *memStore }

var _ repository.CycleCountRepository = (*memCycleCountRepo)(nil)

func (r *memCycleCountRepo) CreateTask(task *entity.CycleCountTask, lines []*entity.CycleCountLine) error {
	cp := *task
	r.store.tasks[task.ID] = &cp
	for _, l := range lines {
		lcp := *l
		r.store.lines[l.ID] = &lcp
	}
	return nil
}

func (r *memCycleCountRepo) GetTask(id string) (*entity.CycleCountTask, error) {
	if t, ok := r.store.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *memCycleCountRepo) UpdateTaskStatus(task *entity.CycleCountTask) error {
	cp := *task
	r.store.tasks[task.ID] = &cp
	return nil
}

func (r *memCycleCountRepo) ListTasks(status string, limit, offset int) ([]*entity.CycleCountTask, error) {
	var out []*entity.CycleCountTask
	for _, t := range r.store.tasks {
		if status == "" || t.Status == status {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memCycleCountRepo) GetLine(id string) (*entity.CycleCountLine, error) {
	if l, ok := r.store.lines[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (r *memCycleCountRepo) UpdateLine(line *entity.CycleCountLine) error {
	cp := *line
	r.store.lines[line.ID] = &cp
	return nil
}

func (r *memCycleCountRepo) ListLines(taskID string) ([]*entity.CycleCountLine, error) {
	return r.ListLinesForTasks([]string{taskID})
}

func (r *memCycleCountRepo) ListLinesForTasks(taskIDs []string) ([]*entity.CycleCountLine, error) {
	wanted := make(map[string]bool, len(taskIDs))
	for _, id := range taskIDs {
		wanted[id] = true
	}
	var out []*entity.CycleCountLine
	for _, l := range r.store.lines {
		if wanted[l.TaskID] {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── MovementRepository (solo Create importa aquí) ─────────────────────────────

type memMovementRepo struct{ store *memStore }

var _ repository.MovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Create(m *entity.MovementRecord) error {
	cp := *m
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

func (r *memMovementRepo) CreateAllocations(string, []entity.MovementAllocation) error {
	return nil
}
func (r *memMovementRepo) GetByID(string) (*entity.MovementRecord, error) { return nil, nil }
func (r *memMovementRepo) ListByItem(string, *time.Time, *time.Time, int, int) ([]*entity.MovementRecord, error) {
	return nil, nil
}
func (r *memMovementRepo) ListByLocation(string, *time.Time, *time.Time, int, int) ([]*entity.MovementRecord, error) {
	return nil, nil
}
func (r *memMovementRepo) ListRecent(int) ([]*entity.MovementRecord, error) { return nil, nil }
func (r *memMovementRepo) ListAll() ([]*entity.MovementRecord, error) {
	return r.store.movements, nil
}
func (r *memMovementRepo) ListAllAllocations() (map[string][]entity.MovementAllocation, error) {
	return nil, nil
}

// ── BalanceRepository ─────────────────────────────────────────────────────────

type memBalanceRepo struct{ store *memStore }

var _ repository.BalanceRepository = (*memBalanceRepo)(nil)

func (r *memBalanceRepo) Get(itemID, locationID string) (*entity.InventoryBalance, error) {
	if b, ok := r.store.balances[balKey{itemID, locationID}]; ok {
		cp := *b
		return &cp, nil
	}
	return &entity.InventoryBalance{ItemID: itemID, LocationID: locationID}, nil
}

func (r *memBalanceRepo) GetForUpdate(itemID, locationID string) (*entity.InventoryBalance, error) {
	return r.Get(itemID, locationID)
}

func (r *memBalanceRepo) Upsert(balance *entity.InventoryBalance) error {
	cp := *balance
	r.store.balances[balKey{balance.ItemID, balance.LocationID}] = &cp
	return nil
}

func (r *memBalanceRepo) ListByItem(string) ([]*entity.InventoryBalance, error) { return nil, nil }

func (r *memBalanceRepo) ListByLocation(locationID string) ([]*entity.InventoryBalance, error) {
	var out []*entity.InventoryBalance
	for _, b := range r.store.balances {
		if b.LocationID == locationID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (r *memBalanceRepo) ListPositiveForUpdate(string) ([]*entity.InventoryBalance, error) {
	return nil, nil
}
func (r *memBalanceRepo) ReplaceAll([]*entity.InventoryBalance) error  { return nil }
func (r *memBalanceRepo) ListAll() ([]*entity.InventoryBalance, error) { return nil, nil }

// ── LocationRepository ────────────────────────────────────────────────────────

type memLocationRepo struct{ store *memStore }

var _ repository.LocationRepository = (*memLocationRepo)(nil)

func (r *memLocationRepo) Create(location *entity.Location) error {
	r.store.locations[location.ID] = location
	return nil
}

func (r *memLocationRepo) GetByID(id string) (*entity.Location, error) {
	return r.store.locations[id], nil
}

func (r *memLocationRepo) GetByCode(code string) (*entity.Location, error) {
	for _, l := range r.store.locations {
		if l.Code == code {
			return l, nil
		}
	}
	return nil, nil
}

func (r *memLocationRepo) ListByZone(zone string) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.store.locations {
		if l.Zone == zone {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memLocationRepo) List(limit, offset int) ([]*entity.Location, error) { return nil, nil }

// ── TxRunner ──────────────────────────────────────────────────────────────────

type memTxRunner struct{ store *memStore }

func (t *memTxRunner) RunCycleCount(ctx context.Context, fn func(
	repository.CycleCountRepository,
	repository.MovementRepository,
	repository.BalanceRepository,
) error) error {
	return fn(
		&memCycleCountRepo{store: t.store},
		&memMovementRepo{store: t.store},
		&memBalanceRepo{store: t.store},
	)
}
