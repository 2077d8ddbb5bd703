package ledger_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

func qty(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los puertos de persistencia. El memTxRunner toma una
// snapshot del estado al iniciar y lo restaura si la función falla, imitando
// el Commit/Rollback del runner real; el mutex serializa transacciones igual
// que lo hacen los bloqueos FOR UPDATE en PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type balKey struct {
	itemID     string
	locationID string
}

type memStore struct {
	mu        sync.Mutex
	items     map[string]*entity.Item
	locations map[string]*entity.Location
	movements []*entity.MovementRecord
	allocs    map[string][]entity.MovementAllocation
	balances  map[balKey]*entity.InventoryBalance
}

func newMemStore() *memStore {
	return &memStore{
		items:     make(map[string]*entity.Item),
		locations: make(map[string]*entity.Location),
		allocs:    make(map[string][]entity.MovementAllocation),
		balances:  make(map[balKey]*entity.InventoryBalance),
	}
}

func (s *memStore) seedItem(id string) {
	s.items[id] = &entity.Item{ID: id, SKU: "SKU-" + id, Name: id, Unit: "EA"}
}

func (s *memStore) seedLocation(id string) {
	s.locations[id] = &entity.Location{ID: id, Code: id, Zone: "Z1"}
}

func (s *memStore) seedBalance(itemID, locationID string, q float64) {
	s.balances[balKey{itemID, locationID}] = &entity.InventoryBalance{
		ItemID:     itemID,
		LocationID: locationID,
		Quantity:   qty(q),
		UpdatedAt:  time.Now(),
	}
}

func (s *memStore) balance(itemID, locationID string) *entity.InventoryBalance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[balKey{itemID, locationID}]
}

type snapshot struct {
	movements []*entity.MovementRecord
	allocs    map[string][]entity.MovementAllocation
	balances  map[balKey]*entity.InventoryBalance
}

func (s *memStore) snapshot() snapshot {
	snap := snapshot{
		movements: append([]*entity.MovementRecord(nil), s.movements...),
		allocs:    make(map[string][]entity.MovementAllocation, len(s.allocs)),
		balances:  make(map[balKey]*entity.InventoryBalance, len(s.balances)),
	}
	for k, v := range s.allocs {
		snap.allocs[k] = append([]entity.MovementAllocation(nil), v...)
	}
	for k, v := range s.balances {
		cp := *v
		snap.balances[k] = &cp
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.movements = snap.movements
	s.allocs = snap.allocs
	s.balances = snap.balances
}

// ── MovementRepository ────────────────────────────────────────────────────────

type memMovementRepo struct{ store *memStore }

var _ repository.MovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Create(m *entity.MovementRecord) error {
	cp := *m
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

func (r *memMovementRepo) CreateAllocations(movementID string, allocations []entity.MovementAllocation) error {
	r.store.allocs[movementID] = append(r.store.allocs[movementID], allocations...)
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.MovementRecord, error) {
	for _, m := range r.store.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memMovementRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	return r.list(func(m *entity.MovementRecord) bool { return m.ItemID == itemID }, from, to, limit, offset), nil
}

func (r *memMovementRepo) ListByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	match := func(m *entity.MovementRecord) bool {
		return (m.FromLocationID != nil && *m.FromLocationID == locationID) ||
			(m.ToLocationID != nil && *m.ToLocationID == locationID)
	}
	return r.list(match, from, to, limit, offset), nil
}

func (r *memMovementRepo) list(match func(*entity.MovementRecord) bool, from, to *time.Time, limit, offset int) []*entity.MovementRecord {
	var out []*entity.MovementRecord
	for _, m := range r.store.movements {
		if !match(m) {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		out = append(out, m)
	}
	if offset >= len(out) {
		return nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *memMovementRepo) ListRecent(n int) ([]*entity.MovementRecord, error) {
	out := append([]*entity.MovementRecord(nil), r.store.movements...)
	// más reciente primero (orden de inserción invertido)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r *memMovementRepo) ListAll() ([]*entity.MovementRecord, error) {
	return append([]*entity.MovementRecord(nil), r.store.movements...), nil
}

func (r *memMovementRepo) ListAllAllocations() (map[string][]entity.MovementAllocation, error) {
	out := make(map[string][]entity.MovementAllocation, len(r.store.allocs))
	for k, v := range r.store.allocs {
		out[k] = append([]entity.MovementAllocation(nil), v...)
	}
	return out, nil
}

// ── BalanceRepository ─────────────────────────────────────────────────────────

type memBalanceRepo struct{ store *memStore }

var _ repository.BalanceRepository = (*memBalanceRepo)(nil)

func (r *memBalanceRepo) Get(itemID, locationID string) (*entity.InventoryBalance, error) {
	if b, ok := r.store.balances[balKey{itemID, locationID}]; ok {
		cp := *b
		return &cp, nil
	}
	// creación lazy: par sin historia = saldo cero
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

func (r *memBalanceRepo) ListByItem(itemID string) ([]*entity.InventoryBalance, error) {
	return r.listMatching(func(b *entity.InventoryBalance) bool { return b.ItemID == itemID }), nil
}

func (r *memBalanceRepo) ListByLocation(locationID string) ([]*entity.InventoryBalance, error) {
	return r.listMatching(func(b *entity.InventoryBalance) bool { return b.LocationID == locationID }), nil
}

func (r *memBalanceRepo) ListPositiveForUpdate(itemID string) ([]*entity.InventoryBalance, error) {
	out := r.listMatching(func(b *entity.InventoryBalance) bool {
		return b.ItemID == itemID && b.Quantity.IsPositive()
	})
	return out, nil
}

func (r *memBalanceRepo) ReplaceAll(balances []*entity.InventoryBalance) error {
	r.store.balances = make(map[balKey]*entity.InventoryBalance, len(balances))
	for _, b := range balances {
		cp := *b
		r.store.balances[balKey{b.ItemID, b.LocationID}] = &cp
	}
	return nil
}

func (r *memBalanceRepo) ListAll() ([]*entity.InventoryBalance, error) {
	return r.listMatching(func(*entity.InventoryBalance) bool { return true }), nil
}

func (r *memBalanceRepo) listMatching(match func(*entity.InventoryBalance) bool) []*entity.InventoryBalance {
	var out []*entity.InventoryBalance
	for _, b := range r.store.balances {
		if match(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].LocationID < out[j].LocationID
	})
	return out
}

// ── ItemRepository / LocationRepository ───────────────────────────────────────

type memItemRepo struct {
	store *memStore
	// getErr simula un fallo de almacenamiento en GetByID
	getErr error
}

var _ repository.ItemRepository = (*memItemRepo)(nil)

func (r *memItemRepo) Create(item *entity.Item) error {
	r.store.items[item.ID] = item
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.Item, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.store.items[id], nil
}

func (r *memItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	for _, it := range r.store.items {
		if it.SKU == sku {
			return it, nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range r.store.items {
		out = append(out, it)
	}
	return out, nil
}

type memLocationRepo struct {
	store *memStore
	// getErr simula un fallo de almacenamiento en GetByID
	getErr error
}

var _ repository.LocationRepository = (*memLocationRepo)(nil)

func (r *memLocationRepo) Create(location *entity.Location) error {
	r.store.locations[location.ID] = location
	return nil
}

func (r *memLocationRepo) GetByID(id string) (*entity.Location, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
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
	return out, nil
}

func (r *memLocationRepo) List(limit, offset int) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.store.locations {
		out = append(out, l)
	}
	return out, nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

type memTxRunner struct{ store *memStore }

func (t *memTxRunner) Run(ctx context.Context, fn func(repository.MovementRepository, repository.BalanceRepository) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	snap := t.store.snapshot()
	if err := fn(&memMovementRepo{store: t.store}, &memBalanceRepo{store: t.store}); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}
