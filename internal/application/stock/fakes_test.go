package stock

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/inventory/internal/domain/location"
	"github.com/xiebiao/inventory/internal/domain/reservation"
	"github.com/xiebiao/inventory/internal/domain/stock"
	"github.com/xiebiao/inventory/internal/events"
)

// 内存版仓储实现，行为对齐MySQL实现的语义（锁内检查、三态返回）

type invKey struct {
	productID  uint
	locationID uint
}

type fakeInventoryRepo struct {
	mu          sync.Mutex
	seq         uint
	byID        map[uint]*stock.Inventory
	byKey       map[invKey]uint
	adjustments []*stock.Adjustment
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{
		byID:  make(map[uint]*stock.Inventory),
		byKey: make(map[invKey]uint),
	}
}

func (r *fakeInventoryRepo) Create(_ context.Context, inv *stock.Inventory) error {
	if err := inv.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := invKey{inv.ProductID, inv.LocationID}
	if _, ok := r.byKey[key]; ok {
		return stock.ErrDuplicate
	}

	r.seq++
	inv.ID = r.seq
	stored := *inv
	r.byID[inv.ID] = &stored
	r.byKey[key] = inv.ID
	return nil
}

func (r *fakeInventoryRepo) GetByID(_ context.Context, id uint) (*stock.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.byID[id]
	if !ok {
		return nil, stock.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInventoryRepo) GetByProductAndLocation(_ context.Context, productID, locationID uint) (*stock.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byKey[invKey{productID, locationID}]
	if !ok {
		return nil, stock.ErrNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *fakeInventoryRepo) GetByProduct(_ context.Context, productID uint) ([]*stock.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*stock.Inventory
	for _, inv := range r.byID {
		if inv.ProductID == productID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) GetLowStock(_ context.Context, locationID uint, limit int) ([]*stock.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*stock.Inventory
	for _, inv := range r.byID {
		if !inv.IsLowStock() {
			continue
		}
		if locationID != 0 && inv.LocationID != locationID {
			continue
		}
		cp := *inv
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) UpdateSettings(_ context.Context, id uint, reorderPoint, reorderQuantity *int) (*stock.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.byID[id]
	if !ok {
		return nil, stock.ErrNotFound
	}
	if reorderPoint != nil {
		if *reorderPoint < 0 {
			return nil, stock.ErrInvalidReorderPoint
		}
		inv.ReorderPoint = *reorderPoint
	}
	if reorderQuantity != nil {
		if *reorderQuantity < 1 {
			return nil, stock.ErrInvalidReorderQuantity
		}
		inv.ReorderQuantity = *reorderQuantity
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInventoryRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.byID[id]
	if !ok {
		return stock.ErrNotFound
	}
	if inv.QuantityAvailable != 0 || inv.QuantityReserved != 0 {
		return stock.ErrNotEmpty
	}
	delete(r.byKey, invKey{inv.ProductID, inv.LocationID})
	delete(r.byID, id)
	return nil
}

func (r *fakeInventoryRepo) Reserve(_ context.Context, productID, locationID uint, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, stock.ErrInvalidQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byKey[invKey{productID, locationID}]
	if !ok {
		return false, nil
	}
	inv := r.byID[id]
	if !inv.CanReserve(quantity) {
		return false, nil
	}
	inv.QuantityAvailable -= quantity
	inv.QuantityReserved += quantity
	return true, nil
}

func (r *fakeInventoryRepo) Release(_ context.Context, productID, locationID uint, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, stock.ErrInvalidQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byKey[invKey{productID, locationID}]
	if !ok {
		return false, nil
	}
	inv := r.byID[id]
	if !inv.CanRelease(quantity) {
		return false, nil
	}
	inv.QuantityReserved -= quantity
	inv.QuantityAvailable += quantity
	return true, nil
}

func (r *fakeInventoryRepo) Adjust(_ context.Context, productID, locationID uint, delta int, t stock.AdjustmentType, reason, createdBy string) (bool, error) {
	if _, err := stock.ParseAdjustmentType(string(t)); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byKey[invKey{productID, locationID}]
	if !ok {
		return false, nil
	}
	inv := r.byID[id]
	if inv.QuantityAvailable+delta < 0 {
		return false, nil
	}
	inv.QuantityAvailable += delta

	adj := stock.NewAdjustment(inv.ID, productID, t, delta, reason, createdBy)
	adj.ID = uint(len(r.adjustments) + 1)
	adj.CreatedAt = time.Now()
	r.adjustments = append(r.adjustments, adj)
	return true, nil
}

func (r *fakeInventoryRepo) CountRecords(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

// ListByInventory 让同一个fake同时充当流水查询仓储
func (r *fakeInventoryRepo) ListByInventory(_ context.Context, inventoryID uint, limit, offset int) ([]*stock.Adjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*stock.Adjustment
	for _, adj := range r.adjustments {
		if adj.InventoryID == inventoryID {
			out = append(out, adj)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) ListByProduct(_ context.Context, productID uint, limit, offset int) ([]*stock.Adjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*stock.Adjustment
	for _, adj := range r.adjustments {
		if adj.ProductID == productID {
			out = append(out, adj)
		}
	}
	return out, nil
}

type fakeReservationRepo struct {
	mu   sync.Mutex
	seq  uint
	byID map[uint]*reservation.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{byID: make(map[uint]*reservation.Reservation)}
}

func (r *fakeReservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	if err := res.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	res.ID = r.seq
	res.CreatedAt = time.Now()
	stored := *res
	r.byID[res.ID] = &stored
	return nil
}

func (r *fakeReservationRepo) GetByID(_ context.Context, id uint) (*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.byID[id]
	if !ok {
		return nil, reservation.ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (r *fakeReservationRepo) GetActiveByOrder(_ context.Context, orderID uint) ([]*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*reservation.Reservation
	for _, res := range r.byID {
		if res.OrderID == orderID && res.IsActive() {
			cp := *res
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) List(_ context.Context, filter reservation.ListFilter) ([]*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*reservation.Reservation
	for _, res := range r.byID {
		if filter.OrderID != 0 && res.OrderID != filter.OrderID {
			continue
		}
		if filter.ProductID != 0 && res.ProductID != filter.ProductID {
			continue
		}
		if filter.Status != "" && res.Status != filter.Status {
			continue
		}
		cp := *res
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeReservationRepo) GetExpired(_ context.Context, now time.Time, limit int) ([]*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*reservation.Reservation
	for _, res := range r.byID {
		if res.IsExpired(now) {
			cp := *res
			out = append(out, &cp)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) transition(id uint, to reservation.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.byID[id]
	if !ok {
		return reservation.ErrNotFound
	}
	if !res.IsActive() {
		return reservation.ErrNotActive
	}
	res.Status = to
	res.UpdatedAt = time.Now()
	return nil
}

func (r *fakeReservationRepo) MarkCompleted(_ context.Context, id uint) error {
	return r.transition(id, reservation.StatusCompleted)
}

func (r *fakeReservationRepo) MarkReleased(_ context.Context, id uint) error {
	return r.transition(id, reservation.StatusReleased)
}

func (r *fakeReservationRepo) MarkExpired(_ context.Context, id uint) error {
	return r.transition(id, reservation.StatusExpired)
}

func (r *fakeReservationRepo) CountActive(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, res := range r.byID {
		if res.IsActive() {
			count++
		}
	}
	return count, nil
}

type fakeLocationRepo struct {
	mu   sync.Mutex
	seq  uint
	byID map[uint]*location.Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{byID: make(map[uint]*location.Location)}
}

func (r *fakeLocationRepo) add(name string, t location.LocationType, active bool) *location.Location {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	loc := &location.Location{ID: r.seq, Name: name, Type: t, Active: active}
	r.byID[loc.ID] = loc
	return loc
}

func (r *fakeLocationRepo) Create(_ context.Context, loc *location.Location) error {
	if err := loc.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Name == loc.Name {
			return location.ErrNameDuplicate
		}
	}
	r.seq++
	loc.ID = r.seq
	stored := *loc
	r.byID[loc.ID] = &stored
	return nil
}

func (r *fakeLocationRepo) GetByID(_ context.Context, id uint) (*location.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, ok := r.byID[id]
	if !ok {
		return nil, location.ErrNotFound
	}
	cp := *loc
	return &cp, nil
}

func (r *fakeLocationRepo) GetByName(_ context.Context, name string) (*location.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, loc := range r.byID {
		if loc.Name == name {
			cp := *loc
			return &cp, nil
		}
	}
	return nil, location.ErrNotFound
}

func (r *fakeLocationRepo) List(_ context.Context, filter location.ListFilter) ([]*location.Location, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*location.Location
	for _, loc := range r.byID {
		if !filter.IncludeInactive && !loc.Active {
			continue
		}
		if filter.Type != "" && loc.Type != filter.Type {
			continue
		}
		cp := *loc
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeLocationRepo) Update(_ context.Context, id uint, upd location.LocationUpdate) (*location.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, ok := r.byID[id]
	if !ok {
		return nil, location.ErrNotFound
	}
	if upd.Name != nil {
		loc.Name = *upd.Name
	}
	if upd.Address != nil {
		loc.Address = *upd.Address
	}
	if upd.Type != nil {
		loc.Type = *upd.Type
	}
	if upd.Active != nil {
		loc.Active = *upd.Active
	}
	cp := *loc
	return &cp, nil
}

func (r *fakeLocationRepo) Deactivate(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, ok := r.byID[id]
	if !ok {
		return location.ErrNotFound
	}
	loc.Active = false
	return nil
}

func (r *fakeLocationRepo) GetByType(_ context.Context, t location.LocationType) ([]*location.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*location.Location
	for _, loc := range r.byID {
		if loc.Type == t && loc.Active {
			cp := *loc
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) CountActive(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, loc := range r.byID {
		if loc.Active {
			count++
		}
	}
	return count, nil
}

// fakeTxManager 直接执行回调（内存仓储的单个操作已是原子的）
type fakeTxManager struct{}

func (fakeTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// capturePublisher 记录发布的事件供断言
type capturePublisher struct {
	mu     sync.Mutex
	events []*events.Envelope
}

func (p *capturePublisher) Publish(_ context.Context, _ string, env *events.Envelope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, env)
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) byType(eventType string) []*events.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []*events.Envelope
	for _, env := range p.events {
		if env.EventType == eventType {
			out = append(out, env)
		}
	}
	return out
}

// captureCache 记录缓存操作供断言
type captureCache struct {
	mu          sync.Mutex
	stats       map[uint]*stock.ProductStats
	invalidated []uint
}

func newCaptureCache() *captureCache {
	return &captureCache{stats: make(map[uint]*stock.ProductStats)}
}

func (c *captureCache) Get(_ context.Context, productID uint) *stock.ProductStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats[productID]
}

func (c *captureCache) Set(_ context.Context, stats *stock.ProductStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats[stats.ProductID] = stats
}

func (c *captureCache) Invalidate(_ context.Context, productID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stats, productID)
	c.invalidated = append(c.invalidated, productID)
}
