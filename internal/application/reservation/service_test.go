package reservation

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/inventory/internal/domain/reservation"
	"github.com/xiebiao/inventory/internal/domain/stock"
	"github.com/xiebiao/inventory/internal/events"
)

// memInventoryRepo 只实现预留服务用到的账本操作，
// 其余方法走嵌入接口（调用即panic，测试里不会触达）
type memInventoryRepo struct {
	stock.Repository

	mu   sync.Mutex
	byID map[uint]*stock.Inventory
}

func newMemInventoryRepo() *memInventoryRepo {
	return &memInventoryRepo{byID: make(map[uint]*stock.Inventory)}
}

func (r *memInventoryRepo) add(inv *stock.Inventory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[inv.ID] = inv
}

func (r *memInventoryRepo) GetByID(_ context.Context, id uint) (*stock.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.byID[id]
	if !ok {
		return nil, stock.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *memInventoryRepo) Release(_ context.Context, productID, locationID uint, quantity int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, inv := range r.byID {
		if inv.ProductID == productID && inv.LocationID == locationID {
			if !inv.CanRelease(quantity) {
				return false, nil
			}
			inv.QuantityReserved -= quantity
			inv.QuantityAvailable += quantity
			return true, nil
		}
	}
	return false, nil
}

type memReservationRepo struct {
	mu   sync.Mutex
	seq  uint
	byID map[uint]*reservation.Reservation
}

func newMemReservationRepo() *memReservationRepo {
	return &memReservationRepo{byID: make(map[uint]*reservation.Reservation)}
}

func (r *memReservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	if err := res.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	res.ID = r.seq
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now()
	}
	stored := *res
	r.byID[res.ID] = &stored
	return nil
}

func (r *memReservationRepo) GetByID(_ context.Context, id uint) (*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.byID[id]
	if !ok {
		return nil, reservation.ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (r *memReservationRepo) GetActiveByOrder(_ context.Context, orderID uint) ([]*reservation.Reservation, error) {
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

func (r *memReservationRepo) List(_ context.Context, filter reservation.ListFilter) ([]*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*reservation.Reservation
	for _, res := range r.byID {
		if filter.Status != "" && res.Status != filter.Status {
			continue
		}
		cp := *res
		out = append(out, &cp)
	}
	// 与SQL实现一致：created_at倒序，最新在前
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *memReservationRepo) GetExpired(_ context.Context, now time.Time, limit int) ([]*reservation.Reservation, error) {
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

func (r *memReservationRepo) transition(id uint, to reservation.Status) error {
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
	return nil
}

func (r *memReservationRepo) MarkCompleted(_ context.Context, id uint) error {
	return r.transition(id, reservation.StatusCompleted)
}

func (r *memReservationRepo) MarkReleased(_ context.Context, id uint) error {
	return r.transition(id, reservation.StatusReleased)
}

func (r *memReservationRepo) MarkExpired(_ context.Context, id uint) error {
	return r.transition(id, reservation.StatusExpired)
}

func (r *memReservationRepo) CountActive(_ context.Context) (int64, error) {
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

type passthroughTx struct{}

func (passthroughTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordPublisher struct {
	mu     sync.Mutex
	events []*events.Envelope
}

func (p *recordPublisher) Publish(_ context.Context, _ string, env *events.Envelope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, env)
}

func (p *recordPublisher) Close() error { return nil }

type lifecycleEnv struct {
	svc       *Service
	invRepo   *memInventoryRepo
	resRepo   *memReservationRepo
	publisher *recordPublisher
}

// newLifecycleEnv 准备一条"已预留10件"的库存与对应的活跃预留
func newLifecycleEnv(t *testing.T, expiresAt time.Time) (*lifecycleEnv, *reservation.Reservation) {
	t.Helper()

	invRepo := newMemInventoryRepo()
	invRepo.add(&stock.Inventory{
		ID: 1, ProductID: 7, LocationID: 3,
		QuantityAvailable: 90, QuantityReserved: 10,
		ReorderPoint: 5, ReorderQuantity: 100,
	})

	resRepo := newMemReservationRepo()
	res := &reservation.Reservation{
		InventoryID: 1, ProductID: 7, OrderID: 1001,
		Quantity: 10, ExpiresAt: expiresAt, Status: reservation.StatusActive,
	}
	require.NoError(t, resRepo.Create(context.Background(), res))

	publisher := &recordPublisher{}
	svc := NewService(resRepo, invRepo, passthroughTx{}, nil, publisher)

	return &lifecycleEnv{svc: svc, invRepo: invRepo, resRepo: resRepo, publisher: publisher}, res
}

func TestComplete_KeepsReservedCount(t *testing.T) {
	env, res := newLifecycleEnv(t, time.Now().Add(time.Hour))
	ctx := context.Background()

	completed, err := env.svc.Complete(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusCompleted, completed.Status)

	// 完成不回补账本：预留量保持，代表已消耗
	inv, err := env.invRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 90, inv.QuantityAvailable)
	assert.Equal(t, 10, inv.QuantityReserved)
}

func TestComplete_TerminalStateRefused(t *testing.T) {
	env, res := newLifecycleEnv(t, time.Now().Add(time.Hour))
	ctx := context.Background()

	_, err := env.svc.Complete(ctx, res.ID)
	require.NoError(t, err)

	// 重复完成
	_, err = env.svc.Complete(ctx, res.ID)
	assert.Equal(t, reservation.ErrNotActive, err)

	// 完成后释放也被拒绝
	_, err = env.svc.Release(ctx, res.ID)
	assert.Equal(t, reservation.ErrNotActive, err)

	// 不存在的预留
	_, err = env.svc.Complete(ctx, 999)
	assert.Equal(t, reservation.ErrNotFound, err)
}

func TestRelease_RestoresAvailable(t *testing.T) {
	env, res := newLifecycleEnv(t, time.Now().Add(time.Hour))
	ctx := context.Background()

	released, err := env.svc.Release(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusReleased, released.Status)

	inv, err := env.invRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, inv.QuantityAvailable)
	assert.Equal(t, 0, inv.QuantityReserved)

	// released事件携带manual原因
	require.Len(t, env.publisher.events, 1)
	data := env.publisher.events[0].Data.(*events.ReleasedData)
	assert.Equal(t, "manual", data.Reason)

	// 重复释放被拒绝，账本不二次回补
	_, err = env.svc.Release(ctx, res.ID)
	assert.Equal(t, reservation.ErrNotActive, err)
	inv, _ = env.invRepo.GetByID(ctx, 1)
	assert.Equal(t, 100, inv.QuantityAvailable)
}

func TestExpire_RecoversInventory(t *testing.T) {
	env, res := newLifecycleEnv(t, time.Now().Add(-time.Minute))
	ctx := context.Background()

	require.NoError(t, env.svc.Expire(ctx, res.ID))

	stored, err := env.resRepo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusExpired, stored.Status)

	inv, err := env.invRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, inv.QuantityAvailable)
	assert.Equal(t, 0, inv.QuantityReserved)

	// released事件携带expired原因
	require.Len(t, env.publisher.events, 1)
	data := env.publisher.events[0].Data.(*events.ReleasedData)
	assert.Equal(t, "expired", data.Reason)

	// 已过期的预留不能再过期
	assert.Equal(t, reservation.ErrNotActive, env.svc.Expire(ctx, res.ID))
}

func TestList_NewestFirst(t *testing.T) {
	env, _ := newLifecycleEnv(t, time.Now().Add(time.Hour))
	ctx := context.Background()

	// 环境里已有一条预留，再按时间顺序追加两条
	base := time.Now()
	for i, orderID := range []uint{2001, 2002} {
		res := &reservation.Reservation{
			InventoryID: 1, ProductID: 7, OrderID: orderID,
			Quantity: 1, ExpiresAt: base.Add(time.Hour),
			Status:    reservation.StatusActive,
			CreatedAt: base.Add(time.Duration(i+1) * time.Minute),
		}
		require.NoError(t, env.resRepo.Create(ctx, res))
	}

	list, err := env.svc.List(ctx, reservation.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)

	// 最新创建的排最前
	assert.Equal(t, uint(2002), list[0].OrderID)
	assert.Equal(t, uint(2001), list[1].OrderID)
	assert.Equal(t, uint(1001), list[2].OrderID)
}

func TestGetExpired_OnlyOverdueActive(t *testing.T) {
	env, res := newLifecycleEnv(t, time.Now().Add(-time.Minute))
	ctx := context.Background()

	// 再加一条未到期的
	fresh := &reservation.Reservation{
		InventoryID: 1, ProductID: 7, OrderID: 1002,
		Quantity: 1, ExpiresAt: time.Now().Add(time.Hour), Status: reservation.StatusActive,
	}
	require.NoError(t, env.resRepo.Create(ctx, fresh))

	expired, err := env.svc.GetExpired(ctx, 10)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, res.ID, expired[0].ID)
}
