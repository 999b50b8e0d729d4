package location

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/inventory/internal/domain/location"
	apperrors "github.com/xiebiao/inventory/pkg/errors"
)

// memRepo 内存版库位仓储
type memRepo struct {
	mu   sync.Mutex
	seq  uint
	byID map[uint]*location.Location
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[uint]*location.Location)}
}

func (r *memRepo) Create(_ context.Context, loc *location.Location) error {
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

func (r *memRepo) GetByID(_ context.Context, id uint) (*location.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, ok := r.byID[id]
	if !ok {
		return nil, location.ErrNotFound
	}
	cp := *loc
	return &cp, nil
}

func (r *memRepo) GetByName(_ context.Context, name string) (*location.Location, error) {
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

func (r *memRepo) List(_ context.Context, filter location.ListFilter) ([]*location.Location, int64, error) {
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

func (r *memRepo) Update(_ context.Context, id uint, upd location.LocationUpdate) (*location.Location, error) {
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

func (r *memRepo) Deactivate(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, ok := r.byID[id]
	if !ok {
		return location.ErrNotFound
	}
	loc.Active = false
	return nil
}

func (r *memRepo) GetByType(_ context.Context, t location.LocationType) ([]*location.Location, error) {
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

func (r *memRepo) CountActive(_ context.Context) (int64, error) {
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

func TestCreate(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	loc, err := svc.Create(ctx, CreateInput{Name: "华东一仓", Address: "上海市嘉定区", Type: location.TypeWarehouse})
	require.NoError(t, err)
	assert.NotZero(t, loc.ID)
	assert.True(t, loc.Active)

	// 名称重复
	_, err = svc.Create(ctx, CreateInput{Name: "华东一仓", Type: location.TypeStore})
	assert.Equal(t, apperrors.ErrCodeDuplicateEntry, apperrors.CodeOf(err))

	// 非法类型
	_, err = svc.Create(ctx, CreateInput{Name: "另一仓", Type: "factory"})
	assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.CodeOf(err))

	// 名称为空
	_, err = svc.Create(ctx, CreateInput{Name: "", Type: location.TypeWarehouse})
	assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.CodeOf(err))
}

func TestUpdate_NameConflict(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{Name: "华东一仓", Type: location.TypeWarehouse})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateInput{Name: "华南一仓", Type: location.TypeWarehouse})
	require.NoError(t, err)

	// 改成别人的名字：冲突
	name := first.Name
	_, err = svc.Update(ctx, second.ID, location.LocationUpdate{Name: &name})
	assert.Equal(t, apperrors.ErrCodeDuplicateEntry, apperrors.CodeOf(err))

	// 改成自己的名字：允许（幂等）
	own := second.Name
	updated, err := svc.Update(ctx, second.ID, location.LocationUpdate{Name: &own})
	require.NoError(t, err)
	assert.Equal(t, "华南一仓", updated.Name)
}

func TestDeactivate_Idempotent(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	loc, err := svc.Create(ctx, CreateInput{Name: "华东一仓", Type: location.TypeWarehouse})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, loc.ID))

	// 重复停用：幂等成功
	require.NoError(t, svc.Deactivate(ctx, loc.ID))

	got, err := svc.GetByID(ctx, loc.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	// 不存在的库位
	err = svc.Deactivate(ctx, 999)
	assert.Equal(t, apperrors.ErrCodeLocationNotFound, apperrors.CodeOf(err))
}

func TestList_FiltersInactive(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	active, err := svc.Create(ctx, CreateInput{Name: "华东一仓", Type: location.TypeWarehouse})
	require.NoError(t, err)
	closed, err := svc.Create(ctx, CreateInput{Name: "旧仓", Type: location.TypeWarehouse})
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(ctx, closed.ID))

	// 默认只返回活跃库位
	locs, total, err := svc.List(ctx, location.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, locs, 1)
	assert.Equal(t, active.ID, locs[0].ID)

	// 包含停用库位
	locs, total, err = svc.List(ctx, location.ListFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, locs, 2)
}

func TestGetByType(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "华东一仓", Type: location.TypeWarehouse})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Name: "旗舰店", Type: location.TypeStore})
	require.NoError(t, err)

	stores, err := svc.GetByType(ctx, location.TypeStore)
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "旗舰店", stores[0].Name)

	_, err = svc.GetByType(ctx, "factory")
	assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.CodeOf(err))
}
