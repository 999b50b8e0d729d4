package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/xiebiao/inventory/internal/domain/location"
)

// locationRepository MySQL库位仓储实现
type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository 创建库位仓储实例
func NewLocationRepository(db *gorm.DB) location.Repository {
	return &locationRepository{db: db}
}

// Create 创建库位
// 名称唯一性由数据库唯一索引保证，冲突时返回ErrNameDuplicate
func (r *locationRepository) Create(ctx context.Context, loc *location.Location) error {
	if err := loc.Validate(); err != nil {
		return err
	}

	if err := getDB(ctx, r.db).Create(loc).Error; err != nil {
		if isDuplicateError(err) {
			return location.ErrNameDuplicate
		}
		return fmt.Errorf("创建库位失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取库位
func (r *locationRepository) GetByID(ctx context.Context, id uint) (*location.Location, error) {
	var loc location.Location

	if err := getDB(ctx, r.db).First(&loc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, location.ErrNotFound
		}
		return nil, fmt.Errorf("查询库位失败: %w", err)
	}

	return &loc, nil
}

// GetByName 根据名称获取库位
func (r *locationRepository) GetByName(ctx context.Context, name string) (*location.Location, error) {
	var loc location.Location

	if err := getDB(ctx, r.db).Where("name = ?", name).First(&loc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, location.ErrNotFound
		}
		return nil, fmt.Errorf("查询库位失败: %w", err)
	}

	return &loc, nil
}

// List 库位列表
// 默认只返回激活的库位，IncludeInactive=true时返回全部
func (r *locationRepository) List(ctx context.Context, filter location.ListFilter) ([]*location.Location, int64, error) {
	query := getDB(ctx, r.db).Model(&location.Location{})

	if !filter.IncludeInactive {
		query = query.Where("active = ?", true)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计库位失败: %w", err)
	}

	var locs []*location.Location
	err := query.Order("name ASC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&locs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询库位列表失败: %w", err)
	}

	return locs, total, nil
}

// Update 更新库位信息（只更新非nil字段）
func (r *locationRepository) Update(ctx context.Context, id uint, upd location.LocationUpdate) (*location.Location, error) {
	updates := make(map[string]interface{})
	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, location.ErrEmptyName
		}
		updates["name"] = *upd.Name
	}
	if upd.Address != nil {
		updates["address"] = *upd.Address
	}
	if upd.Type != nil {
		if _, err := location.ParseLocationType(string(*upd.Type)); err != nil {
			return nil, err
		}
		updates["type"] = *upd.Type
	}
	if upd.Active != nil {
		updates["active"] = *upd.Active
	}

	if len(updates) > 0 {
		result := getDB(ctx, r.db).Model(&location.Location{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			if isDuplicateError(result.Error) {
				return nil, location.ErrNameDuplicate
			}
			return nil, fmt.Errorf("更新库位失败: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// RowsAffected=0可能是记录不存在，也可能是值未变化，需要二次确认
			var count int64
			if err := getDB(ctx, r.db).Model(&location.Location{}).
				Where("id = ?", id).Count(&count).Error; err != nil {
				return nil, fmt.Errorf("查询库位失败: %w", err)
			}
			if count == 0 {
				return nil, location.ErrNotFound
			}
		}
	}

	return r.GetByID(ctx, id)
}

// Deactivate 停用库位（软删除，幂等）
// 历史库存与预留记录仍引用该库位，因此不做物理删除
func (r *locationRepository) Deactivate(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Model(&location.Location{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("停用库位失败: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := getDB(ctx, r.db).Model(&location.Location{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("查询库位失败: %w", err)
		}
		if count == 0 {
			return location.ErrNotFound
		}
		// 已处于停用状态：幂等成功
	}

	return nil
}

// GetByType 按类型查询激活库位
func (r *locationRepository) GetByType(ctx context.Context, t location.LocationType) ([]*location.Location, error) {
	var locs []*location.Location

	err := getDB(ctx, r.db).
		Where("type = ? AND active = ?", t, true).
		Order("name ASC").
		Find(&locs).Error
	if err != nil {
		return nil, fmt.Errorf("按类型查询库位失败: %w", err)
	}

	return locs, nil
}

// CountActive 激活库位总数
func (r *locationRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&location.Location{}).
		Where("active = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("统计库位失败: %w", err)
	}
	return count, nil
}
