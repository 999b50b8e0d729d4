package location

import "context"

// ListFilter 库位列表查询条件
type ListFilter struct {
	Type            LocationType // 为空表示不过滤
	IncludeInactive bool         // 默认只返回活跃库位
	Limit           int
	Offset          int
}

// Repository 库位仓储接口（领域层定义）
// 设计说明：依赖倒置——高层定义接口，基础设施层实现，便于单元测试Mock
type Repository interface {
	// Create 创建库位（名称重复返回ErrNameDuplicate）
	Create(ctx context.Context, loc *Location) error

	// GetByID 根据ID获取库位（不存在返回ErrNotFound）
	GetByID(ctx context.Context, id uint) (*Location, error)

	// GetByName 根据名称获取库位（不存在返回ErrNotFound）
	GetByName(ctx context.Context, name string) (*Location, error)

	// List 按条件分页查询，按名称排序，返回记录与总数
	List(ctx context.Context, filter ListFilter) ([]*Location, int64, error)

	// Update 部分字段更新（nil字段不更新）
	Update(ctx context.Context, id uint, update LocationUpdate) (*Location, error)

	// Deactivate 软删除（置Active=false；不存在返回ErrNotFound）
	Deactivate(ctx context.Context, id uint) error

	// GetByType 获取指定类型的所有活跃库位，按名称排序
	GetByType(ctx context.Context, t LocationType) ([]*Location, error)

	// CountActive 活跃库位总数（后台指标用）
	CountActive(ctx context.Context) (int64, error)
}

// LocationUpdate 库位部分更新字段（nil表示不修改）
type LocationUpdate struct {
	Name    *string
	Address *string
	Type    *LocationType
	Active  *bool
}
