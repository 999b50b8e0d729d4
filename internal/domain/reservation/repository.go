package reservation

import (
	"context"
	"time"
)

// ListFilter 预留列表查询条件
type ListFilter struct {
	OrderID   uint   // 0表示不过滤
	ProductID uint   // 0表示不过滤
	Status    Status // 空表示不过滤
	Limit     int
	Offset    int
}

// Repository 预留仓储接口（领域层定义）
//
// 状态迁移约束：MarkCompleted / MarkReleased / MarkExpired 只在当前
// 状态为active时生效；预留不存在返回ErrNotFound，已处于终态返回
// ErrNotActive（两者必须可区分）。迁移本身不触碰账本计数器——
// 需要同时变更账本的操作（释放、过期回收）由应用层在同一事务内
// 组合账本Release与状态迁移。
type Repository interface {
	// Create 创建预留（仅在账本Reserve成功后调用，status=active）
	Create(ctx context.Context, r *Reservation) error

	// GetByID 根据ID获取预留（不存在返回ErrNotFound）
	GetByID(ctx context.Context, id uint) (*Reservation, error)

	// GetActiveByOrder 获取订单的所有活跃预留
	GetActiveByOrder(ctx context.Context, orderID uint) ([]*Reservation, error)

	// List 按条件分页查询，按创建时间倒序（最新在前）
	List(ctx context.Context, filter ListFilter) ([]*Reservation, error)

	// GetExpired 获取已超时但仍为active的预留（expires_at <= now，最多limit条）
	GetExpired(ctx context.Context, now time.Time, limit int) ([]*Reservation, error)

	// MarkCompleted active → completed
	MarkCompleted(ctx context.Context, id uint) error

	// MarkReleased active → released
	MarkReleased(ctx context.Context, id uint) error

	// MarkExpired active → expired
	MarkExpired(ctx context.Context, id uint) error

	// CountActive 活跃预留总数（后台指标用）
	CountActive(ctx context.Context) (int64, error)
}
