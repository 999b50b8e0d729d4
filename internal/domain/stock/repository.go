package stock

import "context"

// Repository 库存仓储接口（领域层定义）
//
// 并发纪律：
// Reserve / Release / Adjust 三个写操作必须对同一条记录串行化——
// 实现方在同一事务内先以排他锁（SELECT FOR UPDATE或等价机制）读取记录，
// 校验后写回，锁在事务提交或回滚时释放。不同记录之间互不阻塞。
// 任何时刻两个计数器都不允许出现负值。
type Repository interface {
	// Create 创建库存记录（二元组重复返回ErrDuplicate）
	Create(ctx context.Context, inv *Inventory) error

	// GetByID 根据ID获取库存（不存在返回ErrNotFound）
	GetByID(ctx context.Context, id uint) (*Inventory, error)

	// GetByProductAndLocation 根据(商品,库位)获取库存（不存在返回ErrNotFound）
	GetByProductAndLocation(ctx context.Context, productID, locationID uint) (*Inventory, error)

	// GetByProduct 获取商品在所有库位的库存记录
	GetByProduct(ctx context.Context, productID uint) ([]*Inventory, error)

	// GetLowStock 获取低库存记录（Available <= ReorderPoint）
	// locationID为0表示不过滤库位
	GetLowStock(ctx context.Context, locationID uint, limit int) ([]*Inventory, error)

	// UpdateSettings 更新补货参数（nil字段不更新；不存在返回ErrNotFound）
	UpdateSettings(ctx context.Context, id uint, reorderPoint, reorderQuantity *int) (*Inventory, error)

	// Delete 删除库存记录（仅限两个计数器均为0的空记录的管理清理）
	Delete(ctx context.Context, id uint) error

	// Reserve 预留库存（原子操作：available -= qty; reserved += qty）
	// 记录不存在或可用不足时返回false且不产生任何变更
	Reserve(ctx context.Context, productID, locationID uint, quantity int) (bool, error)

	// Release 释放预留（原子操作：reserved -= qty; available += qty）
	// 记录不存在或预留不足时返回false且不产生任何变更
	Release(ctx context.Context, productID, locationID uint, quantity int) (bool, error)

	// Adjust 调整可用库存并在同一事务写入一条Adjustment审计记录
	// 记录不存在或available+delta<0时返回false且不产生任何变更
	Adjust(ctx context.Context, productID, locationID uint, delta int, t AdjustmentType, reason, createdBy string) (bool, error)

	// CountRecords 库存记录总数（后台指标用）
	CountRecords(ctx context.Context) (int64, error)
}

// AdjustmentRepository 调整流水查询接口
// 写入由Repository.Adjust在同一事务内完成，这里只提供只读查询
type AdjustmentRepository interface {
	// ListByInventory 查询指定库存记录的调整流水（按时间倒序）
	ListByInventory(ctx context.Context, inventoryID uint, limit, offset int) ([]*Adjustment, error)

	// ListByProduct 查询指定商品的调整流水（按时间倒序）
	ListByProduct(ctx context.Context, productID uint, limit, offset int) ([]*Adjustment, error)
}
