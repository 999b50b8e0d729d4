package stock

import (
	"context"

	"github.com/xiebiao/inventory/internal/domain/location"
	"github.com/xiebiao/inventory/internal/domain/reservation"
	"github.com/xiebiao/inventory/internal/domain/stock"
	"github.com/xiebiao/inventory/internal/events"
	"github.com/xiebiao/inventory/internal/infrastructure/config"
	"github.com/xiebiao/inventory/pkg/metrics"
)

// TxManager 事务管理接口（由mysql.TxManager实现）
// fn内通过context传递事务，所有Repository调用进入同一事务
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// StatsCache 商品统计缓存接口（由redis.StatsCache实现）
// 缓存操作不返回错误：实现内部降级，故障时行为等同于未命中
type StatsCache interface {
	Get(ctx context.Context, productID uint) *stock.ProductStats
	Set(ctx context.Context, stats *stock.ProductStats)
	Invalidate(ctx context.Context, productID uint)
}

// NoopStatsCache 空缓存实现（Redis未启用时使用）
type NoopStatsCache struct{}

func (NoopStatsCache) Get(context.Context, uint) *stock.ProductStats { return nil }
func (NoopStatsCache) Set(context.Context, *stock.ProductStats)      {}
func (NoopStatsCache) Invalidate(context.Context, uint)              {}

// Service 库存应用服务
//
// 职责：
// 1. 编排跨仓储的原子操作（TxManager组合账本变更与预留记录）
// 2. 参数校验与业务错误映射
// 3. 提交后的副作用：缓存失效、指标上报、事件发布
type Service struct {
	invRepo   stock.Repository
	adjRepo   stock.AdjustmentRepository
	resRepo   reservation.Repository
	locRepo   location.Repository
	txManager TxManager
	cache     StatsCache
	publisher events.Publisher
	cfg       config.InventoryConfig
}

// NewService 创建库存应用服务
func NewService(
	invRepo stock.Repository,
	adjRepo stock.AdjustmentRepository,
	resRepo reservation.Repository,
	locRepo location.Repository,
	txManager TxManager,
	cache StatsCache,
	publisher events.Publisher,
	cfg config.InventoryConfig,
) *Service {
	if cache == nil {
		cache = NoopStatsCache{}
	}
	return &Service{
		invRepo:   invRepo,
		adjRepo:   adjRepo,
		resRepo:   resRepo,
		locRepo:   locRepo,
		txManager: txManager,
		cache:     cache,
		publisher: publisher,
		cfg:       cfg,
	}
}

// snapshot 库存计数器快照（事件的before/after字段用）
type snapshot struct {
	available int
	reserved  int
	lowStock  bool
}

func snapshotOf(inv *stock.Inventory) snapshot {
	return snapshot{
		available: inv.QuantityAvailable,
		reserved:  inv.QuantityReserved,
		lowStock:  inv.IsLowStock(),
	}
}

// publishUpdated 发布库存变更通知
func (s *Service) publishUpdated(ctx context.Context, correlationID, updateType string, inv *stock.Inventory, before snapshot) {
	env := events.NewEnvelope(events.TopicUpdated, correlationID, &events.UpdatedData{
		ProductID:       inv.ProductID,
		LocationID:      inv.LocationID,
		Available:       inv.QuantityAvailable,
		Reserved:        inv.QuantityReserved,
		UpdateType:      updateType,
		BeforeAvailable: before.available,
		BeforeReserved:  before.reserved,
	})
	s.publisher.Publish(ctx, events.TopicUpdated, env)
}

// publishLowStockIfCrossed 库存从正常跌入低位时发出一次告警
func (s *Service) publishLowStockIfCrossed(ctx context.Context, correlationID string, inv *stock.Inventory, before snapshot) {
	if before.lowStock || !inv.IsLowStock() {
		return
	}

	level := events.AlertLevel(inv.QuantityAvailable, inv.ReorderPoint)
	metrics.IncLowStockAlert(level)
	env := events.NewEnvelope(events.TopicLowStockAlert, correlationID, &events.LowStockAlertData{
		ProductID:       inv.ProductID,
		LocationID:      inv.LocationID,
		Available:       inv.QuantityAvailable,
		ReorderPoint:    inv.ReorderPoint,
		ReorderQuantity: inv.ReorderQuantity,
		Shortage:        inv.Shortage(),
		Level:           level,
	})
	s.publisher.Publish(ctx, events.TopicLowStockAlert, env)
}
