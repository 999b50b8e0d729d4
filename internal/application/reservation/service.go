package reservation

import (
	"context"
	"time"

	"github.com/xiebiao/inventory/internal/domain/reservation"
	"github.com/xiebiao/inventory/internal/domain/stock"
	"github.com/xiebiao/inventory/internal/events"
)

// TxManager 事务管理接口（由mysql.TxManager实现）
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// StatsCache 商品统计缓存接口（释放/过期后失效用）
type StatsCache interface {
	Invalidate(ctx context.Context, productID uint)
}

// noopCache Redis未启用时的空实现
type noopCache struct{}

func (noopCache) Invalidate(context.Context, uint) {}

// Service 预留应用服务
//
// 职责：预留生命周期管理——完成、释放、过期回收、查询。
// 创建预留由库存服务的Reserve完成（账本扣减与预留创建必须同事务）。
type Service struct {
	resRepo   reservation.Repository
	invRepo   stock.Repository
	txManager TxManager
	cache     StatsCache
	publisher events.Publisher
}

// NewService 创建预留应用服务
func NewService(
	resRepo reservation.Repository,
	invRepo stock.Repository,
	txManager TxManager,
	cache StatsCache,
	publisher events.Publisher,
) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{
		resRepo:   resRepo,
		invRepo:   invRepo,
		txManager: txManager,
		cache:     cache,
		publisher: publisher,
	}
}

// GetByID 根据ID获取预留
func (s *Service) GetByID(ctx context.Context, id uint) (*reservation.Reservation, error) {
	return s.resRepo.GetByID(ctx, id)
}

// List 预留列表（最新在前）
func (s *Service) List(ctx context.Context, filter reservation.ListFilter) ([]*reservation.Reservation, error) {
	if filter.Status != "" {
		if _, err := reservation.ParseStatus(string(filter.Status)); err != nil {
			return nil, err
		}
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.resRepo.List(ctx, filter)
}

// GetExpired 查询已超时但尚未回收的预留（只读，不触发回收）
func (s *Service) GetExpired(ctx context.Context, limit int) ([]*reservation.Reservation, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.resRepo.GetExpired(ctx, time.Now(), limit)
}
