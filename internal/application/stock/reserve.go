package stock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/inventory/internal/domain/reservation"
	"github.com/xiebiao/inventory/internal/domain/stock"
	"github.com/xiebiao/inventory/internal/events"
	apperrors "github.com/xiebiao/inventory/pkg/errors"
	"github.com/xiebiao/inventory/pkg/metrics"
)

// ReserveInput 预留库存请求
type ReserveInput struct {
	ProductID      uint
	LocationID     uint
	OrderID        uint
	Quantity       int
	ExpiresMinutes int // 0表示使用默认过期窗口
}

// ReserveResult 预留结果
type ReserveResult struct {
	Reservation *reservation.Reservation
	Inventory   *stock.Inventory
}

// Reserve 预留库存
//
// 原子性保证：账本扣减（available→reserved）与预留记录创建在同一
// 事务内完成，任一步失败整体回滚——不存在"扣了库存没有预留单"或
// 反过来的中间态。
//
// 业务规则：
// 1. 数量必须为正
// 2. 过期窗口：0取默认值，否则必须在[1, max]分钟内
// 3. 可用库存不足时拒绝，错误信息包含请求量与可用量
func (s *Service) Reserve(ctx context.Context, in ReserveInput) (*ReserveResult, error) {
	start := time.Now()
	result := "error"
	defer func() {
		metrics.ObserveOperation("reserve", result, time.Since(start).Seconds())
	}()

	if in.ProductID == 0 {
		result = "invalid"
		return nil, stock.ErrInvalidProductID
	}
	if in.LocationID == 0 {
		result = "invalid"
		return nil, stock.ErrInvalidLocationID
	}
	if in.OrderID == 0 {
		result = "invalid"
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "订单ID不能为空")
	}
	if in.Quantity <= 0 {
		result = "invalid"
		return nil, stock.ErrInvalidQuantity
	}

	minutes := in.ExpiresMinutes
	if minutes == 0 {
		minutes = s.cfg.DefaultExpiresMinutes
	}
	if minutes < 1 || minutes > s.cfg.MaxExpiresMinutes {
		result = "invalid"
		return nil, apperrors.Newf(apperrors.ErrCodeInvalidParams,
			"无效的过期窗口: %d分钟（允许范围1-%d）", in.ExpiresMinutes, s.cfg.MaxExpiresMinutes)
	}

	var (
		res     *reservation.Reservation
		updated *stock.Inventory
		before  snapshot
	)

	err := s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		inv, err := s.invRepo.GetByProductAndLocation(txCtx, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		before = snapshotOf(inv)

		ok, err := s.invRepo.Reserve(txCtx, in.ProductID, in.LocationID, in.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.Newf(apperrors.ErrCodeInsufficientStock,
				"库存不足: 请求%d, 可用%d", in.Quantity, before.available)
		}

		res = &reservation.Reservation{
			InventoryID: inv.ID,
			ProductID:   in.ProductID,
			OrderID:     in.OrderID,
			Quantity:    in.Quantity,
			ExpiresAt:   time.Now().Add(time.Duration(minutes) * time.Minute),
			Status:      reservation.StatusActive,
		}
		if err := s.resRepo.Create(txCtx, res); err != nil {
			return err
		}

		// 事务内重读，拿到扣减后的计数器作为事件快照
		updated, err = s.invRepo.GetByID(txCtx, inv.ID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, stock.ErrNotFound):
			result = "not_found"
		case apperrors.CodeOf(err) == apperrors.ErrCodeInsufficientStock:
			result = "insufficient"
		}
		return nil, err
	}

	// 提交后副作用：缓存失效 + 事件
	s.cache.Invalidate(ctx, in.ProductID)

	corrID := uuid.NewString()
	s.publisher.Publish(ctx, events.TopicReserved, events.NewEnvelope(events.TopicReserved, corrID, &events.ReservedData{
		ReservationID: res.ID,
		ProductID:     in.ProductID,
		LocationID:    in.LocationID,
		OrderID:       in.OrderID,
		Quantity:      in.Quantity,
		ExpiresAt:     res.ExpiresAt,
	}))
	s.publishUpdated(ctx, corrID, "reserved", updated, before)
	s.publishLowStockIfCrossed(ctx, corrID, updated, before)

	result = "success"
	return &ReserveResult{Reservation: res, Inventory: updated}, nil
}
