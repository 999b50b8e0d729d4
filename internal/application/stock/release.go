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

// ReleaseInput 按订单释放预留请求
type ReleaseInput struct {
	OrderID    uint
	ProductID  uint
	LocationID uint
	Quantity   int
}

// ReleaseResult 释放结果
type ReleaseResult struct {
	Reservation *reservation.Reservation
	Inventory   *stock.Inventory
}

// ReleaseByOrder 按订单释放预留
//
// 匹配规则：在订单的活跃预留中，找到商品、库位（经库存记录间接
// 关联）、数量完全一致的一条。找不到匹配返回预留不存在错误——
// 部分释放不支持，数量必须与预留时一致。
//
// 原子性：账本回补（reserved→available）与状态迁移（active→released）
// 同一事务，失败整体回滚。
func (s *Service) ReleaseByOrder(ctx context.Context, in ReleaseInput) (*ReleaseResult, error) {
	start := time.Now()
	result := "error"
	defer func() {
		metrics.ObserveOperation("release", result, time.Since(start).Seconds())
	}()

	if in.OrderID == 0 {
		result = "invalid"
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "订单ID不能为空")
	}
	if in.ProductID == 0 {
		result = "invalid"
		return nil, stock.ErrInvalidProductID
	}
	if in.LocationID == 0 {
		result = "invalid"
		return nil, stock.ErrInvalidLocationID
	}
	if in.Quantity <= 0 {
		result = "invalid"
		return nil, stock.ErrInvalidQuantity
	}

	var (
		matched *reservation.Reservation
		updated *stock.Inventory
		before  snapshot
	)

	err := s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		inv, err := s.invRepo.GetByProductAndLocation(txCtx, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		before = snapshotOf(inv)

		actives, err := s.resRepo.GetActiveByOrder(txCtx, in.OrderID)
		if err != nil {
			return err
		}
		for _, res := range actives {
			if res.ProductID == in.ProductID && res.InventoryID == inv.ID && res.Quantity == in.Quantity {
				matched = res
				break
			}
		}
		if matched == nil {
			return reservation.ErrNotFound
		}

		ok, err := s.invRepo.Release(txCtx, in.ProductID, in.LocationID, in.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			// 预留记录存在但账本对不上，说明计数器被绕过修改
			return apperrors.New(apperrors.ErrCodeConflict, "预留量与账本不一致，无法释放")
		}

		if err := s.resRepo.MarkReleased(txCtx, matched.ID); err != nil {
			return err
		}

		updated, err = s.invRepo.GetByID(txCtx, inv.ID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, stock.ErrNotFound), errors.Is(err, reservation.ErrNotFound):
			result = "not_found"
		case apperrors.CodeOf(err) == apperrors.ErrCodeConflict:
			result = "conflict"
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, in.ProductID)

	corrID := uuid.NewString()
	s.publisher.Publish(ctx, events.TopicReleased, events.NewEnvelope(events.TopicReleased, corrID, &events.ReleasedData{
		ReservationID: matched.ID,
		ProductID:     in.ProductID,
		LocationID:    in.LocationID,
		OrderID:       in.OrderID,
		Quantity:      in.Quantity,
		Reason:        "order",
	}))
	s.publishUpdated(ctx, corrID, "released", updated, before)

	result = "success"
	matched.Status = reservation.StatusReleased
	return &ReleaseResult{Reservation: matched, Inventory: updated}, nil
}
