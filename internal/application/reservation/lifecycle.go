package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/inventory/internal/domain/reservation"
	"github.com/xiebiao/inventory/internal/domain/stock"
	"github.com/xiebiao/inventory/internal/events"
	apperrors "github.com/xiebiao/inventory/pkg/errors"
	"github.com/xiebiao/inventory/pkg/metrics"
)

// Complete 完成预留（active → completed）
//
// 完成表示预留的商品已消耗（订单发货），预留量不回补可用库存。
// 账本的reserved计数保持不变，与预留创建时的扣减一起构成
// "已售出"口径。已处于终态的预留返回状态错误，不可重复完成。
func (s *Service) Complete(ctx context.Context, id uint) (*reservation.Reservation, error) {
	start := time.Now()
	result := "error"
	defer func() {
		metrics.ObserveOperation("complete", result, time.Since(start).Seconds())
	}()

	if err := s.resRepo.MarkCompleted(ctx, id); err != nil {
		switch err {
		case reservation.ErrNotFound:
			result = "not_found"
		case reservation.ErrNotActive:
			result = "conflict"
		}
		return nil, err
	}

	res, err := s.resRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result = "success"
	return res, nil
}

// Release 按ID释放预留（active → released）
//
// 账本回补（reserved→available）与状态迁移同一事务。释放后的
// 数量立即可被其他订单预留。
func (s *Service) Release(ctx context.Context, id uint) (*reservation.Reservation, error) {
	start := time.Now()
	result := "error"
	defer func() {
		metrics.ObserveOperation("release_by_id", result, time.Since(start).Seconds())
	}()

	res, inv, err := s.releaseOne(ctx, id)
	if err != nil {
		switch {
		case err == reservation.ErrNotFound || err == stock.ErrNotFound:
			result = "not_found"
		case err == reservation.ErrNotActive:
			result = "conflict"
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, res.ProductID)

	corrID := uuid.NewString()
	s.publisher.Publish(ctx, events.TopicReleased, events.NewEnvelope(events.TopicReleased, corrID, &events.ReleasedData{
		ReservationID: res.ID,
		ProductID:     res.ProductID,
		LocationID:    inv.LocationID,
		OrderID:       res.OrderID,
		Quantity:      res.Quantity,
		Reason:        "manual",
	}))

	result = "success"
	res.Status = reservation.StatusReleased
	return res, nil
}

// Expire 过期回收单条预留（active → expired）
//
// 清理任务逐条调用：账本回补与状态迁移同一事务，单条失败不影响
// 同批其他预留。
func (s *Service) Expire(ctx context.Context, id uint) error {
	res, inv, err := s.releaseOneExpired(ctx, id)
	if err != nil {
		return err
	}

	metrics.IncReservationExpired()
	s.cache.Invalidate(ctx, res.ProductID)

	corrID := uuid.NewString()
	s.publisher.Publish(ctx, events.TopicReleased, events.NewEnvelope(events.TopicReleased, corrID, &events.ReleasedData{
		ReservationID: res.ID,
		ProductID:     res.ProductID,
		LocationID:    inv.LocationID,
		OrderID:       res.OrderID,
		Quantity:      res.Quantity,
		Reason:        "expired",
	}))

	return nil
}

// releaseOne 事务内完成"账本回补 + active→released"
func (s *Service) releaseOne(ctx context.Context, id uint) (*reservation.Reservation, *stock.Inventory, error) {
	return s.releaseTx(ctx, id, s.resRepo.MarkReleased)
}

// releaseOneExpired 事务内完成"账本回补 + active→expired"
func (s *Service) releaseOneExpired(ctx context.Context, id uint) (*reservation.Reservation, *stock.Inventory, error) {
	return s.releaseTx(ctx, id, s.resRepo.MarkExpired)
}

// releaseTx 释放与过期共用的事务骨架，mark决定目标终态
func (s *Service) releaseTx(ctx context.Context, id uint, mark func(context.Context, uint) error) (*reservation.Reservation, *stock.Inventory, error) {
	var (
		res *reservation.Reservation
		inv *stock.Inventory
	)

	err := s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		var err error
		res, err = s.resRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !res.IsActive() {
			return reservation.ErrNotActive
		}

		inv, err = s.invRepo.GetByID(txCtx, res.InventoryID)
		if err != nil {
			return err
		}

		ok, err := s.invRepo.Release(txCtx, res.ProductID, inv.LocationID, res.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.New(apperrors.ErrCodeConflict, "预留量与账本不一致，无法释放")
		}

		return mark(txCtx, res.ID)
	})
	if err != nil {
		return nil, nil, err
	}

	return res, inv, nil
}
