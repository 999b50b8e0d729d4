package stock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/inventory/internal/domain/stock"
	"github.com/xiebiao/inventory/internal/events"
	apperrors "github.com/xiebiao/inventory/pkg/errors"
	"github.com/xiebiao/inventory/pkg/metrics"
)

// AdjustInput 库存调整请求
type AdjustInput struct {
	ProductID  uint
	LocationID uint
	Quantity   int // 带符号增量：正数入库，负数出库
	Type       stock.AdjustmentType
	Reason     string
	CreatedBy  string // 为空时记为system
}

// AdjustResult 调整结果
type AdjustResult struct {
	Inventory *stock.Inventory
}

// Adjust 调整可用库存
//
// 审计保证：每次调整在同一事务内写入一条流水（类型、带符号数量、
// 原因、操作人），账本与流水要么都落库要么都不落。
//
// 负库存保护：调整后available不得小于0，违反时拒绝并在错误中
// 给出当前可用量。调整不触碰reserved。
func (s *Service) Adjust(ctx context.Context, in AdjustInput) (*AdjustResult, error) {
	start := time.Now()
	result := "error"
	defer func() {
		metrics.ObserveOperation("adjust", result, time.Since(start).Seconds())
	}()

	if in.ProductID == 0 {
		result = "invalid"
		return nil, stock.ErrInvalidProductID
	}
	if in.LocationID == 0 {
		result = "invalid"
		return nil, stock.ErrInvalidLocationID
	}
	if in.Quantity == 0 {
		result = "invalid"
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "调整数量不能为0")
	}
	if _, err := stock.ParseAdjustmentType(string(in.Type)); err != nil {
		result = "invalid"
		return nil, err
	}

	var (
		updated *stock.Inventory
		before  snapshot
	)

	err := s.txManager.Transaction(ctx, func(txCtx context.Context) error {
		inv, err := s.invRepo.GetByProductAndLocation(txCtx, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		before = snapshotOf(inv)

		ok, err := s.invRepo.Adjust(txCtx, in.ProductID, in.LocationID, in.Quantity, in.Type, in.Reason, in.CreatedBy)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.Newf(apperrors.ErrCodeNegativeInventory,
				"调整后库存为负: 当前可用%d, 调整%d", before.available, in.Quantity)
		}

		updated, err = s.invRepo.GetByID(txCtx, inv.ID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, stock.ErrNotFound):
			result = "not_found"
		case apperrors.CodeOf(err) == apperrors.ErrCodeNegativeInventory:
			result = "negative"
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, in.ProductID)

	corrID := uuid.NewString()
	s.publisher.Publish(ctx, events.TopicAdjusted, events.NewEnvelope(events.TopicAdjusted, corrID, &events.AdjustedData{
		ProductID:      in.ProductID,
		LocationID:     in.LocationID,
		AdjustmentType: string(in.Type),
		Quantity:       in.Quantity,
		BeforeQuantity: before.available,
		AfterQuantity:  updated.QuantityAvailable,
		Reason:         in.Reason,
		CreatedBy:      in.CreatedBy,
	}))
	s.publishUpdated(ctx, corrID, "adjusted", updated, before)
	s.publishLowStockIfCrossed(ctx, corrID, updated, before)

	result = "success"
	return &AdjustResult{Inventory: updated}, nil
}
