package stock

import (
	"context"

	"github.com/xiebiao/inventory/internal/domain/stock"
	apperrors "github.com/xiebiao/inventory/pkg/errors"
)

// CreateInput 创建库存记录请求
type CreateInput struct {
	ProductID         uint
	LocationID        uint
	QuantityAvailable int
	ReorderPoint      *int // nil使用默认值
	ReorderQuantity   *int // nil使用默认值
}

// Create 创建库存记录
//
// 前置校验：库位必须存在且处于激活状态。同一(商品,库位)只允许
// 一条记录，重复创建返回冲突。初始reserved恒为0——预留只能通过
// Reserve产生。
func (s *Service) Create(ctx context.Context, in CreateInput) (*stock.Inventory, error) {
	if in.ProductID == 0 {
		return nil, stock.ErrInvalidProductID
	}
	if in.LocationID == 0 {
		return nil, stock.ErrInvalidLocationID
	}
	if in.QuantityAvailable < 0 {
		return nil, stock.ErrNegativeAvailable
	}

	loc, err := s.locRepo.GetByID(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}
	if !loc.Active {
		return nil, apperrors.Newf(apperrors.ErrCodeConflict, "库位已停用: %s", loc.Name)
	}

	inv := &stock.Inventory{
		ProductID:         in.ProductID,
		LocationID:        in.LocationID,
		QuantityAvailable: in.QuantityAvailable,
		ReorderPoint:      10,
		ReorderQuantity:   100,
	}
	if in.ReorderPoint != nil {
		inv.ReorderPoint = *in.ReorderPoint
	}
	if in.ReorderQuantity != nil {
		inv.ReorderQuantity = *in.ReorderQuantity
	}

	if err := s.invRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, in.ProductID)
	return s.invRepo.GetByID(ctx, inv.ID)
}
