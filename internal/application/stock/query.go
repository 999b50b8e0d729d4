package stock

import (
	"context"
	"sort"

	"github.com/xiebiao/inventory/internal/domain/stock"
)

// GetByID 根据ID获取库存记录
func (s *Service) GetByID(ctx context.Context, id uint) (*stock.Inventory, error) {
	return s.invRepo.GetByID(ctx, id)
}

// GetByProductAndLocation 根据(商品,库位)获取库存记录
func (s *Service) GetByProductAndLocation(ctx context.Context, productID, locationID uint) (*stock.Inventory, error) {
	if productID == 0 {
		return nil, stock.ErrInvalidProductID
	}
	if locationID == 0 {
		return nil, stock.ErrInvalidLocationID
	}
	return s.invRepo.GetByProductAndLocation(ctx, productID, locationID)
}

// GetByProduct 获取商品在所有库位的库存记录
func (s *Service) GetByProduct(ctx context.Context, productID uint) ([]*stock.Inventory, error) {
	if productID == 0 {
		return nil, stock.ErrInvalidProductID
	}
	return s.invRepo.GetByProduct(ctx, productID)
}

// GetProductStats 商品跨库位库存汇总
// Cache-Aside：先读缓存，未命中回源DB并回填；缓存故障降级为直查DB
func (s *Service) GetProductStats(ctx context.Context, productID uint) (*stock.ProductStats, error) {
	if productID == 0 {
		return nil, stock.ErrInvalidProductID
	}

	if cached := s.cache.Get(ctx, productID); cached != nil {
		return cached, nil
	}

	records, err := s.invRepo.GetByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	stats := stock.BuildProductStats(productID, records)
	s.cache.Set(ctx, stats)
	return stats, nil
}

// LowStockItem 低库存条目（附缺口数量）
type LowStockItem struct {
	Inventory *stock.Inventory
	Shortage  int
}

// GetLowStock 获取低库存记录（按缺口从大到小排序）
// locationID=0表示不限库位；limit<=0使用配置默认值
func (s *Service) GetLowStock(ctx context.Context, locationID uint, limit int) ([]*LowStockItem, error) {
	if limit <= 0 {
		limit = s.cfg.LowStockLimit
	}

	records, err := s.invRepo.GetLowStock(ctx, locationID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]*LowStockItem, 0, len(records))
	for _, inv := range records {
		items = append(items, &LowStockItem{Inventory: inv, Shortage: inv.Shortage()})
	}

	// 缺口越大越紧急，排在前面
	sort.Slice(items, func(i, j int) bool {
		return items[i].Shortage > items[j].Shortage
	})

	return items, nil
}

// ListAdjustmentsByInventory 查询库存记录的调整流水
func (s *Service) ListAdjustmentsByInventory(ctx context.Context, inventoryID uint, limit, offset int) ([]*stock.Adjustment, error) {
	if limit <= 0 {
		limit = 50
	}
	// 先确认库存记录存在，区分"没有流水"和"记录不存在"
	if _, err := s.invRepo.GetByID(ctx, inventoryID); err != nil {
		return nil, err
	}
	return s.adjRepo.ListByInventory(ctx, inventoryID, limit, offset)
}

// ListAdjustmentsByProduct 查询商品的调整流水
func (s *Service) ListAdjustmentsByProduct(ctx context.Context, productID uint, limit, offset int) ([]*stock.Adjustment, error) {
	if productID == 0 {
		return nil, stock.ErrInvalidProductID
	}
	if limit <= 0 {
		limit = 50
	}
	return s.adjRepo.ListByProduct(ctx, productID, limit, offset)
}

// UpdateSettings 更新补货参数
func (s *Service) UpdateSettings(ctx context.Context, id uint, reorderPoint, reorderQuantity *int) (*stock.Inventory, error) {
	inv, err := s.invRepo.UpdateSettings(ctx, id, reorderPoint, reorderQuantity)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, inv.ProductID)
	return inv, nil
}

// Delete 删除空库存记录（管理清理）
// 仅当available与reserved均为0时允许
func (s *Service) Delete(ctx context.Context, id uint) error {
	inv, err := s.invRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.invRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, inv.ProductID)
	return nil
}
