package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/inventory/internal/domain/stock"
)

// inventoryRepository MySQL库存仓储实现
//
// 并发控制：Reserve/Release/Adjust均为"事务 + SELECT FOR UPDATE"——
// 先锁定目标行，再检查计数器，最后写回。锁在COMMIT/ROLLBACK时释放，
// 保证同一(product, location)上的写操作串行化，不同行互不阻塞。
//
// ❌ DON'T：先SELECT再UPDATE（两个并发请求都能通过余量检查，导致超卖）
// ✅ DO：锁内完成"读取-校验-写回"
type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓储实例
func NewInventoryRepository(db *gorm.DB) stock.Repository {
	return &inventoryRepository{db: db}
}

// Create 创建库存记录
func (r *inventoryRepository) Create(ctx context.Context, inv *stock.Inventory) error {
	if err := inv.Validate(); err != nil {
		return err
	}

	if err := getDB(ctx, r.db).Create(inv).Error; err != nil {
		if isDuplicateError(err) {
			return stock.ErrDuplicate
		}
		return fmt.Errorf("创建库存记录失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取库存
func (r *inventoryRepository) GetByID(ctx context.Context, id uint) (*stock.Inventory, error) {
	var inv stock.Inventory

	if err := getDB(ctx, r.db).Preload("Location").First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, stock.ErrNotFound
		}
		return nil, fmt.Errorf("查询库存失败: %w", err)
	}

	return &inv, nil
}

// GetByProductAndLocation 根据(商品,库位)获取库存
func (r *inventoryRepository) GetByProductAndLocation(ctx context.Context, productID, locationID uint) (*stock.Inventory, error) {
	var inv stock.Inventory

	err := getDB(ctx, r.db).Preload("Location").
		Where("product_id = ? AND location_id = ?", productID, locationID).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, stock.ErrNotFound
		}
		return nil, fmt.Errorf("查询库存失败: %w", err)
	}

	return &inv, nil
}

// GetByProduct 获取商品在所有库位的库存记录
func (r *inventoryRepository) GetByProduct(ctx context.Context, productID uint) ([]*stock.Inventory, error) {
	var invs []*stock.Inventory

	err := getDB(ctx, r.db).Preload("Location").
		Where("product_id = ?", productID).
		Find(&invs).Error
	if err != nil {
		return nil, fmt.Errorf("查询商品库存失败: %w", err)
	}

	return invs, nil
}

// GetLowStock 获取低库存记录
func (r *inventoryRepository) GetLowStock(ctx context.Context, locationID uint, limit int) ([]*stock.Inventory, error) {
	query := getDB(ctx, r.db).Preload("Location").
		Where("quantity_available <= reorder_point")

	if locationID != 0 {
		query = query.Where("location_id = ?", locationID)
	}

	var invs []*stock.Inventory
	if err := query.Limit(limit).Find(&invs).Error; err != nil {
		return nil, fmt.Errorf("查询低库存失败: %w", err)
	}

	return invs, nil
}

// UpdateSettings 更新补货参数
func (r *inventoryRepository) UpdateSettings(ctx context.Context, id uint, reorderPoint, reorderQuantity *int) (*stock.Inventory, error) {
	updates := make(map[string]interface{})
	if reorderPoint != nil {
		if *reorderPoint < 0 {
			return nil, stock.ErrInvalidReorderPoint
		}
		updates["reorder_point"] = *reorderPoint
	}
	if reorderQuantity != nil {
		if *reorderQuantity < 1 {
			return nil, stock.ErrInvalidReorderQuantity
		}
		updates["reorder_quantity"] = *reorderQuantity
	}

	if len(updates) > 0 {
		result := getDB(ctx, r.db).Model(&stock.Inventory{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("更新补货参数失败: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, stock.ErrNotFound
		}
	}

	return r.GetByID(ctx, id)
}

// Delete 删除库存记录（仅限空记录的管理清理）
func (r *inventoryRepository) Delete(ctx context.Context, id uint) error {
	return getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var inv stock.Inventory

		// 锁定后校验，防止删除与预留并发竞争
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&inv, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return stock.ErrNotFound
			}
			return fmt.Errorf("锁定库存失败: %w", err)
		}

		if inv.QuantityAvailable != 0 || inv.QuantityReserved != 0 {
			return stock.ErrNotEmpty
		}

		if err := tx.Delete(&stock.Inventory{}, id).Error; err != nil {
			return fmt.Errorf("删除库存记录失败: %w", err)
		}

		return nil
	})
}

// Reserve 预留库存（使用悲观锁）
//
// 完整流程：
// 1. SELECT FOR UPDATE锁定库存行（其他事务等待此锁释放）
// 2. 检查可用库存是否充足
// 3. available -= qty; reserved += qty
// 4. COMMIT释放锁
func (r *inventoryRepository) Reserve(ctx context.Context, productID, locationID uint, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, stock.ErrInvalidQuantity
	}

	granted := false
	err := getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var inv stock.Inventory

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ? AND location_id = ?", productID, locationID).
			First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // 记录不存在：返回false，不报错
			}
			return fmt.Errorf("锁定库存失败: %w", err)
		}

		// 必须在锁内检查，否则并发扣减会超卖
		if !inv.CanReserve(quantity) {
			return nil
		}

		inv.QuantityAvailable -= quantity
		inv.QuantityReserved += quantity

		if err := tx.Save(&inv).Error; err != nil {
			return fmt.Errorf("预留库存失败: %w", err)
		}

		granted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return granted, nil
}

// Release 释放预留（使用悲观锁）
// 与Reserve对称：reserved -= qty; available += qty
func (r *inventoryRepository) Release(ctx context.Context, productID, locationID uint, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, stock.ErrInvalidQuantity
	}

	released := false
	err := getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var inv stock.Inventory

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ? AND location_id = ?", productID, locationID).
			First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("锁定库存失败: %w", err)
		}

		if !inv.CanRelease(quantity) {
			return nil
		}

		inv.QuantityReserved -= quantity
		inv.QuantityAvailable += quantity

		if err := tx.Save(&inv).Error; err != nil {
			return fmt.Errorf("释放库存失败: %w", err)
		}

		released = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return released, nil
}

// Adjust 调整可用库存并写入审计记录
//
// 完整流程：
// 1. SELECT FOR UPDATE锁定库存行
// 2. 负库存保护：available + delta < 0 则拒绝
// 3. available += delta
// 4. 同一事务插入一条Adjustment流水
func (r *inventoryRepository) Adjust(ctx context.Context, productID, locationID uint, delta int, t stock.AdjustmentType, reason, createdBy string) (bool, error) {
	if _, err := stock.ParseAdjustmentType(string(t)); err != nil {
		return false, err
	}

	adjusted := false
	err := getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var inv stock.Inventory

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ? AND location_id = ?", productID, locationID).
			First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("锁定库存失败: %w", err)
		}

		// 负库存保护
		if inv.QuantityAvailable+delta < 0 {
			return nil
		}

		inv.QuantityAvailable += delta

		if err := tx.Save(&inv).Error; err != nil {
			return fmt.Errorf("调整库存失败: %w", err)
		}

		// 审计流水与账本变更同事务，任一失败则整体回滚
		adj := stock.NewAdjustment(inv.ID, productID, t, delta, reason, createdBy)
		if err := tx.Create(adj).Error; err != nil {
			return fmt.Errorf("写入调整流水失败: %w", err)
		}

		adjusted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return adjusted, nil
}

// CountRecords 库存记录总数
func (r *inventoryRepository) CountRecords(ctx context.Context) (int64, error) {
	var count int64
	if err := getDB(ctx, r.db).Model(&stock.Inventory{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计库存记录失败: %w", err)
	}
	return count, nil
}

// adjustmentRepository MySQL调整流水查询实现
type adjustmentRepository struct {
	db *gorm.DB
}

// NewAdjustmentRepository 创建调整流水仓储实例
func NewAdjustmentRepository(db *gorm.DB) stock.AdjustmentRepository {
	return &adjustmentRepository{db: db}
}

// ListByInventory 查询指定库存记录的调整流水
func (r *adjustmentRepository) ListByInventory(ctx context.Context, inventoryID uint, limit, offset int) ([]*stock.Adjustment, error) {
	var adjs []*stock.Adjustment

	err := getDB(ctx, r.db).
		Where("inventory_id = ?", inventoryID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&adjs).Error
	if err != nil {
		return nil, fmt.Errorf("查询调整流水失败: %w", err)
	}

	return adjs, nil
}

// ListByProduct 查询指定商品的调整流水
func (r *adjustmentRepository) ListByProduct(ctx context.Context, productID uint, limit, offset int) ([]*stock.Adjustment, error) {
	var adjs []*stock.Adjustment

	err := getDB(ctx, r.db).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&adjs).Error
	if err != nil {
		return nil, fmt.Errorf("查询调整流水失败: %w", err)
	}

	return adjs, nil
}
