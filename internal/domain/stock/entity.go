package stock

import (
	"time"

	"github.com/xiebiao/inventory/internal/domain/location"
)

// Inventory 库存实体（领域模型）
//
// 设计说明：
// 1. 双计数器设计
//   - QuantityAvailable：可用库存（可被新预留占用）
//   - QuantityReserved：已预留库存（被活跃预留占用）
//   - TotalQuantity = Available + Reserved，用于库存盘点
//
// 2. 为什么需要Reserved计数器？
//    场景：用户下单后需在限定时间内完成支付
//    - 直接扣减Available会让未支付订单永久占用库存
//    - 预留机制：下单预留 → 发货完成 / 取消释放 / 超时回收
//
// 3. (ProductID, LocationID)二元组全局唯一，一个商品在一个库位只有一条记录；
//    所有操作都限定在单个二元组内，不做跨库位搬运
type Inventory struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProductID  uint `gorm:"uniqueIndex:idx_product_location;index;not null" json:"product_id"`
	LocationID uint `gorm:"uniqueIndex:idx_product_location;not null" json:"location_id"`

	// 可用库存（任何时刻 >= 0）
	QuantityAvailable int `gorm:"not null;default:0" json:"quantity_available"`

	// 已预留库存（任何时刻 >= 0）
	QuantityReserved int `gorm:"not null;default:0" json:"quantity_reserved"`

	// 补货触发点：Available <= ReorderPoint 视为低库存
	ReorderPoint int `gorm:"not null;default:10" json:"reorder_point"`

	// 建议补货数量
	ReorderQuantity int `gorm:"not null;default:100" json:"reorder_quantity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 所属库位（查询时Preload填充）
	Location *location.Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
}

// TableName 指定表名
func (Inventory) TableName() string {
	return "inventory"
}

// TotalQuantity 总库存 = 可用 + 已预留
func (i *Inventory) TotalQuantity() int {
	return i.QuantityAvailable + i.QuantityReserved
}

// IsLowStock 是否低库存（可用量不高于补货触发点）
func (i *Inventory) IsLowStock() bool {
	return i.QuantityAvailable <= i.ReorderPoint
}

// Shortage 缺口 = 补货触发点 - 可用量，用于低库存排序（越大越紧急）
func (i *Inventory) Shortage() int {
	return i.ReorderPoint - i.QuantityAvailable
}

// CanReserve 判断是否可以预留指定数量
func (i *Inventory) CanReserve(quantity int) bool {
	return quantity > 0 && i.QuantityAvailable >= quantity
}

// CanRelease 判断是否可以释放指定数量的预留
func (i *Inventory) CanRelease(quantity int) bool {
	return quantity > 0 && i.QuantityReserved >= quantity
}

// Validate 验证库存实体
func (i *Inventory) Validate() error {
	if i.ProductID == 0 {
		return ErrInvalidProductID
	}
	if i.LocationID == 0 {
		return ErrInvalidLocationID
	}
	if i.QuantityAvailable < 0 {
		return ErrNegativeAvailable
	}
	if i.QuantityReserved < 0 {
		return ErrNegativeReserved
	}
	if i.ReorderPoint < 0 {
		return ErrInvalidReorderPoint
	}
	if i.ReorderQuantity < 1 {
		return ErrInvalidReorderQuantity
	}
	return nil
}
