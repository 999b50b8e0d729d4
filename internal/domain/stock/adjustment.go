package stock

import "time"

// AdjustmentType 库存调整类型
// 设计说明：封闭枚举，边界处必须用ParseAdjustmentType校验，拒绝未知取值
type AdjustmentType string

const (
	AdjustRestock    AdjustmentType = "restock"    // 补货入库
	AdjustDamage     AdjustmentType = "damage"     // 货损
	AdjustTheft      AdjustmentType = "theft"      // 失窃
	AdjustCorrection AdjustmentType = "correction" // 盘点修正
	AdjustReturn     AdjustmentType = "return"     // 退货入库
	AdjustManual     AdjustmentType = "manual"     // 人工调整
)

// ParseAdjustmentType 解析调整类型（未知取值返回ErrInvalidAdjustmentType）
func ParseAdjustmentType(s string) (AdjustmentType, error) {
	switch AdjustmentType(s) {
	case AdjustRestock, AdjustDamage, AdjustTheft, AdjustCorrection, AdjustReturn, AdjustManual:
		return AdjustmentType(s), nil
	default:
		return "", ErrInvalidAdjustmentType
	}
}

// Adjustment 库存调整记录（审计流水）
//
// 设计说明：
// 1. 只增不改（Append-Only）：所有人工库存变更必须可追溯，记录永不修改或删除
// 2. 与账本变更同事务写入：一次成功的Adjust对应恰好一条记录
// 3. Quantity是带符号的变更量（正数=增加，负数=减少）
type Adjustment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	InventoryID uint           `gorm:"index;not null" json:"inventory_id"`
	ProductID   uint           `gorm:"index:idx_adj_product_type;not null" json:"product_id"`
	Type        AdjustmentType `gorm:"type:varchar(20);not null;index:idx_adj_product_type" json:"adjustment_type"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	Reason      string         `gorm:"type:text" json:"reason,omitempty"`
	CreatedBy   string         `gorm:"size:255;not null" json:"created_by"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (Adjustment) TableName() string {
	return "inventory_adjustments"
}

// NewAdjustment 创建调整记录
func NewAdjustment(inventoryID, productID uint, t AdjustmentType, quantity int, reason, createdBy string) *Adjustment {
	if createdBy == "" {
		createdBy = "system"
	}
	return &Adjustment{
		InventoryID: inventoryID,
		ProductID:   productID,
		Type:        t,
		Quantity:    quantity,
		Reason:      reason,
		CreatedBy:   createdBy,
	}
}
