package reservation

import "time"

// Status 预留状态
// 状态机：active（初始）→ released | completed | expired（均为终态）
// 终态不允许再发生任何迁移
type Status string

const (
	StatusActive    Status = "active"    // 活跃（库存已占用）
	StatusExpired   Status = "expired"   // 超时回收
	StatusReleased  Status = "released"  // 主动释放（订单取消）
	StatusCompleted Status = "completed" // 完成（库存已消耗）
)

// ParseStatus 解析预留状态（未知取值返回ErrInvalidStatusValue）
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusExpired, StatusReleased, StatusCompleted:
		return Status(s), nil
	default:
		return "", ErrInvalidStatusValue
	}
}

// Reservation 库存预留实体（领域模型）
//
// 设计说明：
// 1. 预留只能由一次成功的账本Reserve操作创建（数量在创建时已完成
//    available→reserved的迁移），创建后Quantity不可变
// 2. ProductID是冗余字段（InventoryID已能定位），保留它让按商品查询
//    不需要联表
// 3. ExpiresAt由创建时的过期窗口计算，超时后由清理协程回收
type Reservation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	InventoryID uint      `gorm:"index;not null" json:"inventory_id"`
	ProductID   uint      `gorm:"index:idx_res_product_status;not null" json:"product_id"`
	OrderID     uint      `gorm:"index:idx_res_order_status;not null" json:"order_id"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	ExpiresAt   time.Time `gorm:"index:idx_res_expires_status;not null" json:"expires_at"`
	Status      Status    `gorm:"type:varchar(20);not null;default:'active';index:idx_res_order_status;index:idx_res_expires_status;index:idx_res_product_status" json:"status"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Reservation) TableName() string {
	return "reservations"
}

// IsActive 是否处于活跃状态（唯一允许发生迁移的状态）
func (r *Reservation) IsActive() bool {
	return r.Status == StatusActive
}

// IsExpired 是否已过期（仍活跃但超过截止时间）
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.Status == StatusActive && !r.ExpiresAt.After(now)
}

// Validate 验证预留实体
func (r *Reservation) Validate() error {
	if r.InventoryID == 0 {
		return ErrInvalidInventoryID
	}
	if r.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if _, err := ParseStatus(string(r.Status)); err != nil {
		return err
	}
	return nil
}
