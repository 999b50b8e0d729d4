package location

import "time"

// LocationType 库位类型
// 设计说明：封闭枚举，边界处必须用ParseLocationType校验，拒绝未知取值
type LocationType string

const (
	TypeWarehouse LocationType = "warehouse" // 仓库/配送中心
	TypeStore     LocationType = "store"     // 线下门店
	TypeOnline    LocationType = "online"    // 线上虚拟库位
	TypeDropship  LocationType = "dropship"  // 供应商直发
)

// ParseLocationType 解析库位类型（未知取值返回ErrInvalidType）
func ParseLocationType(s string) (LocationType, error) {
	switch LocationType(s) {
	case TypeWarehouse, TypeStore, TypeOnline, TypeDropship:
		return LocationType(s), nil
	default:
		return "", ErrInvalidType
	}
}

// Location 库位实体（领域模型）
//
// 设计说明：
// 1. Name全局唯一（业务主键），用于人工辨识
// 2. 不支持物理删除：Deactivate将Active置为false（软删除），
//    保留历史库存与审计记录的引用完整性
type Location struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Address   string       `gorm:"type:text" json:"address,omitempty"`
	Type      LocationType `gorm:"type:varchar(20);not null;index:idx_type_active" json:"type"`
	Active    bool         `gorm:"not null;default:true;index:idx_type_active" json:"active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TableName 指定表名
func (Location) TableName() string {
	return "locations"
}

// Validate 验证库位实体
func (l *Location) Validate() error {
	if l.Name == "" {
		return ErrEmptyName
	}
	if _, err := ParseLocationType(string(l.Type)); err != nil {
		return err
	}
	return nil
}
