package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为MySQL唯一索引冲突（错误码1062）
// 本服务的两处唯一约束：
// - idx_product_location: 同一商品在同一库位只能有一条库存记录
// - locations.name: 库位名称全局唯一
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 部分驱动/版本不翻译成gorm.ErrDuplicatedKey，退化为检查错误文本
	return strings.Contains(err.Error(), "Duplicate entry")
}
