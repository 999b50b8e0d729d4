package stock

import (
	apperrors "github.com/xiebiao/inventory/pkg/errors"
)

// 库存领域错误定义
var (
	// 参数错误
	ErrInvalidProductID       = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的商品ID")
	ErrInvalidLocationID      = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的库位ID")
	ErrInvalidQuantity        = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")
	ErrNegativeAvailable      = apperrors.New(apperrors.ErrCodeInvalidParams, "可用库存不能为负数")
	ErrNegativeReserved       = apperrors.New(apperrors.ErrCodeInvalidParams, "预留库存不能为负数")
	ErrInvalidReorderPoint    = apperrors.New(apperrors.ErrCodeInvalidParams, "补货触发点不能为负数")
	ErrInvalidReorderQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "补货数量必须大于0")
	ErrInvalidAdjustmentType  = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的调整类型")

	// 业务错误
	ErrNotFound            = apperrors.New(apperrors.ErrCodeInventoryNotFound, "库存记录不存在")
	ErrDuplicate           = apperrors.New(apperrors.ErrCodeDuplicateEntry, "该商品在此库位已有库存记录")
	ErrInsufficientStock   = apperrors.New(apperrors.ErrCodeInsufficientStock, "可用库存不足")
	ErrInsufficientReserve = apperrors.New(apperrors.ErrCodeConflict, "预留库存不足，无法释放")
	ErrNegativeInventory   = apperrors.New(apperrors.ErrCodeNegativeInventory, "调整会导致库存为负")
	ErrNotEmpty            = apperrors.New(apperrors.ErrCodeConflict, "库存记录不为空，禁止删除")
)
