package reservation

import (
	apperrors "github.com/xiebiao/inventory/pkg/errors"
)

// 预留领域错误定义
//
// 设计说明：ErrNotFound与ErrNotActive必须是可区分的两个错误——
// 调用方需要区分"预留从未存在"（40403）和"预留已处于终态"（40003）
var (
	// ErrNotFound 预留不存在
	ErrNotFound = apperrors.New(apperrors.ErrCodeReservationNotFound, "预留不存在")

	// ErrNotActive 预留已处于终态，不允许再迁移
	ErrNotActive = apperrors.New(apperrors.ErrCodeInvalidStatus, "预留状态不允许此操作")

	// ErrInvalidInventoryID 无效的库存记录ID
	ErrInvalidInventoryID = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的库存记录ID")

	// ErrInvalidQuantity 无效的预留数量
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "预留数量必须大于0")

	// ErrInvalidStatusValue 无效的预留状态取值
	ErrInvalidStatusValue = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的预留状态")
)
