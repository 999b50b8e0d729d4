package location

import (
	apperrors "github.com/xiebiao/inventory/pkg/errors"
)

// 库位领域错误定义
var (
	// ErrNotFound 库位不存在
	ErrNotFound = apperrors.New(apperrors.ErrCodeLocationNotFound, "库位不存在")

	// ErrNameDuplicate 库位名称已存在
	ErrNameDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "库位名称已存在")

	// ErrEmptyName 库位名称不能为空
	ErrEmptyName = apperrors.New(apperrors.ErrCodeInvalidParams, "库位名称不能为空")

	// ErrInvalidType 无效的库位类型
	ErrInvalidType = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的库位类型")
)
