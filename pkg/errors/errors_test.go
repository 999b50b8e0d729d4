package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodeInsufficientStock, "可用库存不足")
	want := "[40001] 可用库存不足"
	if err.Error() != want {
		t.Errorf("Error() = %q, 期望 %q", err.Error(), want)
	}
}

func TestWrap_PreservesInnerError(t *testing.T) {
	inner := errors.New("connection refused")
	err := Wrap(inner, "数据库错误")

	if err.Code != ErrCodeInternal {
		t.Errorf("Wrap应使用内部错误码, 实际=%d", err.Code)
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is应能穿透到内部错误")
	}
}

func TestGetAppError(t *testing.T) {
	// AppError直接提取
	appErr := New(ErrCodeConflict, "状态冲突")
	if got := GetAppError(appErr); got != appErr {
		t.Error("AppError应原样返回")
	}

	// 包装后的AppError也能提取
	wrapped := fmt.Errorf("外层: %w", appErr)
	if got := GetAppError(wrapped); got.Code != ErrCodeConflict {
		t.Errorf("包装后的AppError应提取出原错误码, 实际=%d", got.Code)
	}

	// 普通error转为内部错误
	plain := errors.New("boom")
	got := GetAppError(plain)
	if got.Code != ErrCodeInternal {
		t.Errorf("普通错误应转为内部错误码, 实际=%d", got.Code)
	}
	if got.Err != plain {
		t.Error("原始错误应保留在Err字段")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(ErrCodeNegativeInventory, "库存为负")); got != ErrCodeNegativeInventory {
		t.Errorf("CodeOf = %d, 期望 %d", got, ErrCodeNegativeInventory)
	}
	if got := CodeOf(errors.New("boom")); got != ErrCodeInternal {
		t.Errorf("普通错误CodeOf = %d, 期望 %d", got, ErrCodeInternal)
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(New(ErrCodeNotFound, "不存在")) {
		t.Error("AppError应被识别")
	}
	if IsAppError(errors.New("boom")) {
		t.Error("普通错误不应被识别为AppError")
	}
}
