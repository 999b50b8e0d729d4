package dto

import (
	"time"

	"github.com/xiebiao/inventory/internal/domain/location"
)

// CreateLocationRequest 创建库位请求
type CreateLocationRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Type    string `json:"type" binding:"required"`
}

// UpdateLocationRequest 更新库位请求（nil字段不更新）
type UpdateLocationRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Type    *string `json:"type"`
	Active  *bool   `json:"active"`
}

// LocationResponse 库位响应
type LocationResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Type      string    `json:"type"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToLocationResponse 领域对象转响应DTO
func ToLocationResponse(loc *location.Location) *LocationResponse {
	return &LocationResponse{
		ID:        loc.ID,
		Name:      loc.Name,
		Address:   loc.Address,
		Type:      string(loc.Type),
		Active:    loc.Active,
		CreatedAt: loc.CreatedAt,
		UpdatedAt: loc.UpdatedAt,
	}
}

// ToLocationResponses 批量转换
func ToLocationResponses(locs []*location.Location) []*LocationResponse {
	out := make([]*LocationResponse, 0, len(locs))
	for _, loc := range locs {
		out = append(out, ToLocationResponse(loc))
	}
	return out
}
