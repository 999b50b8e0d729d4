package dto

import (
	"time"

	"github.com/xiebiao/inventory/internal/domain/reservation"
)

// ReservationResponse 预留记录响应
type ReservationResponse struct {
	ID          uint      `json:"id"`
	InventoryID uint      `json:"inventory_id"`
	ProductID   uint      `json:"product_id"`
	OrderID     uint      `json:"order_id"`
	Quantity    int       `json:"quantity"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToReservationResponse 领域对象转响应DTO
func ToReservationResponse(res *reservation.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:          res.ID,
		InventoryID: res.InventoryID,
		ProductID:   res.ProductID,
		OrderID:     res.OrderID,
		Quantity:    res.Quantity,
		Status:      string(res.Status),
		ExpiresAt:   res.ExpiresAt,
		CreatedAt:   res.CreatedAt,
		UpdatedAt:   res.UpdatedAt,
	}
}

// ToReservationResponses 批量转换
func ToReservationResponses(list []*reservation.Reservation) []*ReservationResponse {
	out := make([]*ReservationResponse, 0, len(list))
	for _, res := range list {
		out = append(out, ToReservationResponse(res))
	}
	return out
}

// ReserveResponse 预留操作响应（预留记录+最新库存）
type ReserveResponse struct {
	Reservation *ReservationResponse `json:"reservation"`
	Inventory   *InventoryResponse   `json:"inventory"`
}
