package dto

import (
	"time"

	appstock "github.com/xiebiao/inventory/internal/application/stock"
	"github.com/xiebiao/inventory/internal/domain/stock"
)

// CreateInventoryRequest 创建库存记录请求
type CreateInventoryRequest struct {
	ProductID         uint `json:"product_id" binding:"required"`
	LocationID        uint `json:"location_id" binding:"required"`
	QuantityAvailable int  `json:"quantity_available" binding:"gte=0"`
	ReorderPoint      *int `json:"reorder_point"`
	ReorderQuantity   *int `json:"reorder_quantity"`
}

// ReserveRequest 预留库存请求
type ReserveRequest struct {
	ProductID      uint `json:"product_id" binding:"required"`
	LocationID     uint `json:"location_id" binding:"required"`
	OrderID        uint `json:"order_id" binding:"required"`
	Quantity       int  `json:"quantity" binding:"required,gt=0"`
	ExpiresMinutes int  `json:"expires_minutes" binding:"gte=0"`
}

// ReleaseRequest 按订单释放预留请求
type ReleaseRequest struct {
	OrderID    uint `json:"order_id" binding:"required"`
	ProductID  uint `json:"product_id" binding:"required"`
	LocationID uint `json:"location_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,gt=0"`
}

// AdjustRequest 库存调整请求
// Quantity为带符号增量：正数入库，负数出库
type AdjustRequest struct {
	ProductID  uint   `json:"product_id" binding:"required"`
	LocationID uint   `json:"location_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required"`
	Type       string `json:"type" binding:"required"`
	Reason     string `json:"reason"`
	CreatedBy  string `json:"created_by"`
}

// UpdateSettingsRequest 更新补货参数请求
type UpdateSettingsRequest struct {
	ReorderPoint    *int `json:"reorder_point"`
	ReorderQuantity *int `json:"reorder_quantity"`
}

// InventoryResponse 库存记录响应
type InventoryResponse struct {
	ID                uint      `json:"id"`
	ProductID         uint      `json:"product_id"`
	LocationID        uint      `json:"location_id"`
	LocationName      string    `json:"location_name,omitempty"`
	QuantityAvailable int       `json:"quantity_available"`
	QuantityReserved  int       `json:"quantity_reserved"`
	TotalQuantity     int       `json:"total_quantity"`
	ReorderPoint      int       `json:"reorder_point"`
	ReorderQuantity   int       `json:"reorder_quantity"`
	LowStock          bool      `json:"low_stock"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToInventoryResponse 领域对象转响应DTO
func ToInventoryResponse(inv *stock.Inventory) *InventoryResponse {
	resp := &InventoryResponse{
		ID:                inv.ID,
		ProductID:         inv.ProductID,
		LocationID:        inv.LocationID,
		QuantityAvailable: inv.QuantityAvailable,
		QuantityReserved:  inv.QuantityReserved,
		TotalQuantity:     inv.TotalQuantity(),
		ReorderPoint:      inv.ReorderPoint,
		ReorderQuantity:   inv.ReorderQuantity,
		LowStock:          inv.IsLowStock(),
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
	}
	if inv.Location != nil {
		resp.LocationName = inv.Location.Name
	}
	return resp
}

// ToInventoryResponses 批量转换
func ToInventoryResponses(invs []*stock.Inventory) []*InventoryResponse {
	out := make([]*InventoryResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, ToInventoryResponse(inv))
	}
	return out
}

// LowStockItemResponse 低库存条目响应
type LowStockItemResponse struct {
	*InventoryResponse
	Shortage int `json:"shortage"`
}

// ToLowStockResponses 批量转换低库存条目
func ToLowStockResponses(items []*appstock.LowStockItem) []*LowStockItemResponse {
	out := make([]*LowStockItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, &LowStockItemResponse{
			InventoryResponse: ToInventoryResponse(item.Inventory),
			Shortage:          item.Shortage,
		})
	}
	return out
}

// AdjustmentResponse 调整流水响应
type AdjustmentResponse struct {
	ID          uint      `json:"id"`
	InventoryID uint      `json:"inventory_id"`
	ProductID   uint      `json:"product_id"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	Reason      string    `json:"reason"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToAdjustmentResponses 批量转换调整流水
func ToAdjustmentResponses(adjs []*stock.Adjustment) []*AdjustmentResponse {
	out := make([]*AdjustmentResponse, 0, len(adjs))
	for _, adj := range adjs {
		out = append(out, &AdjustmentResponse{
			ID:          adj.ID,
			InventoryID: adj.InventoryID,
			ProductID:   adj.ProductID,
			Type:        string(adj.Type),
			Quantity:    adj.Quantity,
			Reason:      adj.Reason,
			CreatedBy:   adj.CreatedBy,
			CreatedAt:   adj.CreatedAt,
		})
	}
	return out
}
