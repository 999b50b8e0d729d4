package handler

import (
	"github.com/gin-gonic/gin"

	appstock "github.com/xiebiao/inventory/internal/application/stock"
	"github.com/xiebiao/inventory/internal/domain/stock"
	"github.com/xiebiao/inventory/internal/interface/http/dto"
	apperrors "github.com/xiebiao/inventory/pkg/errors"
	"github.com/xiebiao/inventory/pkg/response"
)

// InventoryHandler 库存HTTP处理器
type InventoryHandler struct {
	svc *appstock.Service
}

// NewInventoryHandler 创建库存处理器
func NewInventoryHandler(svc *appstock.Service) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Register 注册路由
func (h *InventoryHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/inventory")
	{
		g.POST("", h.Create)
		g.GET("/low-stock", h.LowStock)
		g.GET("/product/:product_id", h.GetByProduct)
		g.GET("/product/:product_id/stats", h.ProductStats)
		g.GET("/product/:product_id/adjustments", h.AdjustmentsByProduct)
		g.GET("/:id", h.Get)
		g.PATCH("/:id/settings", h.UpdateSettings)
		g.DELETE("/:id", h.Delete)
		g.GET("/:id/adjustments", h.AdjustmentsByInventory)

		g.POST("/reserve", h.Reserve)
		g.POST("/release", h.Release)
		g.POST("/adjust", h.Adjust)
	}
}

// Create 创建库存记录
// POST /api/v1/inventory
func (h *InventoryHandler) Create(c *gin.Context) {
	var req dto.CreateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	inv, err := h.svc.Create(c.Request.Context(), appstock.CreateInput{
		ProductID:         req.ProductID,
		LocationID:        req.LocationID,
		QuantityAvailable: req.QuantityAvailable,
		ReorderPoint:      req.ReorderPoint,
		ReorderQuantity:   req.ReorderQuantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "库存记录创建成功", dto.ToInventoryResponse(inv))
}

// Get 获取库存记录
// GET /api/v1/inventory/:id
func (h *InventoryHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	inv, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToInventoryResponse(inv))
}

// GetByProduct 获取商品在所有库位的库存
// GET /api/v1/inventory/product/:product_id
func (h *InventoryHandler) GetByProduct(c *gin.Context) {
	productID, err := parseID(c.Param("product_id"))
	if err != nil {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	invs, err := h.svc.GetByProduct(c.Request.Context(), productID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToInventoryResponses(invs))
}

// ProductStats 商品跨库位库存汇总
// GET /api/v1/inventory/product/:product_id/stats
func (h *InventoryHandler) ProductStats(c *gin.Context) {
	productID, err := parseID(c.Param("product_id"))
	if err != nil {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	stats, err := h.svc.GetProductStats(c.Request.Context(), productID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// LowStock 低库存列表（按缺口从大到小）
// GET /api/v1/inventory/low-stock?location_id=1&limit=100
func (h *InventoryHandler) LowStock(c *gin.Context) {
	locationID := uint(parseIntDefault(c.Query("location_id"), 0))
	limit := parseIntDefault(c.Query("limit"), 0)

	items, err := h.svc.GetLowStock(c.Request.Context(), locationID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToLowStockResponses(items))
}

// Reserve 预留库存
// POST /api/v1/inventory/reserve
func (h *InventoryHandler) Reserve(c *gin.Context) {
	var req dto.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	result, err := h.svc.Reserve(c.Request.Context(), appstock.ReserveInput{
		ProductID:      req.ProductID,
		LocationID:     req.LocationID,
		OrderID:        req.OrderID,
		Quantity:       req.Quantity,
		ExpiresMinutes: req.ExpiresMinutes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "库存预留成功", &dto.ReserveResponse{
		Reservation: dto.ToReservationResponse(result.Reservation),
		Inventory:   dto.ToInventoryResponse(result.Inventory),
	})
}

// Release 按订单释放预留
// POST /api/v1/inventory/release
func (h *InventoryHandler) Release(c *gin.Context) {
	var req dto.ReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	result, err := h.svc.ReleaseByOrder(c.Request.Context(), appstock.ReleaseInput{
		OrderID:    req.OrderID,
		ProductID:  req.ProductID,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "预留释放成功", &dto.ReserveResponse{
		Reservation: dto.ToReservationResponse(result.Reservation),
		Inventory:   dto.ToInventoryResponse(result.Inventory),
	})
}

// Adjust 调整库存
// POST /api/v1/inventory/adjust
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req dto.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	result, err := h.svc.Adjust(c.Request.Context(), appstock.AdjustInput{
		ProductID:  req.ProductID,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
		Type:       stock.AdjustmentType(req.Type),
		Reason:     req.Reason,
		CreatedBy:  req.CreatedBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "库存调整成功", dto.ToInventoryResponse(result.Inventory))
}

// UpdateSettings 更新补货参数
// PATCH /api/v1/inventory/:id/settings
func (h *InventoryHandler) UpdateSettings(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	inv, err := h.svc.UpdateSettings(c.Request.Context(), id, req.ReorderPoint, req.ReorderQuantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "补货参数更新成功", dto.ToInventoryResponse(inv))
}

// Delete 删除空库存记录
// DELETE /api/v1/inventory/:id
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "库存记录已删除", nil)
}

// AdjustmentsByInventory 查询库存记录的调整流水
// GET /api/v1/inventory/:id/adjustments?limit=50&offset=0
func (h *InventoryHandler) AdjustmentsByInventory(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	limit := parseIntDefault(c.Query("limit"), 50)
	offset := parseIntDefault(c.Query("offset"), 0)

	adjs, err := h.svc.ListAdjustmentsByInventory(c.Request.Context(), id, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, dto.ToAdjustmentResponses(adjs), len(adjs), limit, offset)
}

// AdjustmentsByProduct 查询商品的调整流水
// GET /api/v1/inventory/product/:product_id/adjustments?limit=50&offset=0
func (h *InventoryHandler) AdjustmentsByProduct(c *gin.Context) {
	productID, err := parseID(c.Param("product_id"))
	if err != nil {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	limit := parseIntDefault(c.Query("limit"), 50)
	offset := parseIntDefault(c.Query("offset"), 0)

	adjs, err := h.svc.ListAdjustmentsByProduct(c.Request.Context(), productID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, dto.ToAdjustmentResponses(adjs), len(adjs), limit, offset)
}
