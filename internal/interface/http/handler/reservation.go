package handler

import (
	"github.com/gin-gonic/gin"

	appreservation "github.com/xiebiao/inventory/internal/application/reservation"
	"github.com/xiebiao/inventory/internal/domain/reservation"
	"github.com/xiebiao/inventory/internal/interface/http/dto"
	apperrors "github.com/xiebiao/inventory/pkg/errors"
	"github.com/xiebiao/inventory/pkg/response"
)

// ReservationHandler 预留HTTP处理器
type ReservationHandler struct {
	svc *appreservation.Service
}

// NewReservationHandler 创建预留处理器
func NewReservationHandler(svc *appreservation.Service) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

// Register 注册路由
func (h *ReservationHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/reservations")
	{
		g.GET("", h.List)
		g.GET("/expired", h.Expired)
		g.GET("/:id", h.Get)
		g.POST("/:id/complete", h.Complete)
		g.POST("/:id/release", h.Release)
	}
}

// Get 获取预留详情
// GET /api/v1/reservations/:id
func (h *ReservationHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	res, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToReservationResponse(res))
}

// List 预留列表
// GET /api/v1/reservations?order_id=1&product_id=2&status=active&limit=50&offset=0
func (h *ReservationHandler) List(c *gin.Context) {
	filter := reservation.ListFilter{
		OrderID:   uint(parseIntDefault(c.Query("order_id"), 0)),
		ProductID: uint(parseIntDefault(c.Query("product_id"), 0)),
		Status:    reservation.Status(c.Query("status")),
		Limit:     parseIntDefault(c.Query("limit"), 50),
		Offset:    parseIntDefault(c.Query("offset"), 0),
	}

	list, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, dto.ToReservationResponses(list), len(list), filter.Limit, filter.Offset)
}

// Expired 查询已超时待回收的预留（只读，不触发回收）
// GET /api/v1/reservations/expired?limit=100
func (h *ReservationHandler) Expired(c *gin.Context) {
	limit := parseIntDefault(c.Query("limit"), 100)

	list, err := h.svc.GetExpired(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToReservationResponses(list))
}

// Complete 完成预留（商品已消耗，不回补库存）
// POST /api/v1/reservations/:id/complete
func (h *ReservationHandler) Complete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	res, err := h.svc.Complete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "预留已完成", dto.ToReservationResponse(res))
}

// Release 释放预留（预留量回补可用库存）
// POST /api/v1/reservations/:id/release
func (h *ReservationHandler) Release(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	res, err := h.svc.Release(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "预留已释放", dto.ToReservationResponse(res))
}
