package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	applocation "github.com/xiebiao/inventory/internal/application/location"
	"github.com/xiebiao/inventory/internal/domain/location"
	"github.com/xiebiao/inventory/internal/interface/http/dto"
	apperrors "github.com/xiebiao/inventory/pkg/errors"
	"github.com/xiebiao/inventory/pkg/response"
)

// LocationHandler 库位HTTP处理器
type LocationHandler struct {
	svc *applocation.Service
}

// NewLocationHandler 创建库位处理器
func NewLocationHandler(svc *applocation.Service) *LocationHandler {
	return &LocationHandler{svc: svc}
}

// Register 注册路由
func (h *LocationHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/locations")
	{
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Deactivate)
	}
}

// Create 创建库位
// POST /api/v1/locations
func (h *LocationHandler) Create(c *gin.Context) {
	var req dto.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	loc, err := h.svc.Create(c.Request.Context(), applocation.CreateInput{
		Name:    req.Name,
		Address: req.Address,
		Type:    location.LocationType(req.Type),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "库位创建成功", dto.ToLocationResponse(loc))
}

// Get 获取库位详情
// GET /api/v1/locations/:id
func (h *LocationHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	loc, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToLocationResponse(loc))
}

// List 库位列表
// GET /api/v1/locations?type=warehouse&include_inactive=true&limit=50&offset=0
func (h *LocationHandler) List(c *gin.Context) {
	filter := location.ListFilter{
		Type:            location.LocationType(c.Query("type")),
		IncludeInactive: c.Query("include_inactive") == "true",
		Limit:           parseIntDefault(c.Query("limit"), 50),
		Offset:          parseIntDefault(c.Query("offset"), 0),
	}

	locs, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, dto.ToLocationResponses(locs), int(total), filter.Limit, filter.Offset)
}

// Update 更新库位
// PUT /api/v1/locations/:id
func (h *LocationHandler) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	var req dto.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	upd := location.LocationUpdate{
		Name:    req.Name,
		Address: req.Address,
		Active:  req.Active,
	}
	if req.Type != nil {
		t := location.LocationType(*req.Type)
		upd.Type = &t
	}

	loc, err := h.svc.Update(c.Request.Context(), id, upd)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "库位更新成功", dto.ToLocationResponse(loc))
}

// Deactivate 停用库位（软删除）
// DELETE /api/v1/locations/:id
func (h *LocationHandler) Deactivate(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "库位已停用", nil)
}

// parseID 解析路径中的数字ID
func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.ErrInvalidParams
	}
	return uint(id), nil
}

// parseIntDefault 解析查询参数，失败返回默认值
func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
