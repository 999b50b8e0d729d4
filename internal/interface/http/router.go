package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xiebiao/inventory/internal/interface/http/handler"
	"github.com/xiebiao/inventory/internal/interface/http/middleware"
)

// NewRouter 组装gin引擎
// 路由结构：
//   - /ping            健康检查
//   - /metrics         Prometheus指标
//   - /api/v1/...      业务接口
func NewRouter(
	mode string,
	locationHandler *handler.LocationHandler,
	inventoryHandler *handler.InventoryHandler,
	reservationHandler *handler.ReservationHandler,
) *gin.Engine {
	gin.SetMode(mode)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.Metrics())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		locationHandler.Register(v1)
		inventoryHandler.Register(v1)
		reservationHandler.Register(v1)
	}

	return r
}
