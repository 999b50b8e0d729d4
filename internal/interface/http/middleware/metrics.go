package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/inventory/pkg/metrics"
)

// Metrics HTTP指标中间件
// 按(method, path, status)统计请求量与耗时；path使用路由模板
// （如/api/v1/inventory/:id）避免标签基数爆炸
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched" // 404等未命中路由的请求
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.ObserveHTTPRequest(c.Request.Method, path, status, time.Since(start).Seconds())
	}
}
