package middleware

import (
	"strconv"
	"time"

	"github.com/guilherme-ufscar/restaurante-sub001/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 记录 HTTP 请求指标
func MetricsMiddleware() gin.HandlerFunc {
	collector := metrics.GetGlobalCollector()
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// 使用路由模板而不是真实路径，避免标签基数爆炸
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		collector.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
