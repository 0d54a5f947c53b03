package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceIDKey 请求追踪 ID 在 gin context 中的键
const TraceIDKey = "traceID"

// TraceMiddleware 为每个请求分配追踪 ID，网关传入的优先
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set(TraceIDKey, traceID)
		c.Header("X-Trace-ID", traceID)

		c.Next()
	}
}
