package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/moviehub/internal/logging"
	"github.com/user/moviehub/internal/metrics"
)

// Logger 请求日志中间件，同时记录 Prometheus 指标
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// 处理请求
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		metrics.RecordAPIRequest(c.Request.Method, c.FullPath(), status, latency)

		event := logging.Info()
		if status >= 500 {
			event = logging.Error()
		} else if status >= 400 {
			event = logging.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("ip", c.ClientIP()).
			Int("status", status).
			Dur("latency", latency).
			Msg("[HTTP] 请求完成")
	}
}
