package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Audit writes one structured audit entry for every successful mutation
// passing through the group it is installed on.
func Audit(log *zap.Logger, resource string) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		fields := []zap.Field{
			zap.String("resource", resource),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.String("ip", c.ClientIP()),
		}
		if identity, ok := CurrentIdentity(c); ok {
			fields = append(fields, zap.String("actor", identity.Email), zap.String("role", string(identity.Role)))
		}
		if action := c.Query("action"); action != "" {
			fields = append(fields, zap.String("action", action))
		}
		log.Info("audit", fields...)
	}
}
