package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"mediavault/infrastructure/logger"
)

// RequestLogger emits one structured line per request. SSE streams are
// skipped since they stay open for the life of the client.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.FullPath() == "/api/downloads/stream" {
			ctx.Next()
			return
		}

		start := time.Now()
		ctx.Next()

		logger.GetLogger().WithFields(map[string]interface{}{
			"method":     ctx.Request.Method,
			"path":       ctx.Request.URL.Path,
			"status":     ctx.Writer.Status(),
			"elapsed_ms": time.Since(start).Milliseconds(),
		}).Info("http request")
	}
}
