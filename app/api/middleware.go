package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/visaguide/internal/logger"
)

// RequestLogger writes one structured line per request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		props := map[string]interface{}{
			"method":   c.Request.Method,
			"path":     path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"ip":       c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			props["errors"] = c.Errors.String()
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error(fmt.Errorf("%s %s returned %d", c.Request.Method, path, status), props)
		case status >= http.StatusBadRequest:
			log.Warn("request failed", props)
		default:
			log.Info("request completed", props)
		}
	}
}

// Recovery turns a panic into a 500 envelope and logs it.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error(fmt.Errorf("panic: %v", recovered), map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		InternalErrorResponse(c, "Internal server error")
		c.Abort()
	})
}
