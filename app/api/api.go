package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var allowedHeaders = "Content-Type, " +
	"Content-Length, " +
	"Accept-Encoding, " +
	"X-CSRF-Token, " +
	"Authorization, " +
	"accept, origin, " +
	"Cache-Control, " +
	"X-Requested-With"

// CorsMiddleware echoes the request origin when it is allowed. Credentials
// are allowed because the admin session travels in a cookie, which rules
// out a wildcard origin.
func CorsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowAll || allowed[origin]) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// StorageStatus is implemented by the storage adapter.
type StorageStatus interface {
	Name() string
	Degraded() bool
	Ping(ctx context.Context) error
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
	Storage     string `json:"storage"`
	Degraded    bool   `json:"degraded"`
}

// HealthCheck returns the health status of the API
// @Summary Health Check
// @Description Reports the active storage backend and whether the catalog is served from the file fallback
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/v1/healthz [get]
func HealthCheck(env, version string, storage StorageStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := HealthResponse{
			Status:      "healthy",
			Environment: env,
			Version:     version,
		}
		if storage == nil {
			c.JSON(http.StatusOK, resp)
			return
		}

		resp.Storage = storage.Name()
		resp.Degraded = storage.Degraded()
		if resp.Degraded {
			resp.Status = "degraded"
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := storage.Ping(ctx); err != nil {
			resp.Status = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
