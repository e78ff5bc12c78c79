package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/internal/logger"
	"github.com/layer-3/walletauth/service"
)

const (
	ctxAddress    = "address"
	ctxCredential = "credential"
)

// AuthMiddleware accepts requests whose Authorization header carries a credential
// valid for the :address path parameter
func AuthMiddleware(backend *service.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if auth == "" {
			c.String(http.StatusUnauthorized, "authorization header is required")
			c.Abort()
			return
		}

		address := c.Param("address")
		if !backend.CheckSession(c.Request.Context(), address, core.Credential(auth)) {
			c.String(http.StatusUnauthorized, "unauthorized")
			c.Abort()
			return
		}

		c.Set(ctxAddress, address)
		c.Set(ctxCredential, auth)

		c.Next()
	}
}

// LoggingMiddleware logs method, path, status and duration of every request
func LoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Info("http request completed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}
