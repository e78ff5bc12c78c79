package http

import (
	"github.com/gin-gonic/gin"
	"github.com/layer-3/walletauth/internal/logger"
	"github.com/layer-3/walletauth/service"
)

// SetupRouter sets up the Gin router serving the backend under basePath
func SetupRouter(backend *service.Backend, basePath string, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), LoggingMiddleware(log))

	// Create handlers
	handlers := NewAuthHandlers(backend)

	api := router.Group(basePath)
	{
		api.POST("/signin", handlers.SignIn)
		api.POST("/checkSession", handlers.CheckSession)
		api.GET("/secret/:address", AuthMiddleware(backend), handlers.Secret)
	}

	return router
}
