package server

import (
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by every domain handler.
type RouteRegistrar interface {
	Register(rg *gin.RouterGroup)
}

func NewHTTPEngine(log logger.ZapLogger, handlers ...RouteRegistrar) *gin.Engine {
	engine := gin.New()
	engine.Use(RequestID(), AccessLog(log), Recovery(log))

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "Online"})
	})

	v1 := engine.Group("/api/v1")
	for _, h := range handlers {
		h.Register(v1)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "detail": "route not found"})
	})
	return engine
}
