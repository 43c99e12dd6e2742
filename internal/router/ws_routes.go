package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes registers the live event connection entry point.
func (rt *Router) RegisterWebSocketRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws", rt.handlers.Ws.Connect)
}
