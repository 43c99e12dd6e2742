package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterPresenceRoutes registers the presence routes.
func (rt *Router) RegisterPresenceRoutes(rg *gin.RouterGroup) {
	presenceGroup := rg.Group("/presence")
	{
		presenceGroup.POST("/set", rt.handlers.Presence.SetPresence)
		presenceGroup.GET("/of", rt.handlers.Presence.PresenceOf)
	}
}
