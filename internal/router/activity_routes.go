package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterActivityRoutes registers the activity feed routes.
func (rt *Router) RegisterActivityRoutes(rg *gin.RouterGroup) {
	activityGroup := rg.Group("/activity")
	{
		activityGroup.GET("/feed", rt.handlers.Activity.Feed)
	}
}
