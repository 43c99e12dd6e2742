package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes registers the notification routes.
func (rt *Router) RegisterNotificationRoutes(rg *gin.RouterGroup) {
	notificationGroup := rg.Group("/notification")
	{
		notificationGroup.GET("/unreadCount", rt.handlers.Notification.UnreadCount)
		notificationGroup.GET("/list", rt.handlers.Notification.List)
		notificationGroup.POST("/markRead", rt.handlers.Notification.MarkRead)
	}
}
