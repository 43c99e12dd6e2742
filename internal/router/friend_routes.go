package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterFriendRoutes registers the relationship routes.
func (rt *Router) RegisterFriendRoutes(rg *gin.RouterGroup) {
	friendGroup := rg.Group("/friend")
	{
		friendGroup.GET("/list", rt.handlers.Friend.FriendList)
		friendGroup.GET("/pending", rt.handlers.Friend.PendingRequests)
		friendGroup.GET("/state", rt.handlers.Friend.RelationState)
		friendGroup.GET("/presenceList", rt.handlers.Presence.FriendPresenceList)

		friendGroup.POST("/request", rt.handlers.Friend.SendRequest)
		friendGroup.POST("/respond", rt.handlers.Friend.RespondRequest)
		friendGroup.POST("/cancel", rt.handlers.Friend.CancelRequest)
		friendGroup.POST("/remove", rt.handlers.Friend.RemoveFriend)
	}
}
