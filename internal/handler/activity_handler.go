package handler

import (
	"vega_social_server/internal/dto/request"
	"vega_social_server/internal/dto/respond"
	"vega_social_server/internal/service/fanout"
	"vega_social_server/internal/service/relationship"

	"github.com/gin-gonic/gin"
)

// ActivityHandler serves the activity feed.
type ActivityHandler struct {
	engine        *fanout.Engine
	relationships *relationship.Service
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(engine *fanout.Engine, relationships *relationship.Service) *ActivityHandler {
	return &ActivityHandler{engine: engine, relationships: relationships}
}

// Feed handles GET /activity/feed?limit=N: visible activity of the caller
// and the caller's friends, newest first.
func (h *ActivityHandler) Feed(c *gin.Context) {
	var req request.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultListLimit
	}
	actorId := c.GetString("user_id")
	friendIds, err := h.relationships.FriendIdsOf(actorId)
	if err != nil {
		HandleError(c, err)
		return
	}
	events, err := h.engine.ActivityFeed(append(friendIds, actorId), req.Limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.NewActivityList(events))
}
