package handler

import (
	"vega_social_server/internal/dto/request"
	"vega_social_server/internal/service/presence"

	"github.com/gin-gonic/gin"
)

// PresenceHandler serves the presence endpoints.
type PresenceHandler struct {
	presences *presence.Service
}

// NewPresenceHandler creates a PresenceHandler.
func NewPresenceHandler(presences *presence.Service) *PresenceHandler {
	return &PresenceHandler{presences: presences}
}

// SetPresence handles POST /presence/set.
func (h *PresenceHandler) SetPresence(c *gin.Context) {
	var req request.SetPresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	actorId := c.GetString("user_id")
	view, err := h.presences.SetPresence(c.Request.Context(), actorId, req.Status, req.Privacy, req.AllowList)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, view)
}

// PresenceOf handles GET /presence/of?user_id=xxx, filtered through the
// subject's privacy scope for the caller.
func (h *PresenceHandler) PresenceOf(c *gin.Context) {
	var req request.PresenceOfRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	actorId := c.GetString("user_id")
	view, err := h.presences.ViewFor(req.UserId, actorId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, view)
}

// FriendPresenceList handles GET /friend/presenceList.
func (h *PresenceHandler) FriendPresenceList(c *gin.Context) {
	actorId := c.GetString("user_id")
	views, err := h.presences.FriendViews(actorId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, views)
}
