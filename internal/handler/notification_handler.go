package handler

import (
	"vega_social_server/internal/dto/request"
	"vega_social_server/internal/dto/respond"
	"vega_social_server/internal/service/fanout"

	"github.com/gin-gonic/gin"
)

const defaultListLimit = 50

// NotificationHandler serves the durable notification endpoints.
type NotificationHandler struct {
	engine *fanout.Engine
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(engine *fanout.Engine) *NotificationHandler {
	return &NotificationHandler{engine: engine}
}

// UnreadCount handles GET /notification/unreadCount.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actorId := c.GetString("user_id")
	count, err := h.engine.UnreadCount(actorId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.UnreadCountRespond{Count: count})
}

// List handles GET /notification/list?limit=N, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	var req request.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultListLimit
	}
	actorId := c.GetString("user_id")
	notifications, err := h.engine.Notifications(actorId, req.Limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.NewNotificationList(notifications))
}

// MarkRead handles POST /notification/markRead.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req request.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	actorId := c.GetString("user_id")
	if err := h.engine.MarkRead(actorId, req.NotificationIds); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
