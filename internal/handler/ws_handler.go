package handler

import (
	"vega_social_server/internal/service/realtime"

	"github.com/gin-gonic/gin"
)

// WsHandler upgrades authenticated requests to live event connections.
type WsHandler struct {
	gateway *realtime.Gateway
}

// NewWsHandler creates a WsHandler.
func NewWsHandler(gateway *realtime.Gateway) *WsHandler {
	return &WsHandler{gateway: gateway}
}

// Connect handles GET /ws. The user comes from the JWT middleware; a user
// may hold any number of concurrent connections.
func (h *WsHandler) Connect(c *gin.Context) {
	userId := c.GetString("user_id")
	h.gateway.HandleConnection(c, userId)
}
