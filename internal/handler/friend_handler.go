package handler

import (
	"vega_social_server/internal/dto/request"
	"vega_social_server/internal/dto/respond"
	"vega_social_server/internal/service/relationship"

	"github.com/gin-gonic/gin"
)

// FriendHandler serves the relationship endpoints. The actor is always the
// authenticated user from the JWT middleware, never a body field.
type FriendHandler struct {
	relationships *relationship.Service
}

// NewFriendHandler creates a FriendHandler.
func NewFriendHandler(relationships *relationship.Service) *FriendHandler {
	return &FriendHandler{relationships: relationships}
}

// SendRequest handles POST /friend/request.
func (h *FriendHandler) SendRequest(c *gin.Context) {
	var req request.SendFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	actorId := c.GetString("user_id")
	created, err := h.relationships.SendRequest(c.Request.Context(), actorId, req.ReceiverId, req.Message)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.NewFriendRequestRespond(created))
}

// RespondRequest handles POST /friend/respond: accept or decline.
func (h *FriendHandler) RespondRequest(c *gin.Context) {
	var req request.RespondFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	actorId := c.GetString("user_id")
	var err error
	if req.Action == "accept" {
		err = h.relationships.AcceptRequest(c.Request.Context(), actorId, req.RequestId)
	} else {
		err = h.relationships.DeclineRequest(c.Request.Context(), actorId, req.RequestId)
	}
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// CancelRequest handles POST /friend/cancel.
func (h *FriendHandler) CancelRequest(c *gin.Context) {
	var req request.CancelFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	actorId := c.GetString("user_id")
	if err := h.relationships.CancelRequest(c.Request.Context(), actorId, req.RequestId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RemoveFriend handles POST /friend/remove.
func (h *FriendHandler) RemoveFriend(c *gin.Context) {
	var req request.RemoveFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	actorId := c.GetString("user_id")
	if err := h.relationships.RemoveFriendship(c.Request.Context(), actorId, req.FriendId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// FriendList handles GET /friend/list.
func (h *FriendHandler) FriendList(c *gin.Context) {
	actorId := c.GetString("user_id")
	friends, err := h.relationships.FriendsOf(actorId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.NewFriendList(friends))
}

// PendingRequests handles GET /friend/pending: both directions.
func (h *FriendHandler) PendingRequests(c *gin.Context) {
	actorId := c.GetString("user_id")
	sent, err := h.relationships.PendingSent(actorId)
	if err != nil {
		HandleError(c, err)
		return
	}
	received, err := h.relationships.PendingReceived(actorId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{
		"sent":     respond.NewFriendRequestList(sent),
		"received": respond.NewFriendRequestList(received),
	})
}

// RelationState handles GET /friend/state?other_id=xxx.
func (h *FriendHandler) RelationState(c *gin.Context) {
	var req request.RelationStateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	actorId := c.GetString("user_id")
	state, err := h.relationships.StateOf(actorId, req.OtherId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.RelationStateRespond{OtherId: req.OtherId, State: state})
}
