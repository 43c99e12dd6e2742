package request

// RespondFriendRequestRequest accepts or declines a pending request.
// Used by: handler/friend_handler.go RespondRequest
type RespondFriendRequestRequest struct {
	RequestId string `json:"request_id" binding:"required"`
	Action    string `json:"action" binding:"required,oneof=accept decline"`
}
