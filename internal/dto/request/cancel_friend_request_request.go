package request

// CancelFriendRequestRequest withdraws the caller's own pending request.
// Used by: handler/friend_handler.go CancelRequest
type CancelFriendRequestRequest struct {
	RequestId string `json:"request_id" binding:"required"`
}
