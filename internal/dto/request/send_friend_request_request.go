package request

// SendFriendRequestRequest creates a pending friend request to another user.
// Used by: handler/friend_handler.go SendRequest
type SendFriendRequestRequest struct {
	// ReceiverId is the target user's id.
	ReceiverId string `json:"receiver_id" binding:"required"`
	// Message is an optional note shown with the request.
	Message string `json:"message" binding:"max=512"`
}
