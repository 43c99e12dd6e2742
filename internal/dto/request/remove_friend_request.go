package request

// RemoveFriendRequest dissolves the friendship with another user.
// Used by: handler/friend_handler.go RemoveFriend
type RemoveFriendRequest struct {
	FriendId string `json:"friend_id" binding:"required"`
}
