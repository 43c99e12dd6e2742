package request

// RelationStateRequest queries the caller's relation to another user.
// Used by: handler/friend_handler.go RelationState
type RelationStateRequest struct {
	OtherId string `form:"other_id" binding:"required"`
}
