package respond

// RelationStateRespond reports the caller's relation to another user.
// Used by: handler/friend_handler.go RelationState
type RelationStateRespond struct {
	OtherId string `json:"other_id"`
	State   string `json:"state"`
}
