package request

// PresenceOfRequest queries one user's presence as seen by the caller.
// Used by: handler/presence_handler.go PresenceOf
type PresenceOfRequest struct {
	UserId string `form:"user_id" binding:"required"`
}
