package respond

// UnreadCountRespond carries the caller's unread notification count.
// Used by: handler/notification_handler.go UnreadCount
type UnreadCountRespond struct {
	Count int64 `json:"count"`
}
