package request

// MarkReadRequest marks notifications read. An empty list marks all of the
// caller's notifications read. Used by: handler/notification_handler.go MarkRead
type MarkReadRequest struct {
	NotificationIds []string `json:"notification_ids"`
}
