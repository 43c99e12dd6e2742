package request

// ListRequest carries the common paging limit for listing endpoints.
// Used by: handler/notification_handler.go List, handler/activity_handler.go Feed
type ListRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}
