package respond

import (
	"encoding/json"

	"vega_social_server/internal/model"
)

// NotificationRespond is the API shape of a durable notification.
// Used by: handler/notification_handler.go List
type NotificationRespond struct {
	NotificationId string         `json:"notification_id"`
	SenderId       string         `json:"sender_id"`
	Type           string         `json:"type"`
	Payload        map[string]any `json:"payload,omitempty"`
	IsRead         bool           `json:"is_read"`
	CreatedAt      int64          `json:"created_at"`
}

// NewNotificationList converts storage rows to the API shape. A payload
// that fails to decode is returned empty rather than failing the listing.
func NewNotificationList(notifications []model.Notification) []NotificationRespond {
	out := make([]NotificationRespond, 0, len(notifications))
	for i := range notifications {
		n := &notifications[i]
		var payload map[string]any
		if n.Payload != "" {
			_ = json.Unmarshal([]byte(n.Payload), &payload)
		}
		out = append(out, NotificationRespond{
			NotificationId: n.Uuid,
			SenderId:       n.SenderId,
			Type:           n.Type,
			Payload:        payload,
			IsRead:         n.IsRead,
			CreatedAt:      n.CreatedAt.Unix(),
		})
	}
	return out
}
