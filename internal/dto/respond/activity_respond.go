package respond

import (
	"encoding/json"

	"vega_social_server/internal/model"
)

// ActivityRespond is one entry of the activity feed.
// Used by: handler/activity_handler.go Feed
type ActivityRespond struct {
	EventId   string         `json:"event_id"`
	ActorId   string         `json:"actor_id"`
	SubjectId string         `json:"subject_id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt int64          `json:"created_at"`
}

// NewActivityList converts audit rows to feed entries.
func NewActivityList(events []model.ActivityEvent) []ActivityRespond {
	out := make([]ActivityRespond, 0, len(events))
	for i := range events {
		e := &events[i]
		var payload map[string]any
		if e.Payload != "" {
			_ = json.Unmarshal([]byte(e.Payload), &payload)
		}
		out = append(out, ActivityRespond{
			EventId:   e.Uuid,
			ActorId:   e.ActorId,
			SubjectId: e.SubjectId,
			Type:      e.Type,
			Payload:   payload,
			CreatedAt: e.CreatedAt.Unix(),
		})
	}
	return out
}
