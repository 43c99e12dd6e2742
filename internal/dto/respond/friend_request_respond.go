package respond

import (
	"vega_social_server/internal/model"
	"vega_social_server/pkg/enum/request/request_status_enum"
)

// FriendRequestRespond is the API shape of a friend request.
// Used by: handler/friend_handler.go SendRequest, PendingRequests
type FriendRequestRespond struct {
	RequestId  string `json:"request_id"`
	SenderId   string `json:"sender_id"`
	ReceiverId string `json:"receiver_id"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	CreatedAt  int64  `json:"created_at"`
	ExpiresAt  int64  `json:"expires_at"`
}

// NewFriendRequestRespond converts a storage row to the API shape.
func NewFriendRequestRespond(request *model.FriendRequest) FriendRequestRespond {
	return FriendRequestRespond{
		RequestId:  request.Uuid,
		SenderId:   request.SenderId,
		ReceiverId: request.ReceiverId,
		Status:     request_status_enum.Label(request.Status),
		Message:    request.Message,
		CreatedAt:  request.CreatedAt.Unix(),
		ExpiresAt:  request.ExpiresAt.Unix(),
	}
}

// NewFriendRequestList converts a slice of storage rows.
func NewFriendRequestList(requests []model.FriendRequest) []FriendRequestRespond {
	out := make([]FriendRequestRespond, 0, len(requests))
	for i := range requests {
		out = append(out, NewFriendRequestRespond(&requests[i]))
	}
	return out
}
