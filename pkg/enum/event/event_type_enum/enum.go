// Package event_type_enum names the domain events pushed to live connections.
package event_type_enum

const (
	FriendRequestReceived  = "friend_request_received"
	FriendRequestAccepted  = "friend_request_accepted"
	FriendRequestDeclined  = "friend_request_declined"
	FriendRequestCancelled = "friend_request_cancelled"
	FriendshipRemoved      = "friendship_removed"
	PresenceChanged        = "presence_changed"
)
