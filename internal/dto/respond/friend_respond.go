package respond

import (
	"vega_social_server/internal/model"
)

// FriendRespond is one entry of the caller's friend list.
// Used by: handler/friend_handler.go FriendList
type FriendRespond struct {
	UserId   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar,omitempty"`
}

// NewFriendList converts user records to friend list entries.
func NewFriendList(users []model.UserInfo) []FriendRespond {
	out := make([]FriendRespond, 0, len(users))
	for i := range users {
		out = append(out, FriendRespond{
			UserId:   users[i].Uuid,
			Nickname: users[i].Nickname,
			Avatar:   users[i].Avatar,
		})
	}
	return out
}
