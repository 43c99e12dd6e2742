package redis

import (
	"strconv"
	"time"

	"vega_social_server/pkg/constants"
	"vega_social_server/pkg/errorx"

	"github.com/redis/go-redis/v9"
)

// Cache keys. The friend set backs the friends-only presence check; the
// unread counter backs the notification badge without a COUNT query.
const (
	friendSetPrefix   = "friends:of:"
	unreadCountPrefix = "notify:unread:"
)

// FriendIds reads the cached friend-id set of a user. Empty result means
// cache miss (or genuinely no friends); callers fall back to the database.
func FriendIds(userId string) ([]string, error) {
	return SMembers(friendSetPrefix + userId)
}

// CacheFriendIds replaces/extends a user's friend-id set.
func CacheFriendIds(userId string, friendIds []string) error {
	if len(friendIds) == 0 {
		return nil
	}
	members := make([]interface{}, len(friendIds))
	for i, id := range friendIds {
		members[i] = id
	}
	return SAdd(friendSetPrefix+userId, members...)
}

// InvalidateFriendIds drops a user's friend-id set after a relationship
// mutation.
func InvalidateFriendIds(userId string) error {
	return DelKey(friendSetPrefix + userId)
}

// incrUnreadScript bumps the counter only while the key exists and
// refreshes its TTL. A bare INCR would recreate an expired key at 1 and
// the counter would undercount until the next recount; a cold key must
// stay cold so reads fall through to the database.
var incrUnreadScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
local value = redis.call("INCR", KEYS[1])
redis.call("EXPIRE", KEYS[1], ARGV[1])
return value
`)

// IncrUnread bumps a user's unread notification counter when it is warm.
func IncrUnread(userId string) error {
	ttlSeconds := int(constants.REDIS_TIMEOUT * time.Minute / time.Second)
	err := incrUnreadScript.Run(ctx, redisClient,
		[]string{unreadCountPrefix + userId}, ttlSeconds).Err()
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis incr unread user=%s", userId)
	}
	return nil
}

// UnreadCount reads the cached unread counter. Missing key reports ok=false
// so the caller can fall through to the database count.
func UnreadCount(userId string) (int64, bool) {
	value, err := GetKey(unreadCountPrefix + userId)
	if err != nil || value == "" {
		return 0, false
	}
	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

// SetUnreadCount writes the unread counter after a database recount. The
// TTL bounds staleness if an invalidation is ever missed.
func SetUnreadCount(userId string, count int64) error {
	return SetKeyEx(unreadCountPrefix+userId, strconv.FormatInt(count, 10),
		constants.REDIS_TIMEOUT*time.Minute)
}
