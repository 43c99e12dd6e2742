package redis

import (
	"testing"

	"github.com/redis/go-redis/v9"
)

// useTestClient points the package at a local redis and skips when none is
// reachable. DB 9 keeps test keys away from application data.
func useTestClient(t *testing.T) {
	t.Helper()
	redisClient = redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379", DB: 9})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
}

func TestIncrUnreadLeavesColdKeyCold(t *testing.T) {
	useTestClient(t)
	const userId = "unread_cold_user"
	if err := DelKey(unreadCountPrefix + userId); err != nil {
		t.Fatalf("DelKey: %v", err)
	}

	// increment against a missing (e.g. expired) key must not recreate it
	// at 1; the read has to miss so callers recount from the database
	if err := IncrUnread(userId); err != nil {
		t.Fatalf("IncrUnread: %v", err)
	}
	if count, ok := UnreadCount(userId); ok {
		t.Fatalf("cold counter was recreated with value %d; want a miss", count)
	}
}

func TestIncrUnreadBumpsWarmKeyAndKeepsTTL(t *testing.T) {
	useTestClient(t)
	const userId = "unread_warm_user"
	defer func() { _ = DelKey(unreadCountPrefix + userId) }()

	if err := SetUnreadCount(userId, 5); err != nil {
		t.Fatalf("SetUnreadCount: %v", err)
	}
	if err := IncrUnread(userId); err != nil {
		t.Fatalf("IncrUnread: %v", err)
	}

	count, ok := UnreadCount(userId)
	if !ok || count != 6 {
		t.Fatalf("UnreadCount = (%d,%v), want (6,true)", count, ok)
	}

	ttl, err := redisClient.TTL(ctx, unreadCountPrefix+userId).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 {
		t.Fatalf("counter TTL = %v, want bounded; the increment must refresh it", ttl)
	}
}
